// Package enrollment tracks which students have access to which
// courses. Enrollments are never deleted: revoking access flips the
// status, and enrolling again reactivates the same row.
package enrollment

import (
	"time"
)

const (
	Active   = "active"
	Inactive = "inactive"
)

type Enrollment struct {
	ID          string    `json:"id" db:"enrollment_id"`
	CourseID    string    `json:"courseId" db:"course_id"`
	StudentID   string    `json:"studentId" db:"student_id"`
	OwnerID     string    `json:"courseOwnerId" db:"course_owner_id"`
	StudentName string    `json:"studentName" db:"student_name"`
	OwnerName   string    `json:"courseOwnerName" db:"course_owner_name"`
	Status      string    `json:"status" db:"status"`
	Progress    int       `json:"progress" db:"progress"`
	EnrolledAt  time.Time `json:"enrolledAt" db:"enrolled_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
