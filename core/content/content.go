package content

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	KindRichText      = "rich_text"
	KindExternalVideo = "external_video"
	KindPDF           = "pdf"
)

// Payload carries the kind-specific part of a content item. A pdf item
// keeps its StoragePath so the backing blob can be removed when the
// item is deleted.
type Payload struct {
	Body        string `json:"body,omitempty"`
	VideoURL    string `json:"videoUrl,omitempty"`
	Provider    string `json:"provider,omitempty"`
	PDFURL      string `json:"pdfUrl,omitempty"`
	StoragePath string `json:"storagePath,omitempty"`
	FileName    string `json:"fileName,omitempty"`
	FileSize    int64  `json:"fileSize,omitempty"`
}

func (p Payload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Payload) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported payload column type %T", src)
	}
}

type Content struct {
	ID          string    `json:"id" db:"content_id"`
	ModuleID    string    `json:"moduleId" db:"module_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Index       int       `json:"index" db:"index"`
	Kind        string    `json:"kind" db:"kind"`
	Payload     Payload   `json:"payload" db:"payload"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type ContentNew struct {
	ModuleID    string  `json:"moduleId" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Index       int     `json:"index" validate:"gte=0"`
	Kind        string  `json:"kind" validate:"required,oneof=rich_text external_video pdf"`
	Payload     Payload `json:"payload"`
}

type ContentUp struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Index       *int     `json:"index" validate:"omitempty,gte=0"`
	Payload     *Payload `json:"payload"`
}

type OrderUp struct {
	ID    string `json:"id" validate:"required"`
	Index int    `json:"index" validate:"gte=0"`
}
