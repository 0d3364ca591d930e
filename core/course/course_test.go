package course

import (
	"testing"
)

func fl(v float64) *float64 { return &v }

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		name   string
		course Course
		want   int64
	}{
		{"free course ignores stored price", Course{IsPaid: false, Price: fl(149.90)}, 0},
		{"paid course without price", Course{IsPaid: true}, 0},
		{"paid course converts to cents", Course{IsPaid: true, Price: fl(149.90)}, 14990},
		{"rounding up", Course{IsPaid: true, Price: fl(0.115)}, 12},
		{"zero price stays zero", Course{IsPaid: true, Price: fl(0)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.course.EffectivePrice(); got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestApplyPartialUpdate(t *testing.T) {
	title := "Novo título"
	paid := true

	c := Course{Title: "Antigo", Description: "desc", IsPaid: false, Price: fl(10)}
	got := CourseUp{Title: &title, IsPaid: &paid}.Apply(c)

	if got.Title != title {
		t.Errorf("title not applied: %q", got.Title)
	}
	if !got.IsPaid {
		t.Error("is_paid not applied")
	}
	if got.Description != "desc" {
		t.Errorf("untouched field changed: %q", got.Description)
	}
	if got.Price == nil || *got.Price != 10 {
		t.Error("untouched price changed")
	}
}
