package email

import (
	"strings"
	"testing"
)

func TestRenderTokens(t *testing.T) {
	out := Render("<p>Olá {{NAME}}, bem-vindo ao {{COURSE_TITLE}}</p>", Data{
		Vars: map[string]string{
			"NAME":         "Ana",
			"COURSE_TITLE": "Go do Zero",
		},
	})

	want := "<p>Olá Ana, bem-vindo ao Go do Zero</p>"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRenderUnknownTokenIsEmpty(t *testing.T) {
	out := Render("a{{MISSING}}b", Data{})
	if out != "ab" {
		t.Fatalf("got %q, want %q", out, "ab")
	}
}

func TestRenderBlocks(t *testing.T) {
	tmpl := "start {{#if IS_MENTOR}}mentor only{{/if}} end"

	out := Render(tmpl, Data{Blocks: map[string]bool{"IS_MENTOR": true}})
	if out != "start mentor only end" {
		t.Fatalf("block kept: got %q", out)
	}

	out = Render(tmpl, Data{Blocks: map[string]bool{"IS_MENTOR": false}})
	if out != "start  end" {
		t.Fatalf("block dropped: got %q", out)
	}

	out = Render(tmpl, Data{})
	if out != "start  end" {
		t.Fatalf("block unset: got %q", out)
	}
}

func TestRenderBlockContainsTokens(t *testing.T) {
	tmpl := "{{#if GREET}}Olá {{NAME}}{{/if}}"

	out := Render(tmpl, Data{
		Vars:   map[string]string{"NAME": "Ana"},
		Blocks: map[string]bool{"GREET": true},
	})
	if out != "Olá Ana" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderValueWithMarkerSyntax(t *testing.T) {
	// A substituted value is never rescanned: marker text coming from
	// user data must land in the output verbatim.
	out := Render("{{NAME}} {{ROLE}}", Data{
		Vars: map[string]string{
			"NAME": "{{ROLE}}",
			"ROLE": "mentor",
		},
	})

	want := "{{ROLE}} mentor"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRenderTemplatesCarryNoLeftoverMarkers(t *testing.T) {
	for name, tmpl := range map[string]string{
		"welcome":    welcomeTmpl,
		"purchase":   purchaseTmpl,
		"enrollment": enrollmentTmpl,
	} {
		out := Render(tmpl, Data{
			Vars: map[string]string{
				"NAME":         "Ana",
				"COURSE_TITLE": "Go do Zero",
				"STUDENT_NAME": "João",
			},
			Blocks: map[string]bool{"IS_MENTOR": true},
		})

		if strings.Contains(out, "{{") || strings.Contains(out, "}}") {
			t.Errorf("template %s rendered with leftover markers: %q", name, out)
		}
	}
}
