package email

import (
	"regexp"
)

var (
	blockRe = regexp.MustCompile(`(?s)\{\{#if ([A-Z_]+)\}\}(.*?)\{\{/if\}\}`)
	tokenRe = regexp.MustCompile(`\{\{([A-Z_]+)\}\}`)
)

// Data feeds a template: Vars fill {{TOKEN}} placeholders, Blocks
// decide whether an {{#if NAME}}...{{/if}} section is kept.
type Data struct {
	Vars   map[string]string
	Blocks map[string]bool
}

// Render resolves conditional blocks first and tokens second, in one
// pass each. A substituted value is never rescanned, so user-provided
// text that happens to contain marker syntax cannot reshape the
// template. Unknown tokens render as empty.
func Render(tmpl string, d Data) string {
	out := blockRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		sub := blockRe.FindStringSubmatch(m)
		if d.Blocks[sub[1]] {
			return sub[2]
		}
		return ""
	})

	return tokenRe.ReplaceAllStringFunc(out, func(m string) string {
		return d.Vars[tokenRe.FindStringSubmatch(m)[1]]
	})
}
