package prompt

import (
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"logoforge/internal/domain"
)

// DefaultImageMaxLength keeps image prompts inside the DALL-E 3 input limit.
const DefaultImageMaxLength = 4000

// Template is a named prompt body plus the policy knobs applied after the
// body is executed. The zero values of the knobs disable them.
type Template struct {
	Name string
	Body string
	// MaxLength truncates the rendered prompt to this many runes.
	MaxLength int
	// RequiredSections lists headings the provider must answer with when
	// Format is text.
	RequiredSections []string
	// Format selects the answer contract appended to the prompt. Empty means
	// free-form (image prompts).
	Format domain.StrategyFormat
	// ReferenceClause is a format string with one %d verb for the 1-based
	// reference slot.
	ReferenceClause string
	// JSONSchema is appended verbatim when Format is json.
	JSONSchema string

	parsed *template.Template
}

var funcs = template.FuncMap{
	"join": strings.Join,
}

// Compile parses the body. It must be called once before Render.
func (t *Template) Compile() error {
	parsed, err := template.New(t.Name).Funcs(funcs).Option("missingkey=error").Parse(t.Body)
	if err != nil {
		return fmt.Errorf("parse %s template: %w", t.Name, err)
	}
	t.parsed = parsed
	return nil
}

// Render executes the body against data, then appends reference clauses for
// slots and the answer contract. MaxLength is enforced on the body alone, so
// the appended policy lines are never cut.
func (t *Template) Render(data any, slots []int) (string, error) {
	if t.parsed == nil {
		if err := t.Compile(); err != nil {
			return "", err
		}
	}
	var sb strings.Builder
	if err := t.parsed.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", t.Name, err)
	}
	body := strings.TrimSpace(sb.String())

	policy := t.policyLines(slots)
	if t.MaxLength > 0 {
		budget := t.MaxLength
		for _, line := range policy {
			budget -= utf8.RuneCountInString(line) + 1
		}
		body = cut(body, max(budget, 0))
	}
	return strings.Join(append([]string{body}, policy...), "\n"), nil
}

func (t *Template) policyLines(slots []int) []string {
	var lines []string
	if t.ReferenceClause != "" {
		for _, slot := range slots {
			lines = append(lines, fmt.Sprintf(t.ReferenceClause, slot))
		}
	}
	switch t.Format {
	case domain.StrategyFormatText:
		if len(t.RequiredSections) > 0 {
			var req strings.Builder
			req.WriteString("Structure the answer in exactly these sections, each starting with its heading:")
			for i, section := range t.RequiredSections {
				fmt.Fprintf(&req, "\n%d. %s", i+1, section)
			}
			lines = append(lines, req.String())
		}
	case domain.StrategyFormatJSON:
		if t.JSONSchema != "" {
			lines = append(lines, "Respond only with a single JSON object matching this schema, with no commentary: "+t.JSONSchema)
		}
	}
	return lines
}

// Truncate cuts s to at most max runes. A non-positive max disables it.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	return cut(s, max)
}

func cut(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return strings.TrimRight(s[:i], " \n\t")
		}
		count++
	}
	return s
}
