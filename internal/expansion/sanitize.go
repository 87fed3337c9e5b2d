package expansion

import (
	"strings"

	"github.com/google/uuid"

	"github.com/alexanderramin/reflekt/internal/catalog"
	"github.com/alexanderramin/reflekt/internal/domain"
)

// candidate is a template as the model returned it, before any checks.
type candidate struct {
	ID      string   `json:"id"`
	Domains []string `json:"domains"`
	Actions []string `json:"actions"`
	States  []string `json:"states"`
	Tones   []string `json:"tones"`
	Text    string   `json:"text"`
}

type templatesPayload struct {
	Templates []candidate `json:"templates"`
}

// sanitize turns a raw candidate into a Template, or reports false when it
// breaks any template rule. A missing id gets a generated "ai_" id; an id
// that is present but shorter than three characters is rejected.
func sanitize(c candidate) (catalog.Template, bool) {
	id := strings.TrimSpace(c.ID)
	if id == "" {
		id = "ai_" + uuid.NewString()[:8]
	}
	t := catalog.Template{
		ID:      id,
		Domains: tags[domain.DomainTag](c.Domains),
		Actions: tags[domain.ActionTag](c.Actions),
		States:  tags[domain.StateTag](c.States),
		Tones:   tags[domain.ToneTag](c.Tones),
		Text:    catalog.NormalizeSpace(c.Text),
	}
	if errs := catalog.ValidateTemplate(t); len(errs) > 0 {
		return catalog.Template{}, false
	}
	return t, true
}

func tags[T ~string](raw []string) []T {
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" {
			out = append(out, T(r))
		}
	}
	return out
}

// sanitizeAll keeps the valid candidates, first id wins.
func sanitizeAll(cands []candidate) []catalog.Template {
	var out []catalog.Template
	for _, c := range cands {
		if t, ok := sanitize(c); ok {
			out = append(out, t)
		}
	}
	return catalog.Merge(nil, out)
}
