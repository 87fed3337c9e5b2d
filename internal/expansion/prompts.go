package expansion

import (
	"github.com/alexanderramin/reflekt/internal/catalog"
	"github.com/alexanderramin/reflekt/internal/selection"
	"github.com/alexanderramin/reflekt/internal/snapshot"
)

// BatchSize is the number of prompts a generate call returns.
const BatchSize = 24

// Render renders eligible templates in order, skipping duplicates and
// anything that fails validation. When nothing is eligible every template is
// considered instead.
func Render(templates []catalog.Template, snap snapshot.Snapshot, max int) []string {
	var eligible []catalog.Template
	for _, t := range templates {
		if selection.Eligible(t, snap) {
			eligible = append(eligible, t)
		}
	}
	if len(eligible) == 0 {
		eligible = templates
	}

	out := make([]string, 0, max)
	seen := map[string]bool{}
	for _, t := range eligible {
		if len(out) >= max {
			break
		}
		rendered := catalog.Render(t.Text, snap)
		key := catalog.NormalizeKey(rendered)
		if key == "" || seen[key] || !catalog.ValidatePrompt(rendered) {
			continue
		}
		seen[key] = true
		out = append(out, rendered)
	}
	return out
}

// Prepend puts front ahead of back, dropping repeats by normalized key and
// anything invalid, and cuts the result at max.
func Prepend(front, back []string, max int) []string {
	out := make([]string, 0, max)
	seen := map[string]bool{}
	for _, list := range [][]string{front, back} {
		for _, p := range list {
			if len(out) >= max {
				return out
			}
			key := catalog.NormalizeKey(p)
			if key == "" || seen[key] || !catalog.ValidatePrompt(p) {
				continue
			}
			seen[key] = true
			out = append(out, p)
		}
	}
	return out
}

// Widen puts prompts rendered from session templates ahead of a local batch.
// Session templates come before the static catalog so fresh questions surface.
func Widen(local []string, session []catalog.Template, snap snapshot.Snapshot) []string {
	if len(session) == 0 {
		return Prepend(nil, local, BatchSize)
	}
	pool := catalog.Merge(session, catalog.Library())
	return Prepend(Render(pool, snap, BatchSize), local, BatchSize)
}
