package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alexanderramin/reflekt/internal/domain"
)

var (
	whitespace       = regexp.MustCompile(`\s+`)
	nonAlnum         = regexp.MustCompile(`[^a-z0-9]+`)
	anyPlaceholder   = regexp.MustCompile(`\{[^}]+\}`)
	thingsWord       = regexp.MustCompile(`\bthings\b`)
	leakedNull       = regexp.MustCompile(`(?i)undefined|null`)
	templateMetaWord = regexp.MustCompile(`\b(prompt|app|journal|chatgpt|assistant|system|model|cache|code|entry)\b`)
	hedgedDomain     = regexp.MustCompile(`(?i)\b(work\s+or\s+school|school\s+or\s+work)\b`)
)

// bannedMetaTokens never appear in a rendered prompt.
var bannedMetaTokens = map[string]bool{
	"prompt": true, "prompts": true, "shuffle": true, "reflekt": true,
	"chatgpt": true, "assistant": true, "system": true, "model": true,
	"cache": true, "version": true, "code": true, "app": true,
	"entry": true, "journal": true, "journaling": true,
}

var allowedPlaceholders = map[string]bool{
	"{timeframe}": true, "{timeframe_next}": true, "{timeframe_end}": true,
}

// NormalizeSpace collapses runs of whitespace and trims.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// NormalizeKey is the comparison key used for novelty and dedupe.
func NormalizeKey(prompt string) string {
	return strings.ToLower(NormalizeSpace(prompt))
}

// ValidatePrompt reports whether a rendered prompt may be shown: one trailing
// question mark, 5-20 words, no unresolved placeholder, no meta vocabulary,
// no "things" and no null/undefined leakage.
func ValidatePrompt(text string) bool {
	s := NormalizeSpace(text)
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	if !strings.HasSuffix(lower, "?") || strings.Count(s, "?") != 1 {
		return false
	}
	for _, p := range nonAlnum.Split(lower, -1) {
		if bannedMetaTokens[p] {
			return false
		}
	}
	if thingsWord.MatchString(lower) {
		return false
	}
	if n := len(strings.Fields(s)); n < 5 || n > 20 {
		return false
	}
	if anyPlaceholder.MatchString(s) {
		return false
	}
	if leakedNull.MatchString(s) {
		return false
	}
	return true
}

// ValidateTemplateText checks template source text before it is ever
// rendered: 5-22 words, a trailing question mark, only the three allowed
// placeholders and no domain-hedging phrase.
func ValidateTemplateText(text string) error {
	s := NormalizeSpace(text)
	if s == "" {
		return fmt.Errorf("template text is empty")
	}
	if !strings.HasSuffix(s, "?") {
		return fmt.Errorf("template text must end with '?'")
	}
	for _, ph := range anyPlaceholder.FindAllString(s, -1) {
		if !allowedPlaceholders[ph] {
			return fmt.Errorf("unsupported placeholder %s", ph)
		}
	}
	lower := strings.ToLower(s)
	if templateMetaWord.MatchString(lower) {
		return fmt.Errorf("template text contains meta vocabulary")
	}
	if thingsWord.MatchString(lower) {
		return fmt.Errorf("template text contains \"things\"")
	}
	if hedgedDomain.MatchString(s) {
		return fmt.Errorf("template text hedges between domains")
	}
	if n := len(strings.Fields(s)); n < 5 || n > 22 {
		return fmt.Errorf("template text has %d words, want 5-22", n)
	}
	return nil
}

// ValidateTemplate checks an externally sourced template: text rules plus
// tags drawn only from the controlled vocabulary.
func ValidateTemplate(t Template) []error {
	var errs []error
	if len(strings.TrimSpace(t.ID)) < 3 {
		errs = append(errs, fmt.Errorf("template id %q is too short", t.ID))
	}
	if err := ValidateTemplateText(t.Text); err != nil {
		errs = append(errs, err)
	}
	if len(t.Domains) == 0 {
		errs = append(errs, fmt.Errorf("template %q has no domains", t.ID))
	}
	for _, d := range t.Domains {
		if !domain.ValidDomains[d] {
			errs = append(errs, fmt.Errorf("template %q: unknown domain %q", t.ID, d))
		}
	}
	for _, a := range t.Actions {
		if !domain.ValidActions[a] {
			errs = append(errs, fmt.Errorf("template %q: unknown action %q", t.ID, a))
		}
	}
	for _, st := range t.States {
		if !domain.ValidStates[st] {
			errs = append(errs, fmt.Errorf("template %q: unknown state %q", t.ID, st))
		}
	}
	for _, tone := range t.Tones {
		if !domain.ValidTones[tone] {
			errs = append(errs, fmt.Errorf("template %q: unknown tone %q", t.ID, tone))
		}
	}
	return errs
}
