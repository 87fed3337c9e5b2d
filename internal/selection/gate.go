// Package selection filters, weights and draws prompts from the template pool
// and degrades through fallbacks until it has something valid to show.
package selection

import (
	"slices"

	"github.com/alexanderramin/reflekt/internal/catalog"
	"github.com/alexanderramin/reflekt/internal/domain"
	"github.com/alexanderramin/reflekt/internal/snapshot"
)

var (
	sensitiveActions = []domain.ActionTag{
		domain.ActionSupport, domain.ActionRest, domain.ActionRelease,
		domain.ActionPlan, domain.ActionBoundaries,
	}
	thirdPersonRelationshipActions = []domain.ActionTag{
		domain.ActionBoundaries, domain.ActionSupport, domain.ActionReframe,
	}
)

func anyOf[T comparable](have []T, want ...T) bool {
	for _, h := range have {
		if slices.Contains(want, h) {
			return true
		}
	}
	return false
}

func templateDomains(t catalog.Template) []domain.DomainTag {
	if len(t.Domains) == 0 {
		return []domain.DomainTag{domain.DomainGeneral}
	}
	return t.Domains
}

// Eligible applies the mode rules and the domain, intent and tone matches.
func Eligible(t catalog.Template, snap snapshot.Snapshot) bool {
	domains := templateDomains(t)

	if snap.HasMode(domain.ModeSensitive) && len(t.Actions) > 0 && !anyOf(t.Actions, sensitiveActions...) {
		return false
	}

	if snap.HasMode(domain.ModeLowSignal) {
		allowed := append([]domain.DomainTag{domain.DomainGeneral, domain.DomainResponsibilities}, snap.Domains...)
		if !anyOf(domains, allowed...) {
			return false
		}
	}

	if snap.WeekMode == domain.WeekModeWeekend {
		workLike := anyOf(domains, domain.DomainWork, domain.DomainSchool)
		if workLike && !snap.HasDomain(domain.DomainWork) && !snap.HasDomain(domain.DomainSchool) {
			return false
		}
	}

	if snap.HasMode(domain.ModeThirdPersonHeavy) && slices.Contains(domains, domain.DomainRelationships) &&
		!anyOf(t.Actions, thirdPersonRelationshipActions...) {
		return false
	}

	if snap.HasMode(domain.ModePositive) && slices.Contains(domains, domain.DomainStress) && t.HasAction(domain.ActionRest) {
		return false
	}

	general := slices.Contains(domains, domain.DomainGeneral)
	domainOK := general || anyOf(domains, snap.Domains...)

	actionOK := len(t.Actions) == 0 || anyOf(t.Actions, snap.Actions...)
	stateOK := len(t.States) == 0 || anyOf(t.States, snap.States...)
	intentOK := actionOK || stateOK || general || slices.Contains(domains, domain.DomainResponsibilities)

	toneOK := len(t.Tones) == 0 || t.HasTone(snap.Tone) || t.HasTone(domain.ToneGentle)

	return domainOK && intentOK && toneOK
}

// Gate returns the eligible templates. When nothing passes, it falls back to
// every general or responsibilities template so the pool is never empty as
// long as the catalog holds one.
func Gate(templates []catalog.Template, snap snapshot.Snapshot) []catalog.Template {
	var out []catalog.Template
	for _, t := range templates {
		if Eligible(t, snap) {
			out = append(out, t)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, t := range templates {
		if anyOf(t.Domains, domain.DomainGeneral, domain.DomainResponsibilities) {
			out = append(out, t)
		}
	}
	return out
}
