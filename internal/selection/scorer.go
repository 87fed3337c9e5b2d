package selection

import (
	"github.com/alexanderramin/reflekt/internal/catalog"
	"github.com/alexanderramin/reflekt/internal/domain"
	"github.com/alexanderramin/reflekt/internal/snapshot"
)

// ReasonCode names one scoring factor.
type ReasonCode string

const (
	ReasonDomainOverlap  ReasonCode = "DOMAIN_OVERLAP"
	ReasonActionOverlap  ReasonCode = "ACTION_OVERLAP"
	ReasonStateOverlap   ReasonCode = "STATE_OVERLAP"
	ReasonToneMatch      ReasonCode = "TONE_MATCH"
	ReasonIntentRepeated ReasonCode = "INTENT_REPEATED"
)

// Reason records how much one factor moved a template's weight.
type Reason struct {
	Code  ReasonCode `json:"code"`
	Delta float64    `json:"delta"`
}

// ScoringWeights are the per-factor deltas. The base weight is always 1.
type ScoringWeights struct {
	DomainOverlap float64
	ActionOverlap float64
	StateOverlap  float64
	ToneMatch     float64
	RepeatPenalty float64
	Floor         float64
}

// DefaultWeights returns the tuned production weights.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		DomainOverlap: 1.1,
		ActionOverlap: 0.9,
		StateOverlap:  0.7,
		ToneMatch:     0.4,
		RepeatPenalty: 0.55,
		Floor:         0.05,
	}
}

// ScoringInput is everything a template weight depends on.
type ScoringInput struct {
	Template    catalog.Template
	Snapshot    snapshot.Snapshot
	UsedIntents map[domain.ActionTag]bool
	Weights     ScoringWeights
}

// ScoredTemplate is a template with its draw weight and the factors behind it.
type ScoredTemplate struct {
	Template catalog.Template `json:"template"`
	Score    float64          `json:"score"`
	Reasons  []Reason         `json:"reasons,omitempty"`
}

// ScoreTemplate computes the relevance weight used by the weighted draw.
func ScoreTemplate(input ScoringInput) ScoredTemplate {
	result := ScoredTemplate{Template: input.Template}

	score := 1.0
	factors := []func(ScoringInput) (float64, *Reason){
		scoreDomainOverlap,
		scoreActionOverlap,
		scoreStateOverlap,
		scoreToneMatch,
		scoreIntentRepeat,
	}
	for _, f := range factors {
		delta, reason := f(input)
		score += delta
		if reason != nil {
			result.Reasons = append(result.Reasons, *reason)
		}
	}

	result.Score = max(input.Weights.Floor, score)
	return result
}

func scoreDomainOverlap(in ScoringInput) (float64, *Reason) {
	if !anyOf(in.Template.Domains, in.Snapshot.Domains...) {
		return 0, nil
	}
	return in.Weights.DomainOverlap, &Reason{Code: ReasonDomainOverlap, Delta: in.Weights.DomainOverlap}
}

func scoreActionOverlap(in ScoringInput) (float64, *Reason) {
	if !anyOf(in.Template.Actions, in.Snapshot.Actions...) {
		return 0, nil
	}
	return in.Weights.ActionOverlap, &Reason{Code: ReasonActionOverlap, Delta: in.Weights.ActionOverlap}
}

func scoreStateOverlap(in ScoringInput) (float64, *Reason) {
	if !anyOf(in.Template.States, in.Snapshot.States...) {
		return 0, nil
	}
	return in.Weights.StateOverlap, &Reason{Code: ReasonStateOverlap, Delta: in.Weights.StateOverlap}
}

func scoreToneMatch(in ScoringInput) (float64, *Reason) {
	if !in.Template.HasTone(in.Snapshot.Tone) {
		return 0, nil
	}
	return in.Weights.ToneMatch, &Reason{Code: ReasonToneMatch, Delta: in.Weights.ToneMatch}
}

// scoreIntentRepeat penalizes a primary action already used in this batch.
func scoreIntentRepeat(in ScoringInput) (float64, *Reason) {
	primary := in.Template.PrimaryAction()
	if primary == "" || !in.UsedIntents[primary] {
		return 0, nil
	}
	delta := -in.Weights.RepeatPenalty
	return delta, &Reason{Code: ReasonIntentRepeated, Delta: delta}
}
