package domain

// DomainTag is a coarse life-area tag.
type DomainTag string

const (
	DomainWork             DomainTag = "work"
	DomainSchool           DomainTag = "school"
	DomainRelationships    DomainTag = "relationships"
	DomainHealth           DomainTag = "health"
	DomainMoney            DomainTag = "money"
	DomainLifeAdmin        DomainTag = "life_admin"
	DomainSelf             DomainTag = "self"
	DomainStress           DomainTag = "stress"
	DomainResponsibilities DomainTag = "responsibilities"
	DomainGeneral          DomainTag = "general"
)

// ActionTag describes the kind of reflection a template invites.
type ActionTag string

const (
	ActionPlan       ActionTag = "plan"
	ActionBoundaries ActionTag = "boundaries"
	ActionRest       ActionTag = "rest"
	ActionSupport    ActionTag = "support"
	ActionGratitude  ActionTag = "gratitude"
	ActionReflect    ActionTag = "reflect"
	ActionReframe    ActionTag = "reframe"
	ActionValues     ActionTag = "values"
	ActionRelease    ActionTag = "release"
)

// StateTag is an emotional-state hint detected in entries.
type StateTag string

const (
	StateOverwhelmed StateTag = "overwhelmed"
	StateLowEnergy   StateTag = "low_energy"
	StateAnxious     StateTag = "anxious"
	StateLonely      StateTag = "lonely"
	StateCalm        StateTag = "calm"
	StateHopeful     StateTag = "hopeful"
)

// ToneTag is the register a prompt should be written in.
type ToneTag string

const (
	ToneGentle  ToneTag = "gentle"
	ToneNeutral ToneTag = "neutral"
	ToneUpbeat  ToneTag = "upbeat"
	ToneDirect  ToneTag = "direct"
)

// ModeTag is a contextual flag that narrows template eligibility.
type ModeTag string

const (
	ModeLowSignal        ModeTag = "lowSignal"
	ModeTask             ModeTag = "taskMode"
	ModeThirdPersonHeavy ModeTag = "thirdPersonHeavy"
	ModeSensitive        ModeTag = "sensitiveMode"
	ModePositive         ModeTag = "positiveMode"
)

// WeekMode distinguishes weekdays from weekends.
type WeekMode string

const (
	WeekModeWeekday WeekMode = "weekday"
	WeekModeWeekend WeekMode = "weekend"
)

// ValidDomains is the controlled domain vocabulary accepted from any template source.
var ValidDomains = map[DomainTag]bool{
	DomainWork: true, DomainSchool: true, DomainRelationships: true,
	DomainHealth: true, DomainMoney: true, DomainLifeAdmin: true,
	DomainSelf: true, DomainStress: true, DomainResponsibilities: true,
	DomainGeneral: true,
}

// ValidActions is the controlled action vocabulary.
var ValidActions = map[ActionTag]bool{
	ActionPlan: true, ActionBoundaries: true, ActionRest: true,
	ActionSupport: true, ActionGratitude: true, ActionReflect: true,
	ActionReframe: true, ActionValues: true, ActionRelease: true,
}

// ValidStates is the controlled state vocabulary.
var ValidStates = map[StateTag]bool{
	StateOverwhelmed: true, StateLowEnergy: true, StateAnxious: true,
	StateLonely: true, StateCalm: true, StateHopeful: true,
}

// ValidTones is the controlled tone vocabulary.
var ValidTones = map[ToneTag]bool{
	ToneGentle: true, ToneNeutral: true, ToneUpbeat: true, ToneDirect: true,
}
