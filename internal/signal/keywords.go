package signal

import "github.com/alexanderramin/reflekt/internal/domain"

// DomainKeywords splits a domain's keywords into unambiguous ("strong") and
// ambiguous ("weak") tiers.
type DomainKeywords struct {
	Domain domain.DomainTag
	Strong []string
	Weak   []string
}

// DomainTable lists the scored domains in tie-break order.
var DomainTable = []DomainKeywords{
	{
		Domain: domain.DomainWork,
		Strong: []string{"deadline", "meeting", "coworker", "manager", "office", "client", "project"},
		Weak:   []string{"work", "job"},
	},
	{
		Domain: domain.DomainSchool,
		Strong: []string{"exam", "assignment", "homework", "teacher", "professor", "course"},
		Weak:   []string{"school", "class", "study"},
	},
	{
		Domain: domain.DomainRelationships,
		Strong: []string{"partner", "relationship", "roommate", "boyfriend", "girlfriend"},
		Weak:   []string{"friend", "friends", "family", "parent", "sister", "brother"},
	},
	{
		Domain: domain.DomainHealth,
		Strong: []string{"therapy", "doctor", "migraine", "headache", "sick", "injury"},
		Weak:   []string{"sleep", "rest", "tired", "energy", "health", "exercise", "food"},
	},
	{
		Domain: domain.DomainMoney,
		Strong: []string{"rent", "debt", "income", "paycheck", "mortgage"},
		Weak:   []string{"money", "budget", "bill", "expense", "pay"},
	},
	{
		Domain: domain.DomainLifeAdmin,
		Strong: []string{"paperwork", "appointment", "bank", "insurance"},
		Weak:   []string{"laundry", "clean", "groceries", "errand", "email"},
	},
	{
		Domain: domain.DomainSelf,
		Strong: []string{"self esteem", "confidence", "shame", "comparison", "worthy"},
		Weak:   []string{"self", "critic", "proud"},
	},
}

// ActionKeywords maps one action tag to its trigger keywords.
type ActionKeywords struct {
	Action   domain.ActionTag
	Keywords []string
}

// ActionTable lists actions in tie-break order.
var ActionTable = []ActionKeywords{
	{domain.ActionPlan, []string{"plan", "schedule", "tomorrow", "next", "decide", "choice", "priority"}},
	{domain.ActionBoundaries, []string{"boundary", "boundaries", "limit", "protect", "space"}},
	{domain.ActionRest, []string{"rest", "sleep", "pause", "break", "recover"}},
	{domain.ActionSupport, []string{"support", "help", "talk", "reach", "ask", "someone"}},
	{domain.ActionGratitude, []string{"grateful", "gratitude", "appreciate", "thankful"}},
	{domain.ActionReflect, []string{"reflect", "notice", "realize", "learn", "pattern"}},
	{domain.ActionReframe, []string{"reframe", "perspective", "story", "assume", "thought"}},
	{domain.ActionValues, []string{"value", "values", "aligned", "meaning", "purpose"}},
	{domain.ActionRelease, []string{"let go", "release", "leave behind"}},
}

// StateKeywords maps one state tag to its hint keywords.
type StateKeywords struct {
	State    domain.StateTag
	Keywords []string
}

// StateTable lists states in tie-break order.
var StateTable = []StateKeywords{
	{domain.StateOverwhelmed, []string{"overwhelmed", "too much", "stressed", "stress", "pressure", "burnout"}},
	{domain.StateLowEnergy, []string{"tired", "exhausted", "drained", "low energy"}},
	{domain.StateAnxious, []string{"anxious", "anxiety", "nervous", "worry", "worried"}},
	{domain.StateLonely, []string{"lonely", "alone", "isolated"}},
	{domain.StateCalm, []string{"calm", "steady", "peaceful"}},
	{domain.StateHopeful, []string{"hopeful", "excited", "optimistic"}},
}

// SensitiveKeywords flag crisis or trauma content. A hit only narrows tone and
// template eligibility; nothing here produces advice.
var SensitiveKeywords = []string{
	"abuse", "assault", "trauma", "ptsd", "self harm", "suicide", "suicidal",
	"overdose", "violence",
}

// TaskKeywords mark checklist-style writing.
var TaskKeywords = []string{"todo", "to do", "checklist"}

// FirstPersonKeywords and ThirdPersonKeywords drive the thirdPersonHeavy mode.
var (
	FirstPersonKeywords = []string{"i", "me", "my", "mine", "myself"}
	ThirdPersonKeywords = []string{"he", "she", "they", "them", "his", "her", "their"}
)
