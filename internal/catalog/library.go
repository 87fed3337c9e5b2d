package catalog

import d "github.com/alexanderramin/reflekt/internal/domain"

func tpl(id string, domains []d.DomainTag, actions []d.ActionTag, tones []d.ToneTag, text string) Template {
	return Template{ID: id, Domains: domains, Actions: actions, Tones: tones, Text: text}
}

func doms(ds ...d.DomainTag) []d.DomainTag { return ds }
func acts(as ...d.ActionTag) []d.ActionTag { return as }
func tones(ts ...d.ToneTag) []d.ToneTag    { return ts }

// Templates must never hedge between domains ("work or school"); when the
// domain is unclear the responsibilities wording is used instead.
var library = []Template{
	// general
	tpl("gen_001", doms(d.DomainGeneral), acts(d.ActionReflect), tones(d.ToneGentle, d.ToneNeutral), "What felt most important to you {timeframe}?"),
	tpl("gen_002", doms(d.DomainGeneral), acts(d.ActionReflect), tones(d.ToneGentle, d.ToneNeutral), "What moment {timeframe} felt most like you?"),
	tpl("gen_003", doms(d.DomainGeneral), acts(d.ActionReframe), tones(d.ToneGentle), "What is one kind sentence you actually need right now?"),
	tpl("gen_004", doms(d.DomainGeneral), acts(d.ActionPlan), tones(d.ToneNeutral, d.ToneDirect), "What is the smallest next step that would make {timeframe} easier?"),
	tpl("gen_005", doms(d.DomainGeneral), acts(d.ActionGratitude), tones(d.ToneUpbeat, d.ToneGentle), "What is one small win you can give yourself credit for {timeframe}?"),
	tpl("gen_006", doms(d.DomainGeneral), acts(d.ActionRelease), tones(d.ToneGentle), "What can you let go of before {timeframe_end}?"),
	tpl("gen_007", doms(d.DomainGeneral), acts(d.ActionValues), tones(d.ToneGentle, d.ToneNeutral), "What choice would feel most aligned {timeframe_next}?"),
	tpl("gen_008", doms(d.DomainGeneral), acts(d.ActionSupport), tones(d.ToneGentle), "What kind of support would feel most real and helpful right now?"),

	// responsibilities
	tpl("resp_001", doms(d.DomainResponsibilities), acts(d.ActionPlan), tones(d.ToneNeutral, d.ToneDirect), "What is one responsibility you can make 10% easier {timeframe_next}?"),
	tpl("resp_002", doms(d.DomainResponsibilities), acts(d.ActionBoundaries), tones(d.ToneGentle, d.ToneNeutral), "What boundary would protect your energy around responsibilities {timeframe_next}?"),
	tpl("resp_003", doms(d.DomainResponsibilities), acts(d.ActionReflect), tones(d.ToneNeutral), "What part of your responsibilities mattered most {timeframe}?"),
	tpl("resp_004", doms(d.DomainResponsibilities), acts(d.ActionReframe), tones(d.ToneGentle), "What would “good enough” look like for your responsibilities {timeframe_next}?"),
	tpl("resp_005", doms(d.DomainResponsibilities), acts(d.ActionSupport), tones(d.ToneGentle, d.ToneNeutral), "What would help you feel more supported with responsibilities this week?"),

	// work
	tpl("work_001", doms(d.DomainWork), acts(d.ActionPlan), tones(d.ToneNeutral, d.ToneDirect), "What is one work task you can make 10% easier {timeframe_next}?"),
	tpl("work_002", doms(d.DomainWork), acts(d.ActionBoundaries), tones(d.ToneGentle, d.ToneNeutral), "What boundary would protect your energy around work {timeframe_next}?"),
	tpl("work_003", doms(d.DomainWork), acts(d.ActionReflect), tones(d.ToneNeutral), "What part of your work mattered most {timeframe}?"),
	tpl("work_004", doms(d.DomainWork), acts(d.ActionReframe), tones(d.ToneGentle), "What would “good enough” look like for work {timeframe_next}?"),
	tpl("work_005", doms(d.DomainWork), acts(d.ActionSupport), tones(d.ToneGentle, d.ToneNeutral), "What would help you feel more supported at work this week?"),

	// school
	tpl("school_001", doms(d.DomainSchool), acts(d.ActionPlan), tones(d.ToneNeutral, d.ToneDirect), "What is one school task you can make 10% easier {timeframe_next}?"),
	tpl("school_002", doms(d.DomainSchool), acts(d.ActionBoundaries), tones(d.ToneGentle, d.ToneNeutral), "What boundary would protect your energy around school {timeframe_next}?"),
	tpl("school_003", doms(d.DomainSchool), acts(d.ActionReflect), tones(d.ToneNeutral), "What part of school mattered most {timeframe}?"),
	tpl("school_004", doms(d.DomainSchool), acts(d.ActionReframe), tones(d.ToneGentle), "What would “good enough” look like for school {timeframe_next}?"),
	tpl("school_005", doms(d.DomainSchool), acts(d.ActionSupport), tones(d.ToneGentle, d.ToneNeutral), "What would help you feel more supported with school this week?"),

	// relationships
	tpl("rel_001", doms(d.DomainRelationships), acts(d.ActionReflect), tones(d.ToneGentle, d.ToneNeutral), "What did you need most from someone {timeframe}?"),
	tpl("rel_002", doms(d.DomainRelationships), acts(d.ActionPlan), tones(d.ToneGentle), "What is one small way you can feel more connected {timeframe_next}?"),
	tpl("rel_003", doms(d.DomainRelationships), acts(d.ActionBoundaries), tones(d.ToneGentle, d.ToneNeutral), "What boundary would make a relationship feel lighter this week?"),
	tpl("rel_004", doms(d.DomainRelationships), acts(d.ActionReframe), tones(d.ToneGentle), "What is one assumption you could soften about someone {timeframe}?"),
	tpl("rel_005", doms(d.DomainRelationships), acts(d.ActionSupport), tones(d.ToneGentle), "Who could you reach out to for a small check-in {timeframe_next}?"),

	// health
	tpl("hlth_001", doms(d.DomainHealth), acts(d.ActionReflect), tones(d.ToneGentle, d.ToneNeutral), "What did your body try to tell you {timeframe}?"),
	tpl("hlth_002", doms(d.DomainHealth), acts(d.ActionPlan), tones(d.ToneGentle, d.ToneNeutral), "What would help you protect your energy {timeframe_next}?"),
	tpl("hlth_003", doms(d.DomainHealth), acts(d.ActionRest), tones(d.ToneGentle), "What would make rest feel more possible before {timeframe_end}?"),
	tpl("hlth_004", doms(d.DomainHealth), acts(d.ActionBoundaries), tones(d.ToneGentle), "What boundary could protect your time or energy this week?"),
	tpl("hlth_005", doms(d.DomainHealth), acts(d.ActionGratitude), tones(d.ToneUpbeat, d.ToneGentle), "What helped your energy shift in a better direction {timeframe}?"),

	// money and life admin
	tpl("money_001", doms(d.DomainMoney), acts(d.ActionPlan), tones(d.ToneNeutral, d.ToneDirect), "What is one money decision you can simplify {timeframe_next}?"),
	tpl("money_002", doms(d.DomainMoney), acts(d.ActionBoundaries), tones(d.ToneGentle, d.ToneNeutral), "What boundary would help you feel steadier about money this week?"),
	tpl("admin_001", doms(d.DomainLifeAdmin), acts(d.ActionPlan), tones(d.ToneNeutral, d.ToneDirect), "What is one small life task you can finish to feel lighter {timeframe_next}?"),
	tpl("admin_002", doms(d.DomainLifeAdmin), acts(d.ActionReflect), tones(d.ToneGentle, d.ToneNeutral), "What has been quietly taking your attention lately?"),

	// self
	tpl("self_001", doms(d.DomainSelf), acts(d.ActionReframe), tones(d.ToneGentle), "If your inner critic spoke up {timeframe}, what would a kinder reply be?"),
	tpl("self_002", doms(d.DomainSelf), acts(d.ActionReflect), tones(d.ToneGentle, d.ToneNeutral), "Where did you show strength {timeframe}, even in a small way?"),
	tpl("self_003", doms(d.DomainSelf), acts(d.ActionValues), tones(d.ToneGentle), "What do you want to believe about yourself {timeframe_next}?"),
	tpl("self_004", doms(d.DomainSelf), acts(d.ActionGratitude), tones(d.ToneUpbeat, d.ToneGentle), "What is one thing you like about how you handled {timeframe}?"),

	// stress
	tpl("stress_001", doms(d.DomainStress), acts(d.ActionRest), tones(d.ToneGentle), "What is one small way you can soften pressure before {timeframe_end}?"),
	tpl("stress_002", doms(d.DomainStress), acts(d.ActionPlan), tones(d.ToneGentle, d.ToneNeutral), "What is one thing you can control in the next 10 minutes?"),
	tpl("stress_003", doms(d.DomainStress), acts(d.ActionSupport), tones(d.ToneGentle), "Do you need a plan, a pause, or a person most right now?"),
	tpl("stress_004", doms(d.DomainStress), acts(d.ActionBoundaries), tones(d.ToneGentle, d.ToneNeutral), "What boundary would help you breathe easier this week?"),

	// week rhythm
	tpl("wknd_001", doms(d.DomainGeneral), acts(d.ActionRelease), tones(d.ToneGentle), "What would feel worth resetting before the week begins?"),
	tpl("wknd_002", doms(d.DomainGeneral), acts(d.ActionPlan), tones(d.ToneGentle, d.ToneNeutral), "What would make this weekend feel genuinely restorative?"),
	tpl("wknd_003", doms(d.DomainGeneral), acts(d.ActionValues), tones(d.ToneGentle), "What do you want to make space for outside of responsibilities this week?"),
}

// universalPrompts are hand-authored, already-rendered prompts appended when a
// draw undershoots the requested count. They are the final fallback of every
// selection path.
var universalPrompts = []string{
	"What is one small win you can acknowledge today?",
	"What do you need more of right now: rest, clarity, connection, or courage?",
	"What drained you today, and what refueled you?",
	"What can you leave behind before tomorrow starts?",
	"What would make tomorrow feel 10% easier?",
	"What are you proud you didn’t give up on today?",
	"What would help you feel steadier in the next hour?",
	"What is one thing you can simplify before tonight?",
	"What support would help you move forward right now?",
	"What felt meaningful today, even if it was small?",
	"What is one boundary you want to keep this week?",
	"What does your mind need before you rest tonight?",
}

// UniversalPrompts returns a copy of the hand-authored fallback prompts.
func UniversalPrompts() []string {
	out := make([]string, len(universalPrompts))
	copy(out, universalPrompts)
	return out
}
