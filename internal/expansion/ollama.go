package expansion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/reflekt/internal/catalog"
	"github.com/alexanderramin/reflekt/internal/llm"
	"github.com/alexanderramin/reflekt/internal/snapshot"
)

const templateSchemaInstruction = `You write short journal question templates in second-person voice.
Return ONLY valid JSON: {"templates":[{"id":"ai_x","domains":[...],"actions":[...],"tones":[...],"text":"..."}]}
Text must be a single question template containing ONLY these placeholders (optional): {timeframe}, {timeframe_next}, {timeframe_end}.
No names, no private details, no meta/UI words (prompt/app/journal/chatgpt/system/model/cache/code/entry).
Templates must be grammar-safe without inserting user phrases.
Word count 5-22. End with '?'.
Allowed domains: work, school, relationships, health, money, life_admin, self, stress, responsibilities, general.
Allowed actions: reflect, plan, boundaries, rest, support, gratitude, reframe, values, release.
Allowed tones: gentle, neutral, upbeat, direct.`

// OllamaExpander asks a local Ollama server for new templates.
type OllamaExpander struct {
	client llm.LLMClient
}

func NewOllamaExpander(client llm.LLMClient) *OllamaExpander {
	return &OllamaExpander{client: client}
}

// Expand issues one generation request. The client walks its endpoints and
// models until a response yields at least one valid template.
func (e *OllamaExpander) Expand(ctx context.Context, snap snapshot.Snapshot) ([]catalog.Template, error) {
	resp, err := e.client.Generate(ctx, llm.GenerateRequest{
		Task:       llm.TaskExpand,
		UserPrompt: Instruction(snap),
		JSON:       true,
		Accept:     llm.AcceptJSON(requireValidTemplate),
	})
	if err != nil {
		return nil, fmt.Errorf("expanding templates: %w", err)
	}
	payload, err := llm.ExtractJSON[templatesPayload](resp.Text, nil)
	if err != nil {
		return nil, fmt.Errorf("expanding templates: %w", err)
	}
	templates := sanitizeAll(payload.Templates)
	if len(templates) == 0 {
		return nil, ErrNoTemplates
	}
	return templates, nil
}

func requireValidTemplate(p templatesPayload) error {
	if len(sanitizeAll(p.Templates)) == 0 {
		return ErrNoTemplates
	}
	return nil
}

// Instruction is the full request text for a snapshot. Only the coarse
// signal subset is sent, never entry text.
func Instruction(snap snapshot.Snapshot) string {
	subset, _ := json.Marshal(struct {
		Domains       any    `json:"domains"`
		Actions       any    `json:"actions"`
		Tone          string `json:"tone"`
		WeekMode      string `json:"weekMode"`
		Modes         any    `json:"modes"`
		Timeframe     string `json:"timeframe"`
		TimeframeNext string `json:"timeframe_next"`
		TimeframeEnd  string `json:"timeframe_end"`
	}{
		Domains:       snap.Domains,
		Actions:       snap.Actions,
		Tone:          string(snap.Tone),
		WeekMode:      string(snap.WeekMode),
		Modes:         snap.Modes,
		Timeframe:     snap.Timeframe,
		TimeframeNext: snap.TimeframeNext,
		TimeframeEnd:  snap.TimeframeEnd,
	})

	return strings.Join([]string{
		templateSchemaInstruction,
		"",
		"User snapshot (choose variety, do not overfit):",
		string(subset),
		"",
		"Create 10 templates with unique ids (prefix ai_), diverse stems, and safe phrasing.",
		"Never guess school unless the domain is exactly ['school'] in the snapshot.",
		"Never use 'work or school' wording. If unclear, use 'responsibilities'.",
	}, "\n")
}
