package title

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/reflekt/internal/llm"
)

const maxContentChars = 2500

// ErrNoTitles is returned when a generator produced nothing that ranks.
var ErrNoTitles = errors.New("no usable titles")

// Generator proposes titles for an entry.
type Generator interface {
	Generate(ctx context.Context, content, currentTitle string) ([]string, error)
}

type titlesPayload struct {
	Titles []string `json:"titles"`
}

// OllamaGenerator asks a local Ollama server for titles and keeps only the
// ones the local ranker accepts.
type OllamaGenerator struct {
	client llm.LLMClient
}

func NewOllamaGenerator(client llm.LLMClient) *OllamaGenerator {
	return &OllamaGenerator{client: client}
}

func (g *OllamaGenerator) Generate(ctx context.Context, content, currentTitle string) ([]string, error) {
	text := strings.TrimSpace(spaceRun.ReplaceAllString(content, " "))
	if text == "" {
		return nil, nil
	}
	ranks := func(p titlesPayload) error {
		if len(Rank(p.Titles, text, MaxTitles)) == 0 {
			return ErrNoTitles
		}
		return nil
	}

	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task:       llm.TaskTitle,
		UserPrompt: titleInstruction(text, currentTitle),
		JSON:       true,
		Accept:     llm.AcceptJSON(ranks),
	})
	if err != nil {
		return nil, fmt.Errorf("generating titles: %w", err)
	}
	payload, err := llm.ExtractJSON(resp.Text, ranks)
	if err != nil {
		return nil, fmt.Errorf("generating titles: %w", err)
	}
	return Rank(payload.Titles, text, MaxTitles), nil
}

func titleInstruction(content, currentTitle string) string {
	if r := []rune(content); len(r) > maxContentChars {
		content = string(r[:maxContentChars])
	}
	return strings.Join([]string{
		"You write concise journal entry titles.",
		`Return ONLY JSON in this format: {"titles":["...","...","..."]}.`,
		"Generate exactly 5 title options.",
		"Each title must be 2-5 words, natural, specific, and non-robotic.",
		"Ground titles in concrete wording from the entry whenever possible.",
		"Match the emotional tone of the entry.",
		"If the entry is positive/hopeful, titles must sound positive but grounded.",
		"If the entry is heavy, titles can be grounding but not dramatic.",
		"No emojis, no quotes, no numbering, no markdown, no colons.",
		"Avoid meta words like prompt, app, AI, assistant, model, system, cache, code.",
		"Use second-person neutral journal style (not clickbait).",
		"Current title (may be empty):",
		currentTitle,
		"Entry content:",
		content,
	}, "\n")
}

// Suggest tries the generator and falls back to the local pipeline on any
// failure or empty result. The error reports why the fallback was used.
func Suggest(ctx context.Context, gen Generator, content, currentTitle string) ([]string, error) {
	if gen == nil {
		return SuggestLocal(content, currentTitle), nil
	}
	titles, err := gen.Generate(ctx, content, currentTitle)
	if err == nil && len(titles) > 0 {
		return titles, nil
	}
	if err == nil && strings.TrimSpace(content) != "" {
		err = ErrNoTitles
	}
	return SuggestLocal(content, currentTitle), err
}
