package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type titlesPayload struct {
	Titles []string `json:"titles"`
}

type templatesPayload struct {
	Templates []struct {
		ID      string   `json:"id"`
		Domains []string `json:"domains"`
		Text    string   `json:"text"`
	} `json:"templates"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	raw := `{"titles":["Review Went Well","Manager Check-In"]}`
	result, err := ExtractJSON[titlesPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Review Went Well", "Manager Check-In"}, result.Titles)
}

func TestExtractJSON_FencedJSON(t *testing.T) {
	raw := "```json\n{\"titles\":[\"Quiet Sunday Reset\"]}\n```"
	result, err := ExtractJSON[titlesPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Quiet Sunday Reset"}, result.Titles)
}

func TestExtractJSON_SurroundingText(t *testing.T) {
	raw := "Sure! Here are some templates:\n{\"templates\":[{\"id\":\"ai_1\",\"domains\":[\"work\"],\"text\":\"What would make {timeframe_next} at work feel lighter?\"}]}\nLet me know."
	result, err := ExtractJSON[templatesPayload](raw, nil)
	require.NoError(t, err)
	require.Len(t, result.Templates, 1)
	assert.Equal(t, "ai_1", result.Templates[0].ID)
	assert.Contains(t, result.Templates[0].Text, "{timeframe_next}")
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	raw := `{"templates":[{"id":"ai_2","domains":["self"],"text":"What do you want to believe about yourself {timeframe}?"}]}`
	result, err := ExtractJSON[templatesPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "What do you want to believe about yourself {timeframe}?", result.Templates[0].Text)
}

func TestExtractJSON_CommentsAndTrailingCommas(t *testing.T) {
	raw := `{
		// five options
		"titles": ["Hard Day at Work", "Small Wins, Still",],
	}`
	result, err := ExtractJSON[titlesPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hard Day at Work", "Small Wins, Still"}, result.Titles)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON[titlesPayload]("I can't help with that.", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_InvalidJSON(t *testing.T) {
	_, err := ExtractJSON[titlesPayload](`{"titles": [broken}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_ValidationFailure(t *testing.T) {
	validator := func(p titlesPayload) error {
		if len(p.Titles) == 0 {
			return fmt.Errorf("no titles")
		}
		return nil
	}
	_, err := ExtractJSON(`{"titles":[]}`, validator)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "validation failed")

	assert.Error(t, AcceptJSON(validator)(`{"titles":[]}`))
	assert.NoError(t, AcceptJSON(validator)(`{"titles":["Long Week, Finally Done"]}`))
}

func TestExtractJSON_LeadingDecimal(t *testing.T) {
	type scored struct {
		Confidence float64 `json:"confidence"`
	}
	result, err := ExtractJSON[scored](`{"confidence": .8}`, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.8, result.Confidence)
}

func TestExtractJSON_PrefersFencedBlock(t *testing.T) {
	raw := "Use the shape {\"titles\": [...]}.\n```\nno json here\n```\n```json\n{\"titles\": [\"After the Storm\"]}\n```"
	result, err := ExtractJSON[titlesPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"After the Storm"}, result.Titles)
}

func TestRepairJSON(t *testing.T) {
	cases := map[string]struct{ in, want string }{
		"block comment":        {`{"a": /* note */ 1}`, `{"a":  1}`},
		"comment before close": {`{"a": [1, // last` + "\n" + `]}`, `{"a": [1 ` + "\n" + `]}`},
		"negative decimal":     {`{"a": -.3}`, `{"a": -0.3}`},
		"strings untouched":    {`{"a": "x, ] // .5"}`, `{"a": "x, ] // .5"}`},
		"escaped quote":        {`{"a": "say \"hi\", ]"}`, `{"a": "say \"hi\", ]"}`},
		"unterminated comment": {`{"a": 1 /* oops`, `{"a": 1 `},
		"decimal after number": {`{"a": 1.5}`, `{"a": 1.5}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, repairJSON(tc.in))
		})
	}
}
