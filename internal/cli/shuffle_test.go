package cli

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/reflekt/internal/catalog"
	"github.com/alexanderramin/reflekt/internal/selection"
	"github.com/alexanderramin/reflekt/internal/store"
	"github.com/alexanderramin/reflekt/internal/teatest"
)

func shuffleDriver(t *testing.T) (*teatest.Driver, *store.MemoryStore) {
	t.Helper()
	app, states := testApp(t)
	d := teatest.New(t, newShuffleModel(context.Background(), app.Prompts, "ana", nil), teatest.WithSize(80, 24))
	return d, states
}

func shuffleState(d *teatest.Driver) shuffleModel {
	return d.Model.(shuffleModel)
}

func TestShuffleModel_PicksOnStart(t *testing.T) {
	d, _ := shuffleDriver(t)
	assert.Contains(t, d.View(), "Finding a prompt")

	d.DrainInit()
	m := shuffleState(d)
	require.NotEmpty(t, m.current.Prompt)
	assert.Empty(t, m.busy)
	assert.Contains(t, d.View(), m.current.Prompt)
	assert.Contains(t, d.View(), "shuffle")
}

func TestShuffleModel_ShuffleMarksEachPromptShown(t *testing.T) {
	d, states := shuffleDriver(t)
	d.DrainInit()
	first := shuffleState(d).current.Prompt

	d.PressSpace()
	second := shuffleState(d).current.Prompt
	assert.NotEqual(t, first, second)
	assert.Equal(t, selection.StepLive, shuffleState(d).current.Step)

	st, err := states.Get(context.Background(), "ana")
	require.NoError(t, err)
	assert.True(t, st.WasShown(catalog.NormalizeKey(first)))
	assert.True(t, st.WasShown(catalog.NormalizeKey(second)))
}

func TestShuffleModel_DoneRecordsAndQuits(t *testing.T) {
	d, states := shuffleDriver(t)
	d.DrainInit()
	prompt := shuffleState(d).current.Prompt

	d.PressEnter()
	st, err := states.Get(context.Background(), "ana")
	require.NoError(t, err)
	assert.True(t, st.WasUsed(catalog.NormalizeKey(prompt)))
	assert.True(t, d.Quitting)
	m := shuffleState(d)
	require.NoError(t, m.err)
	assert.Equal(t, prompt, m.chosen)
	assert.Contains(t, d.View(), prompt)
}

func TestShuffleModel_GenerateDrawsFromBatch(t *testing.T) {
	d, _ := shuffleDriver(t)
	d.DrainInit()

	d.PressKey('g')
	m := shuffleState(d)
	require.NotEmpty(t, m.pool)
	assert.Contains(t, m.pool, m.current.Prompt)
	assert.Equal(t, selection.StepLive, m.current.Step)
	assert.Empty(t, m.busy)
}

func TestShuffleModel_IgnoresKeysWhileBusy(t *testing.T) {
	app, _ := testApp(t)
	m := newShuffleModel(context.Background(), app.Prompts, "ana", nil)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.Nil(t, cmd)
	assert.Equal(t, m.busy, next.(shuffleModel).busy)
}

func TestShuffleModel_Quit(t *testing.T) {
	d, _ := shuffleDriver(t)
	d.DrainInit()
	d.PressKey('q')
	assert.True(t, d.Quitting)
	assert.Empty(t, shuffleState(d).chosen)
}

func TestShuffleModel_ErrorQuits(t *testing.T) {
	d, _ := shuffleDriver(t)
	d.Send(pickedMsg{err: assert.AnError})
	assert.True(t, d.Quitting)
	assert.ErrorIs(t, shuffleState(d).err, assert.AnError)
}
