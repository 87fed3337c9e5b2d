package teatest

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type echoMsg string

// counter counts echo messages and quits on q.
type counter struct {
	seen  []string
	width int
}

func (c counter) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return echoMsg("init") },
		spinner.New().Tick,
	)
}

func (c counter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
	case echoMsg:
		c.seen = append(c.seen, string(msg))
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return c, tea.Quit
		case "enter":
			return c, func() tea.Msg { return echoMsg("enter") }
		case "s":
			return c, func() tea.Msg {
				time.Sleep(time.Second)
				return echoMsg("slow")
			}
		}
	}
	return c, nil
}

func (c counter) View() string { return "" }

func TestDriver_DrainsInitAndSkipsTicks(t *testing.T) {
	d := New(t, counter{}, WithSize(80, 24))
	d.DrainInit()
	m := d.Model.(counter)
	assert.Equal(t, []string{"init"}, m.seen)
	assert.Equal(t, 80, m.width)
}

func TestDriver_ChainsCommands(t *testing.T) {
	d := New(t, counter{})
	d.PressEnter()
	d.PressKey('s')
	assert.Equal(t, []string{"enter"}, d.Model.(counter).seen)
}

func TestDriver_Quit(t *testing.T) {
	d := New(t, counter{})
	d.PressKey('q')
	assert.True(t, d.Quitting)

	d.PressEnter()
	assert.Empty(t, d.Model.(counter).seen)
}
