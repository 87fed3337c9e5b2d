package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/reflekt/internal/cli/formatter"
	"github.com/alexanderramin/reflekt/internal/domain"
	"github.com/alexanderramin/reflekt/internal/selection"
	"github.com/alexanderramin/reflekt/internal/service"
)

func newShuffleCmd(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "shuffle",
		Short: "Flip through prompts interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("shuffle needs an interactive terminal; use pick instead")
			}
			list, err := flags.loadEntries(cmd)
			if err != nil {
				return err
			}
			m := newShuffleModel(cmd.Context(), app.Prompts, flags.user, list)
			final, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			app.Prompts.Wait()
			if err != nil {
				return err
			}
			if sm, ok := final.(shuffleModel); ok && sm.err != nil {
				return sm.err
			}
			return nil
		},
	}
}

type shuffleKeys struct {
	Next     key.Binding
	Done     key.Binding
	Generate key.Binding
	Quit     key.Binding
}

func (k shuffleKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Done, k.Generate, k.Quit}
}

func (k shuffleKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultShuffleKeys() shuffleKeys {
	return shuffleKeys{
		Next:     key.NewBinding(key.WithKeys("space", " ", "n", "right"), key.WithHelp("space", "shuffle")),
		Done:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "use this one")),
		Generate: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "more prompts")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type pickedMsg struct {
	resp *service.PickResponse
	err  error
}

type generatedMsg struct {
	resp *service.GenerateResponse
	err  error
}

type completedMsg struct{ err error }

// shuffleModel shows one prompt at a time. Every service call runs as a
// tea.Cmd so the spinner keeps turning while it is in flight.
type shuffleModel struct {
	ctx     context.Context
	prompts service.PromptService
	user    string
	entries []domain.JournalEntry

	keys    shuffleKeys
	help    help.Model
	spinner spinner.Model

	current selection.PickResult
	message string
	// pool holds a generated batch; picks draw from it until it runs dry.
	pool   []string
	busy   string
	chosen string
	err    error
}

func newShuffleModel(ctx context.Context, prompts service.PromptService, user string, entries []domain.JournalEntry) shuffleModel {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = formatter.StylePurple
	return shuffleModel{
		ctx:     ctx,
		prompts: prompts,
		user:    user,
		entries: entries,
		keys:    defaultShuffleKeys(),
		help:    help.New(),
		spinner: sp,
		busy:    "Finding a prompt",
	}
}

func (m shuffleModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.pick())
}

func (m shuffleModel) pick() tea.Cmd {
	req := service.PickRequest{
		User:    m.user,
		Entries: m.entries,
		Current: m.current.Prompt,
		Pool:    m.pool,
	}
	return func() tea.Msg {
		resp, err := m.prompts.Pick(m.ctx, req)
		if err == nil {
			err = m.prompts.MarkShown(m.ctx, m.user, resp.Prompt)
		}
		return pickedMsg{resp: resp, err: err}
	}
}

func (m shuffleModel) generate() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.prompts.Generate(m.ctx, m.user, m.entries)
		return generatedMsg{resp: resp, err: err}
	}
}

func (m shuffleModel) complete() tea.Cmd {
	prompt := m.current.Prompt
	return func() tea.Msg {
		return completedMsg{err: m.prompts.MarkCompleted(m.ctx, m.user, prompt, "")}
	}
}

func (m shuffleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pickedMsg:
		m.busy = ""
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.current = msg.resp.PickResult
		m.message = msg.resp.Message
		if m.current.Step != selection.StepLive {
			m.pool = nil
		}
		return m, nil

	case generatedMsg:
		if msg.err != nil {
			m.busy = ""
			m.err = msg.err
			return m, tea.Quit
		}
		m.pool = msg.resp.Prompts
		m.busy = "Picking from the new batch"
		return m, m.pick()

	case completedMsg:
		m.busy = ""
		m.err = msg.err
		m.chosen = m.current.Prompt
		return m, tea.Quit

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.busy != "" || m.current.Prompt == "" {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Next):
			m.busy = "Shuffling"
			return m, m.pick()
		case key.Matches(msg, m.keys.Generate):
			m.busy = "Writing more prompts"
			return m, m.generate()
		case key.Matches(msg, m.keys.Done):
			m.busy = "Saving"
			return m, m.complete()
		}
	}
	return m, nil
}

func (m shuffleModel) View() string {
	if m.chosen != "" {
		return formatter.StylePrompt.Render(m.chosen) + "\n"
	}

	var b strings.Builder
	b.WriteString(formatter.Header("Prompt"))
	b.WriteString("\n\n")
	if m.current.Prompt != "" {
		b.WriteString(formatter.StylePrompt.Render(m.current.Prompt))
		b.WriteString("\n")
	}
	switch {
	case m.busy != "":
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), formatter.Dim(m.busy+"...")))
	case m.message != "":
		b.WriteString(fmt.Sprintf("%s %s\n", formatter.StatusBadge(m.current.Status), formatter.Dim(m.message)))
	default:
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}
