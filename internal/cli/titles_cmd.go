package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/reflekt/internal/cli/formatter"
)

func newTitlesCmd(app *App, flags *rootFlags) *cobra.Command {
	var content, current string
	var local, pick bool

	cmd := &cobra.Command{
		Use:   "titles",
		Short: "Suggest titles for an entry",
		Long: `Suggest up to five titles for one entry. The entry text comes from
--content, or from stdin when --content is not set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pick && !app.interactive() {
				return errors.New("--pick needs an interactive terminal")
			}
			if content == "" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading entry: %w", err)
				}
				content = string(raw)
			}
			if strings.TrimSpace(content) == "" {
				return errors.New("entry text is empty")
			}

			var titles []string
			if local {
				titles = app.Titles.SuggestLocal(content, current)
			} else {
				titles = app.Titles.Suggest(cmd.Context(), content, current)
			}

			out := cmd.OutOrStdout()
			if pick && len(titles) > 0 {
				chosen, err := pickTitle(titles, current)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, chosen)
				return nil
			}
			if flags.json {
				return writeJSON(out, titles)
			}
			fmt.Fprint(out, formatter.FormatTitles(titles, current))
			return nil
		},
	}

	cmd.Flags().StringVarP(&content, "content", "c", "", "Entry text")
	cmd.Flags().StringVarP(&current, "title", "t", "", "Current title, kept when it still fits")
	cmd.Flags().BoolVar(&local, "local", false, "Skip the model and rank local candidates only")
	cmd.Flags().BoolVar(&pick, "pick", false, "Choose one suggestion interactively and print it")
	return cmd
}

func pickTitle(titles []string, current string) (string, error) {
	chosen := titles[0]
	for _, t := range titles {
		if strings.EqualFold(t, current) {
			chosen = t
		}
	}
	err := titleForm(titles, &chosen).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return current, nil
	}
	return chosen, err
}

func titleForm(titles []string, value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Title").
				Options(huh.NewOptions(titles...)...).
				Value(value),
		),
	).WithTheme(reflektHuhTheme()).WithShowHelp(false)
}

func reflektHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	return t
}
