package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/reflekt/internal/cli/formatter"
	"github.com/alexanderramin/reflekt/internal/service"
)

func newContextCmd(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Show the context snapshot built from recent entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := flags.loadEntries(cmd)
			if err != nil {
				return err
			}
			snap := app.Prompts.Context(list)
			if flags.json {
				return writeJSON(cmd.OutOrStdout(), snap)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatContext(snap))
			return nil
		},
	}
}

func newPromptsCmd(app *App, flags *rootFlags) *cobra.Command {
	var explain, generate bool
	var limit int

	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "List the prompts that fit recent entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if explain && generate {
				return errors.New("--explain and --generate cannot be combined")
			}
			list, err := flags.loadEntries(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			switch {
			case explain:
				scored := app.Prompts.Explain(ctx, flags.user, list)
				if flags.json {
					return writeJSON(out, scored)
				}
				fmt.Fprint(out, formatter.FormatExplain(scored, limit))
			case generate:
				resp, err := app.Prompts.Generate(ctx, flags.user, list)
				if err != nil {
					return err
				}
				if flags.json {
					return writeJSON(out, resp)
				}
				fmt.Fprint(out, formatter.FormatPrompts(resp.Prompts))
				if resp.Expanded > 0 {
					fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("%d new templates from the model", resp.Expanded)))
				}
			default:
				prompts := app.Prompts.Candidates(ctx, flags.user, list)
				if flags.json {
					return writeJSON(out, prompts)
				}
				fmt.Fprint(out, formatter.FormatPrompts(prompts))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "Show the weight of each eligible template and why")
	cmd.Flags().BoolVar(&generate, "generate", false, "Widen the batch with model-written templates when the context allows")
	cmd.Flags().IntVar(&limit, "limit", 20, "Rows shown with --explain (0 for all)")
	return cmd
}

func newPickCmd(app *App, flags *rootFlags) *cobra.Command {
	var current string
	var exclude []string
	var peek bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick the next prompt and mark it shown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := flags.loadEntries(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			resp, err := app.Prompts.Pick(ctx, service.PickRequest{
				User:    flags.user,
				Entries: list,
				Current: current,
				Exclude: exclude,
			})
			if err != nil {
				return err
			}
			if !peek {
				if err := app.Prompts.MarkShown(ctx, flags.user, resp.Prompt); err != nil {
					return err
				}
			}
			// A refill started by the pick should land before the process exits.
			app.Prompts.Wait()

			if flags.json {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPick(resp.PickResult))
			return nil
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "Prompt currently on screen")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Prompts to leave out")
	cmd.Flags().BoolVar(&peek, "peek", false, "Do not record the prompt as shown")
	return cmd
}

func newShownCmd(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "shown <prompt>",
		Short: "Record that a prompt was shown",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Prompts.MarkShown(cmd.Context(), flags.user, strings.Join(args, " "))
		},
	}
}

func newDoneCmd(app *App, flags *rootFlags) *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "done <prompt>",
		Short: "Record that an entry was written against a prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			if err := app.Prompts.MarkCompleted(cmd.Context(), flags.user, prompt, content); err != nil {
				return err
			}
			if !flags.json {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Recorded."))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&content, "content", "c", "", "Entry text, used for word counts")
	return cmd
}
