package cli

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/alexanderramin/reflekt/internal/domain"
	"github.com/alexanderramin/reflekt/internal/entries"
	"github.com/alexanderramin/reflekt/internal/service"
)

// App holds the services and settings shared by every command.
type App struct {
	Prompts service.PromptService
	Titles  service.TitleService

	// User is the default --user value.
	User string
	// Logger is used by serve. Nil means no request logging.
	Logger *zap.Logger
	// IsInteractive reports whether stdin is a terminal; shuffle and
	// titles --pick need one.
	IsInteractive func() bool
}

type rootFlags struct {
	user    string
	entries string
	json    bool
}

// NewRootCmd creates the top-level "reflekt" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "reflekt",
		Short:         "Context-aware journaling prompts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags.bind(root.PersistentFlags(), app.User)

	root.AddCommand(
		newContextCmd(app, flags),
		newPromptsCmd(app, flags),
		newPickCmd(app, flags),
		newShownCmd(app, flags),
		newDoneCmd(app, flags),
		newShuffleCmd(app, flags),
		newTitlesCmd(app, flags),
		newServeCmd(app),
		newStateCmd(app),
	)
	return root
}

func (f *rootFlags) bind(fs *pflag.FlagSet, defaultUser string) {
	if defaultUser == "" {
		defaultUser = "local"
	}
	fs.StringVarP(&f.user, "user", "u", defaultUser, "User whose selection state is read and written")
	fs.StringVarP(&f.entries, "entries", "f", "", `Entries file (JSON or YAML, "-" for stdin)`)
	fs.BoolVar(&f.json, "json", false, "Print machine-readable JSON")
}

// loadEntries reads --entries. No flag means no history.
func (f *rootFlags) loadEntries(cmd *cobra.Command) ([]domain.JournalEntry, error) {
	if strings.TrimSpace(f.entries) == "" {
		return nil, nil
	}
	return entries.Load(f.entries, cmd.InOrStdin())
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
