package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"desk-cli/internal/cache"
	"desk-cli/internal/config"
	"desk-cli/internal/desktop"
	"desk-cli/internal/remote"
)

type App struct {
	ConfigFile string
	Dir        string
	Remote     string
	PrettyJSON bool
	Verbose    bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "desk",
		Short:        "Local-first desktop item store CLI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Create a folder on the desktop, then a note inside it
  desk items create --type folder --name Projects
  desk items create --type text --name notes.txt --parent item-abc12345

  # Sort the desktop by name, trash a folder (cascades), empty the trash
  desk sort name
  desk trash put item-abc12345
  desk trash empty

  # Direct item lookup (shortcut for: desk items show <item-id>)
  desk item-abc12345
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		config.Init(app.ConfigFile)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", "", "Path to config file (default: ~/.config/desk/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("DESK_DIR", ""), "Path to local data dir (overrides config)")
	cmd.PersistentFlags().StringVar(&app.Remote, "remote", envOr("DESK_REMOTE", ""), "Remote store base URL (overrides config; empty = local-only)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log sync activity to stderr")

	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newTrashCmd(app))
	cmd.AddCommand(newSortCmd(app))
	cmd.AddCommand(newCleanupCmd(app))
	cmd.AddCommand(newSyncCmd(app))
	cmd.AddCommand(newUploadCmd(app))

	return cmd
}

func (app *App) logger() *zap.Logger {
	if !app.Verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func (app *App) openStore() *desktop.Store {
	cfg := config.Load()
	if app.Dir != "" {
		cfg.DataDir = app.Dir
	}
	if app.Remote != "" {
		cfg.RemoteURL = app.Remote
	}

	var client remote.Client
	if strings.TrimSpace(cfg.RemoteURL) != "" {
		client = remote.NewHTTPClient(cfg.RemoteURL, cfg.Token)
	}

	return desktop.New(desktop.Options{
		Remote:         client,
		Cache:          cache.Cache{Dir: cfg.DataDir},
		Log:            app.logger(),
		MoveDebounce:   cfg.MoveDebounce,
		CacheDebounce:  cfg.CacheDebounce,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
}

// withStore runs fn against a freshly opened store and flushes all pending
// debounced writes before returning, so one-shot invocations never lose work
// to a still-ticking timer.
func withStore(app *App, fn func(*desktop.Store) error) error {
	st := app.openStore()
	defer st.Close()
	return fn(st)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
