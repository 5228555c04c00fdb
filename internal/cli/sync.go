package cli

import (
	"os"

	"github.com/spf13/cobra"

	"desk-cli/internal/desktop"
	"desk-cli/internal/format"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile with the remote store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "fetch",
		Short: "Replace local state with server truth",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(s *desktop.Store) error {
				if err := s.LoadDesktop(cmd.Context()); err != nil {
					return err
				}
				return format.WriteJSON(os.Stdout, s.Items(), app.PrettyJSON)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List items with unsettled remote writes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(s *desktop.Store) error {
				return format.WriteJSON(os.Stdout, map[string]any{
					"pending": s.PendingSyncs(),
				}, app.PrettyJSON)
			})
		},
	})

	return cmd
}
