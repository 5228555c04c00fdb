package cli

import (
	"os"

	"github.com/spf13/cobra"

	"desk-cli/internal/desktop"
	"desk-cli/internal/format"
	"desk-cli/internal/model"
)

func newTrashCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Soft-delete items and manage the trash",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "put <item-id>...",
		Short: "Move items to the trash (folders cascade to their contents)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(s *desktop.Store) error {
				return s.MoveToTrash(args...)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore <item-id>...",
		Short: "Restore exactly the given items (no cascade)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(s *desktop.Store) error {
				return s.RestoreFromTrash(args...)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List trashed items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(s *desktop.Store) error {
				items := s.TrashedItems()
				if items == nil {
					items = []model.Item{}
				}
				return format.WriteJSON(os.Stdout, items, app.PrettyJSON)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "empty",
		Short: "Permanently remove everything in the trash",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(s *desktop.Store) error {
				s.EmptyTrash()
				return nil
			})
		},
	})

	return cmd
}
