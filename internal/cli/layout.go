package cli

import (
	"os"

	"github.com/spf13/cobra"

	"desk-cli/internal/desktop"
	"desk-cli/internal/format"
	"desk-cli/internal/model"
)

func newSortCmd(app *App) *cobra.Command {
	var container string
	cmd := &cobra.Command{
		Use:   "sort <name|date|kind>",
		Short: "Sort a container's items and re-derive their grid cells",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := model.ParseSortOrder(args[0])
			if err != nil {
				return err
			}
			return withStore(app, func(s *desktop.Store) error {
				if err := s.Sort(container, key); err != nil {
					return err
				}
				return format.WriteJSON(os.Stdout, s.ItemsByParent(container), app.PrettyJSON)
			})
		},
	}
	cmd.Flags().StringVar(&container, "parent", "", "Container id (empty = desktop root)")
	return cmd
}

func newCleanupCmd(app *App) *cobra.Command {
	var container string
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Compact a container's items onto the grid, keeping their order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(s *desktop.Store) error {
				s.CleanUp(container)
				return format.WriteJSON(os.Stdout, s.ItemsByParent(container), app.PrettyJSON)
			})
		},
	}
	cmd.Flags().StringVar(&container, "parent", "", "Container id (empty = desktop root)")
	return cmd
}
