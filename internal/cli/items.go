package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"desk-cli/internal/desktop"
	"desk-cli/internal/format"
	"desk-cli/internal/model"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Create, inspect and mutate desktop items",
	}
	cmd.AddCommand(newItemsCreateCmd(app))
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	cmd.AddCommand(newItemsRenameCmd(app))
	cmd.AddCommand(newItemsMoveCmd(app))
	cmd.AddCommand(newItemsCutCmd(app))
	cmd.AddCommand(newItemsDuplicateCmd(app))
	cmd.AddCommand(newItemsRemoveCmd(app))
	return cmd
}

func newItemsCreateCmd(app *App) *cobra.Command {
	var typeStr, name, parent string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an item at the next free grid cell",
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := model.ParseItemType(typeStr)
			if err != nil {
				return err
			}
			return withStore(app, func(s *desktop.Store) error {
				it, err := s.CreateItem(typ, name, parent)
				if err != nil {
					return err
				}
				return format.WriteJSON(os.Stdout, it, app.PrettyJSON)
			})
		},
	}
	cmd.Flags().StringVar(&typeStr, "type", "text", "Item type (folder|text|image|video|audio|pdf|link|widget)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&parent, "parent", "", "Containing folder id (empty = desktop root)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var parent string
	var all, table bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a container's items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(s *desktop.Store) error {
				var items []model.Item
				if all {
					items = s.Items()
				} else {
					items = s.ItemsByParent(parent)
				}
				if items == nil {
					items = []model.Item{}
				}
				if table {
					fmt.Fprint(os.Stdout, renderItemTable(items))
					return nil
				}
				return format.WriteJSON(os.Stdout, items, app.PrettyJSON)
			})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "Container id (empty = desktop root)")
	cmd.Flags().BoolVar(&all, "all", false, "List the whole collection, trashed items included")
	cmd.Flags().BoolVar(&table, "table", false, "Human-readable table instead of JSON")
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(s *desktop.Store) error {
				it, ok := s.Item(args[0])
				if !ok {
					return desktop.NotFoundError{Kind: "item", ID: args[0]}
				}
				return format.WriteJSON(os.Stdout, it, app.PrettyJSON)
			})
		},
	}
}

func newItemsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <item-id> <name>",
		Short: "Rename an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(s *desktop.Store) error {
				name := args[1]
				if err := s.UpdateItem(args[0], model.Patch{Name: &name}); err != nil {
					return err
				}
				it, _ := s.Item(args[0])
				return format.WriteJSON(os.Stdout, it, app.PrettyJSON)
			})
		},
	}
}

func newItemsMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <item-id> <x> <y>",
		Short: "Move an item to a grid cell",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid x: %q", args[1])
			}
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid y: %q", args[2])
			}
			return withStore(app, func(s *desktop.Store) error {
				if err := s.MoveItem(args[0], model.Position{X: x, Y: y}); err != nil {
					return err
				}
				it, _ := s.Item(args[0])
				return format.WriteJSON(os.Stdout, it, app.PrettyJSON)
			})
		},
	}
}

func newItemsCutCmd(app *App) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "cut <item-id>...",
		Short: "Move items into another container (cut/paste)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(s *desktop.Store) error {
				if err := s.MoveToContainer(args, to); err != nil {
					return err
				}
				out := make([]model.Item, 0, len(args))
				for _, id := range args {
					if it, ok := s.Item(id); ok {
						out = append(out, it)
					}
				}
				return format.WriteJSON(os.Stdout, out, app.PrettyJSON)
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Target container id (empty = desktop root)")
	return cmd
}

func newItemsDuplicateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <item-id>...",
		Short: "Duplicate items in place",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(s *desktop.Store) error {
				copies, err := s.Duplicate(args)
				if err != nil {
					return err
				}
				return format.WriteJSON(os.Stdout, copies, app.PrettyJSON)
			})
		},
	}
}

func newItemsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Permanently delete an item (skips the trash)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(s *desktop.Store) error {
				return s.RemoveItem(args[0])
			})
		},
	}
}
