package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"desk-cli/internal/desktop"
	"desk-cli/internal/format"
)

func newUploadCmd(app *App) *cobra.Command {
	var parent string
	var progress bool
	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload files to the remote store and place them on the desktop",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(s *desktop.Store) error {
				for _, path := range args {
					f, err := os.Open(path)
					if err != nil {
						return err
					}
					st, err := f.Stat()
					if err != nil {
						f.Close()
						return err
					}
					name := filepath.Base(path)
					mimeType := mime.TypeByExtension(filepath.Ext(name))
					_, err = s.Upload(cmd.Context(), name, st.Size(), mimeType, f, parent)
					f.Close()
					if err != nil {
						return err
					}
					if progress {
						fmt.Fprintf(os.Stderr, "uploaded %s\n", name)
					}
				}
				return format.WriteJSON(os.Stdout, s.Uploads(), app.PrettyJSON)
			})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "Containing folder id (empty = desktop root)")
	cmd.Flags().BoolVar(&progress, "progress", false, "Print per-file progress to stderr")
	return cmd
}
