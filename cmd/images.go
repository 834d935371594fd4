package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mdobak/go-xerrors"
	"github.com/spf13/cobra"

	"github.com/siahsang/blogclient/internal/web"
)

func newImagesCmd(app *application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Upload and delete blog images",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "upload <blog-id> <file>",
			Short: "Upload an image to one of your blog posts",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				blogID, err := parseID(args[0], "blog id")
				if err != nil {
					return err
				}
				app.enter(web.ViewEditBlog)
				if err := app.requireSession(); err != nil {
					return err
				}

				f, err := os.Open(args[1])
				if err != nil {
					return xerrors.New(err)
				}
				defer f.Close()

				ref, err := app.client.UploadImage(cmd.Context(), blogID, filepath.Base(args[1]), f)
				if err != nil {
					return err
				}
				if app.structured() {
					return app.printValue(ref)
				}
				fmt.Fprintf(app.stdout, "Uploaded image %d: %s\n", ref.ID, app.client.ImageURL(ref.FileName))
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <image-id>",
			Short: "Delete an image you uploaded",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0], "image id")
				if err != nil {
					return err
				}
				app.enter(web.ViewEditBlog)
				if err := app.requireSession(); err != nil {
					return err
				}
				if !app.prompt.Confirm(cmd.Context(), "Are you sure you want to delete this image?") {
					fmt.Fprintln(app.stdout, "Cancelled")
					return nil
				}
				if err := app.client.DeleteImage(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(app.stdout, "Deleted image %d\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "url <file-name>",
			Short: "Print the public URL of a stored image",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(app.stdout, app.client.ImageURL(args[0]))
				return nil
			},
		},
	)
	return cmd
}
