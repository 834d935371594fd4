package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/siahsang/blogclient/internal/core"
	"github.com/siahsang/blogclient/internal/filter"
	"github.com/siahsang/blogclient/internal/web"
	"github.com/siahsang/blogclient/models"
)

func newCommentsCmd(app *application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and write comments",
		Long: `Comment commands.

Examples:
  blogctl comments list 12
  blogctl comments add 12 "Great read"
  blogctl comments edit 12 31 "Great read, thanks"
  blogctl comments delete 12 31
  blogctl comments by-user 4`,
	}

	cmd.AddCommand(
		newCommentsListCmd(app),
		newCommentsAddCmd(app),
		newCommentsEditCmd(app),
		newCommentsDeleteCmd(app),
		newCommentsByUserCmd(app),
	)
	return cmd
}

func newCommentsListCmd(app *application) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list <blog-id>",
		Short: "List the comments of a blog post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blogID, err := parseID(args[0], "blog id")
			if err != nil {
				return err
			}
			app.enter(web.ViewBlog)

			thread := app.core.NewCommentThread(blogID)
			if err := thread.Load(cmd.Context(), page-1); err != nil {
				return err
			}
			return app.printThread(thread.State())
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number, starting at 1")
	return cmd
}

func (app *application) printThread(state core.CommentThreadState) error {
	if app.structured() {
		return app.printValue(models.Page[models.Comment]{
			Content:       state.Comments,
			TotalPages:    state.TotalPages,
			TotalElements: state.TotalElements,
			Number:        state.Page,
			Size:          len(state.Comments),
		})
	}

	fmt.Fprintf(app.stdout, "Comments (%d)\n", state.TotalElements)
	app.printComments(state.Comments)
	if pager := state.Pager(); pager.Visible {
		fmt.Fprintln(app.stdout, pager.String())
	}
	return nil
}

func (app *application) printComments(comments []models.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(app.stdout, "No comments yet")
		return
	}
	table := newTable(app.stdout, "ID", "AUTHOR", "WHEN", "COMMENT")
	for _, c := range comments {
		when := formatTime(c.CreatedAt)
		if c.IsEdited {
			when += " (edited)"
		}
		mine := ""
		if app.session.CanModify(c.AuthorID) {
			mine = " *"
		}
		table.Append([]string{strconv.FormatInt(c.ID, 10) + mine, orDash(c.AuthorName), when, truncate(c.Content, 60)})
	}
	table.Render()
}

func newCommentsAddCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "add <blog-id> <content>",
		Short: "Comment on a blog post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			blogID, err := parseID(args[0], "blog id")
			if err != nil {
				return err
			}
			app.enter(web.ViewBlog)

			comment, err := app.core.NewCommentThread(blogID).Create(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			if app.structured() {
				return app.printValue(comment)
			}
			fmt.Fprintf(app.stdout, "Comment %d added\n", comment.ID)
			return nil
		},
	}
}

// loadedThread loads the first page so ownership of the listed comments is known locally.
func (app *application) loadedThread(cmd *cobra.Command, blogID int64) *core.CommentThread {
	thread := app.core.NewCommentThread(blogID)
	if err := thread.Load(cmd.Context(), 0); err != nil {
		app.logger.Debug("could not preload comments", slog.Int64("blog_id", blogID), slog.String("error", err.Error()))
	}
	return thread
}

func newCommentsEditCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <blog-id> <comment-id> <content>",
		Short: "Edit one of your comments",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			blogID, err := parseID(args[0], "blog id")
			if err != nil {
				return err
			}
			commentID, err := parseID(args[1], "comment id")
			if err != nil {
				return err
			}
			app.enter(web.ViewBlog)
			if err := app.requireSession(); err != nil {
				return err
			}

			comment, err := app.loadedThread(cmd, blogID).Update(cmd.Context(), commentID, args[2])
			if err != nil {
				return err
			}
			if app.structured() {
				return app.printValue(comment)
			}
			fmt.Fprintf(app.stdout, "Comment %d updated\n", comment.ID)
			return nil
		},
	}
}

func newCommentsDeleteCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <blog-id> <comment-id>",
		Short: "Delete one of your comments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			blogID, err := parseID(args[0], "blog id")
			if err != nil {
				return err
			}
			commentID, err := parseID(args[1], "comment id")
			if err != nil {
				return err
			}
			app.enter(web.ViewBlog)
			if err := app.requireSession(); err != nil {
				return err
			}

			thread := app.loadedThread(cmd, blogID)
			if err := thread.Delete(cmd.Context(), commentID); err != nil {
				if errors.Is(err, core.ErrCancelled) {
					fmt.Fprintln(app.stdout, "Cancelled")
					return nil
				}
				return err
			}
			if !app.structured() {
				fmt.Fprintf(app.stdout, "Comments (%d)\n", thread.State().TotalElements)
			}
			return nil
		},
	}
}

func newCommentsByUserCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "by-user <user-id>",
		Short: "List all comments written by a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0], "user id")
			if err != nil {
				return err
			}
			app.enter(web.ViewProfile)

			comments, err := app.client.UserComments(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if app.structured() {
				return app.printValue(comments)
			}
			fmt.Fprintf(app.stdout, "%s\n", filter.Plural(int64(len(comments)), "comment"))
			app.printComments(comments)
			return nil
		},
	}
}
