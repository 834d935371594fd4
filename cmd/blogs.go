package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/spf13/cobra"

	"github.com/siahsang/blogclient/internal/core"
	"github.com/siahsang/blogclient/internal/filter"
	"github.com/siahsang/blogclient/internal/validator"
	"github.com/siahsang/blogclient/internal/web"
	"github.com/siahsang/blogclient/models"
)

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 1 {
		return 0, xerrors.Newf("invalid %s %q", what, s)
	}
	return id, nil
}

func newBlogsCmd(app *application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blogs",
		Short: "Browse and manage blog posts",
		Long: `Blog post commands.

Examples:
  blogctl blogs list --search kubernetes --sort popularity
  blogctl blogs show 12
  blogctl blogs create --title "Hello" --content "My first post" --tag intro
  blogctl blogs edit 12 --title "Hello again"
  blogctl blogs delete 12
  blogctl blogs mine
  blogctl blogs browse`,
	}

	cmd.AddCommand(
		newBlogsListCmd(app),
		newBlogsShowCmd(app),
		newBlogsCreateCmd(app),
		newBlogsEditCmd(app),
		newBlogsDeleteCmd(app),
		newBlogsMineCmd(app),
		newBlogsBrowseCmd(app),
	)
	return cmd
}

func newBlogsListCmd(app *application) *cobra.Command {
	var (
		search string
		sortBy string
		tags   []string
		page   int
		size   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blog posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.enter(web.ViewHome)

			query := filter.Query{
				Search:      strings.TrimSpace(search),
				Sort:        sortBy,
				Tags:        tags,
				PageRequest: filter.NewPageRequest(page-1, size),
			}
			if size == 0 {
				query.Size = app.cfg.List.PageSize
			}
			if v := filter.ValidateQuery(query); !v.IsValid() {
				return v.Err()
			}

			result, err := app.client.ListBlogs(cmd.Context(), query)
			if err != nil {
				return err
			}
			return app.printBlogPage(result)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "search title and content")
	cmd.Flags().StringVar(&sortBy, "sort", filter.SortDate, "sort by date, popularity or title")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "filter by tag (repeatable)")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&size, "size", 0, "page size (default list.page_size)")
	return cmd
}

func (app *application) printBlogPage(page *models.Page[models.BlogPost]) error {
	if app.structured() {
		return app.printValue(page)
	}

	fmt.Fprintf(app.stdout, "%s found\n", filter.Plural(page.TotalElements, "blog"))
	if page.IsEmpty() {
		return nil
	}
	app.printBlogTable(page.Content)

	pager := filter.NewPager(filter.Metadata{
		CurrentPage:   page.Number,
		TotalPages:    page.TotalPages,
		TotalElements: page.TotalElements,
	})
	if pager.Visible {
		fmt.Fprintln(app.stdout, pager.String())
	}
	return nil
}

func (app *application) printBlogTable(blogs []models.BlogPost) {
	table := newTable(app.stdout, "ID", "TITLE", "AUTHOR", "TAGS", "VIEWS", "CREATED")
	for _, b := range blogs {
		table.Append([]string{
			strconv.FormatInt(b.ID, 10),
			truncate(b.Title, 40),
			orDash(b.Author.FullName()),
			orDash(strings.Join(b.Tags, ",")),
			filter.Plural(b.ViewCount, "view"),
			formatTime(b.CreatedAt),
		})
	}
	table.Render()
}

func newBlogsShowCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a blog post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "blog id")
			if err != nil {
				return err
			}
			app.enter(web.ViewBlog)

			blog, err := app.client.GetBlog(cmd.Context(), id)
			if err != nil {
				return err
			}
			if app.structured() {
				return app.printValue(blog)
			}

			fmt.Fprintf(app.stdout, "%s\n%s\n", blog.Title, strings.Repeat("=", len([]rune(blog.Title))))
			fmt.Fprintf(app.stdout, "By %s on %s · %s\n", orDash(blog.Author.FullName()), formatTime(blog.CreatedAt), filter.Plural(blog.ViewCount, "view"))
			if len(blog.Tags) > 0 {
				fmt.Fprintf(app.stdout, "Tags: %s\n", strings.Join(blog.Tags, ", "))
			}
			fmt.Fprintf(app.stdout, "\n%s\n", blog.Content)
			if app.session.CanModify(blog.Author.ID) {
				fmt.Fprintf(app.stdout, "\nYou wrote this post: blogctl blogs edit %d | blogctl blogs delete %d\n", blog.ID, blog.ID)
			}
			return nil
		},
	}
}

func newBlogsCreateCmd(app *application) *cobra.Command {
	var input models.BlogInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a blog post",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.enter(web.ViewCreateBlog)
			if err := app.requireSession(); err != nil {
				return err
			}

			blog, err := app.core.CreateBlog(cmd.Context(), input)
			if err != nil {
				return err
			}
			app.enter(web.ViewBlog)
			if app.structured() {
				return app.printValue(blog)
			}
			fmt.Fprintf(app.stdout, "Created blog %d: %s\n", blog.ID, blog.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Title, "title", "", "title, at least 3 characters")
	cmd.Flags().StringVar(&input.Content, "content", "", "content, at least 10 characters")
	cmd.Flags().StringSliceVarP(&input.Tags, "tag", "t", nil, "tag (repeatable)")
	return cmd
}

func newBlogsEditCmd(app *application) *cobra.Command {
	var (
		title, content string
		tags           []string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit one of your blog posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "blog id")
			if err != nil {
				return err
			}
			app.enter(web.ViewEditBlog)
			if err := app.requireSession(); err != nil {
				return err
			}
			ctx := cmd.Context()

			blog, err := app.core.GetBlogForEdit(ctx, id)
			if err != nil {
				return err
			}

			input := models.BlogInput{Title: blog.Title, Content: blog.Content, Tags: blog.Tags}
			if cmd.Flags().Changed("title") {
				input.Title = title
			}
			if cmd.Flags().Changed("content") {
				input.Content = content
			}
			if cmd.Flags().Changed("tag") {
				input.Tags = tags
			}

			updated, err := app.core.UpdateBlog(ctx, blog, input)
			if err != nil {
				return err
			}
			app.enter(web.ViewBlog)
			if app.structured() {
				return app.printValue(updated)
			}
			fmt.Fprintf(app.stdout, "Updated blog %d: %s\n", updated.ID, updated.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&content, "content", "", "new content")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "replace the tags (repeatable)")
	return cmd
}

func newBlogsDeleteCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your blog posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "blog id")
			if err != nil {
				return err
			}
			app.enter(web.ViewBlog)
			if err := app.requireSession(); err != nil {
				return err
			}
			ctx := cmd.Context()

			blog, err := app.client.GetBlog(ctx, id)
			if err != nil {
				return err
			}
			if err := app.core.DeleteBlog(ctx, blog); err != nil {
				if errors.Is(err, core.ErrCancelled) {
					fmt.Fprintln(app.stdout, "Cancelled")
					return nil
				}
				return err
			}
			app.enter(web.ViewHome)
			return nil
		},
	}
}

func newBlogsMineCmd(app *application) *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List your own blog posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.enter(web.ViewProfile)
			if err := app.requireSession(); err != nil {
				return err
			}
			if size == 0 {
				size = app.cfg.List.PageSize
			}
			p := filter.NewPageRequest(page-1, size)
			v := validator.New()
			filter.ValidatePageRequest(p, v)
			if !v.IsValid() {
				return v.Err()
			}

			result, err := app.client.MyBlogs(cmd.Context(), p)
			if err != nil {
				return err
			}
			return app.printBlogPage(result)
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&size, "size", 0, "page size (default list.page_size)")
	return cmd
}

func newBlogsBrowseCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse blog posts interactively",
		Long: `Browse the blog list interactively. Commands, one per line:

  /<text>        search (applied after a short pause, empty text clears)
  sort <key>     sort by date, popularity or title
  tag <name>     toggle a tag filter
  clear          reset search, sort and tags
  n, p           next or previous page
  page <n>       jump to page n
  r              retry
  q              quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.enter(web.ViewHome)
			return app.browse(cmd.Context())
		},
	}
}

func (app *application) browse(ctx context.Context) error {
	list := app.core.NewBlogList()
	defer list.Close()

	list.OnChange(func(state core.BlogListState) {
		switch {
		case state.Searching:
			fmt.Fprintln(app.stdout, "Searching...")
		case state.Loading:
		case state.Err != nil:
			fmt.Fprintf(app.stdout, "Error: %s (type r to retry)\n", state.Err)
		default:
			app.renderListState(state)
		}
	})

	if err := list.Start(ctx); err != nil {
		app.logger.Debug("initial fetch failed", slog.String("error", err.Error()))
	}

	for {
		line, err := app.prompt.ReadLine(ctx, "> ")
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)

		var cmdErr error
		switch {
		case line == "q" || line == "quit":
			return nil
		case strings.HasPrefix(line, "/"):
			list.TypeSearch(strings.TrimPrefix(line, "/"))
		case strings.HasPrefix(line, "sort "):
			cmdErr = list.SetSort(ctx, strings.TrimSpace(strings.TrimPrefix(line, "sort ")))
		case strings.HasPrefix(line, "tag "):
			cmdErr = list.ToggleTag(ctx, strings.TrimPrefix(line, "tag "))
		case line == "clear":
			cmdErr = list.ClearFilters(ctx)
		case line == "n":
			cmdErr = list.NextPage(ctx)
		case line == "p":
			cmdErr = list.PreviousPage(ctx)
		case strings.HasPrefix(line, "page "):
			n, convErr := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "page ")))
			if convErr != nil {
				cmdErr = xerrors.Newf("invalid page %q", line)
				break
			}
			cmdErr = list.GoToPage(ctx, n-1)
		case line == "r":
			cmdErr = list.Retry(ctx)
		case line == "":
		default:
			fmt.Fprintln(app.stdout, "Unknown command, see blogctl blogs browse --help")
		}
		if cmdErr != nil {
			app.prompt.Error(cmdErr.Error())
		}
	}
}

func (app *application) renderListState(state core.BlogListState) {
	q := state.Query
	var filters []string
	if q.Search != "" {
		filters = append(filters, fmt.Sprintf("search=%q", q.Search))
	}
	filters = append(filters, "sort="+q.Sort)
	if len(q.Tags) > 0 {
		filters = append(filters, "tags="+strings.Join(q.Tags, ","))
	}

	meta := state.Metadata()
	fmt.Fprintf(app.stdout, "\n%s found (%s)\n", filter.Plural(meta.TotalElements, "blog"), strings.Join(filters, " "))
	if items := state.Items(); len(items) > 0 {
		table := newTable(app.stdout, "ID", "TITLE", "AUTHOR", "PREVIEW")
		for _, b := range items {
			table.Append([]string{strconv.FormatInt(b.ID, 10), truncate(b.Title, 32), orDash(b.Author.FullName()), truncate(core.Preview(b), 48)})
		}
		table.Render()
	}
	if pager := state.Pager(); pager.Visible {
		fmt.Fprintln(app.stdout, pager.String())
	}
}
