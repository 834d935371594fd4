package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/siahsang/blogclient/internal/web"
	"github.com/siahsang/blogclient/models"
)

func newTagsCmd(app *application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List, search and create tags",
		Long: `Tag commands.

Examples:
  blogctl tags list
  blogctl tags popular
  blogctl tags search go
  blogctl tags suggest ku --selected go,docker
  blogctl tags create kubernetes --color "#326CE5"`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all tags",
			RunE: func(cmd *cobra.Command, args []string) error {
				app.enter(web.ViewHome)
				tags, err := app.client.AllTags(cmd.Context())
				if err != nil {
					return err
				}
				return app.printTags(tags)
			},
		},
		&cobra.Command{
			Use:   "popular",
			Short: "List the most used tags",
			RunE: func(cmd *cobra.Command, args []string) error {
				app.enter(web.ViewHome)
				return app.printTags(app.core.PopularTags(cmd.Context()))
			},
		},
		&cobra.Command{
			Use:   "search <name>",
			Short: "Search tags by name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				app.enter(web.ViewHome)
				tags, err := app.client.SearchTags(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return app.printTags(tags)
			},
		},
		newTagsSuggestCmd(app),
		newTagsCreateCmd(app),
	)
	return cmd
}

func newTagsSuggestCmd(app *application) *cobra.Command {
	var selected []string

	cmd := &cobra.Command{
		Use:   "suggest <text>",
		Short: "Suggest tags for a partially typed name, skipping selected ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.enter(web.ViewCreateBlog)

			ctx, cancel := context.WithTimeout(cmd.Context(), app.cfg.API.Timeout+time.Second)
			defer cancel()

			suggester := app.core.NewTagSuggester(ctx, selected...)
			defer suggester.Close()

			results := make(chan []models.Tag, 1)
			suggester.OnSuggestions(func(tags []models.Tag) {
				select {
				case results <- tags:
				default:
				}
			})
			suggester.Type(args[0])

			select {
			case tags := <-results:
				return app.printTags(tags)
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}

	cmd.Flags().StringSliceVar(&selected, "selected", nil, "tags already selected")
	return cmd
}

func newTagsCreateCmd(app *application) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.enter(web.ViewCreateBlog)
			if err := app.requireSession(); err != nil {
				return err
			}

			tag, err := app.client.CreateTag(cmd.Context(), models.TagInput{Name: strings.TrimSpace(args[0]), Color: color})
			if err != nil {
				return err
			}
			if app.structured() {
				return app.printValue(tag)
			}
			fmt.Fprintf(app.stdout, "Created tag %s\n", tag.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "hex color such as #3B82F6")
	return cmd
}

func (app *application) printTags(tags []models.Tag) error {
	if app.structured() {
		if tags == nil {
			tags = []models.Tag{}
		}
		return app.printValue(tags)
	}
	if len(tags) == 0 {
		fmt.Fprintln(app.stdout, "No tags found")
		return nil
	}

	table := newTable(app.stdout, "NAME", "USAGE", "COLOR")
	for _, t := range tags {
		table.Append([]string{t.Name, strconv.FormatInt(t.UsageCount, 10), orDash(t.Color)})
	}
	table.Render()
	return nil
}
