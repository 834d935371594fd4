package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/siahsang/blogclient/internal/web"
	"github.com/siahsang/blogclient/models"
)

func newProfileCmd(app *application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and update user profiles",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show your profile",
			RunE: func(cmd *cobra.Command, args []string) error {
				app.enter(web.ViewProfile)
				profile, err := app.core.Profile(cmd.Context())
				if err != nil {
					return err
				}
				return app.printProfile(profile)
			},
		},
		&cobra.Command{
			Use:   "get <user-id>",
			Short: "Show another user's profile",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0], "user id")
				if err != nil {
					return err
				}
				app.enter(web.ViewProfile)
				profile, err := app.client.UserProfile(cmd.Context(), id)
				if err != nil {
					return err
				}
				return app.printProfile(profile)
			},
		},
		newProfileUpdateCmd(app),
	)
	return cmd
}

func newProfileUpdateCmd(app *application) *cobra.Command {
	var firstName, lastName, bio, picture string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.enter(web.ViewProfile)
			ctx := cmd.Context()

			current, err := app.core.Profile(ctx)
			if err != nil {
				return err
			}

			input := models.ProfileInput{
				FirstName:      current.FirstName,
				LastName:       current.LastName,
				Bio:            current.Bio,
				ProfilePicture: current.ProfilePicture,
			}
			if cmd.Flags().Changed("first-name") {
				input.FirstName = firstName
			}
			if cmd.Flags().Changed("last-name") {
				input.LastName = lastName
			}
			if cmd.Flags().Changed("bio") {
				input.Bio = &bio
			}
			if cmd.Flags().Changed("picture") {
				input.ProfilePicture = &picture
			}

			profile, err := app.core.UpdateProfile(ctx, input)
			if err != nil {
				return err
			}
			return app.printProfile(profile)
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&bio, "bio", "", "short biography, up to 500 characters")
	cmd.Flags().StringVar(&picture, "picture", "", "profile picture URL")
	return cmd
}

func (app *application) printProfile(p *models.UserProfile) error {
	if app.structured() {
		return app.printValue(p)
	}

	deref := func(s *string) string {
		if s == nil {
			return "-"
		}
		return orDash(*s)
	}
	fmt.Fprintf(app.stdout, "ID:        %d\n", p.ID)
	fmt.Fprintf(app.stdout, "Name:      %s %s\n", p.FirstName, p.LastName)
	fmt.Fprintf(app.stdout, "Email:     %s\n", p.Email)
	fmt.Fprintf(app.stdout, "Bio:       %s\n", deref(p.Bio))
	fmt.Fprintf(app.stdout, "Picture:   %s\n", deref(p.ProfilePicture))
	fmt.Fprintf(app.stdout, "Joined:    %s\n", formatTime(p.CreatedAt))
	fmt.Fprintf(app.stdout, "Blogs:     %d\n", p.BlogCount)
	fmt.Fprintf(app.stdout, "Comments:  %d\n", p.CommentCount)
	return nil
}
