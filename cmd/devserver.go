package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/siahsang/blogclient/internal/fakeapi"
)

func newDevServerCmd(app *application) *cobra.Command {
	var (
		addr string
		seed bool
	)

	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Run an in-memory blogging API for local development",
		Long: `Run an in-memory implementation of the blogging platform API. Data is lost
when the process exits.

Examples:
  blogctl dev-server --addr :8082 --seed
  blogctl --api-url http://localhost:8082/api blogs list`,
		Annotations: map[string]string{annotationNoSession: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			server := fakeapi.New(app.logger, fakeapi.Config{})
			if seed {
				if err := seedDemoData(server); err != nil {
					return err
				}
				fmt.Fprintln(app.stdout, "Seeded demo user demo@example.com / password")
			}
			app.logger.Info("dev server listening", slog.String("addr", addr))
			return server.Serve(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8082", "listen address")
	cmd.Flags().BoolVar(&seed, "seed", false, "create a demo user with a few posts")
	return cmd
}

func seedDemoData(s *fakeapi.Server) error {
	demo, err := s.AddUser("demo@example.com", "password", "Demo", "User")
	if err != nil {
		return err
	}
	other, err := s.AddUser("reader@example.com", "password", "Rita", "Reader")
	if err != nil {
		return err
	}

	first := s.AddBlog(demo.ID, "Getting started with Go", "Go is a small language with a large standard library. This post walks through modules, packages and testing.", "go", "tutorial")
	s.AddBlog(demo.ID, "Context cancellation patterns", "Every blocking call should accept a context. Here is how cancellation flows through a request.", "go", "concurrency")
	s.AddBlog(other.ID, "Notes on PostgreSQL indexes", "B-tree indexes cover most workloads, but partial and expression indexes are worth knowing.", "postgres", "databases")
	s.AddComment(first.ID, other.ID, "Thanks, this helped me set up my first module.")
	return nil
}
