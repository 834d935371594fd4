package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/siahsang/blogclient/internal/config"
)

func newRootCmd(app *application) *cobra.Command {
	var (
		configFile string
		verbosity  int
		assumeYes  bool
	)

	rootCmd := &cobra.Command{
		Use:   "blogctl",
		Short: "Command line client for the blogging platform",
		Long: `blogctl talks to the blogging platform REST API.

Examples:
  blogctl login --email jane@example.com
  blogctl blogs list --search golang --sort popularity --tag go
  blogctl blogs browse
  blogctl comments add 42 "Nice post!"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			app.cfg = cfg
			app.logger = configLogger(app.stderr, cfg.Log, verbosity)
			app.prompt = newTerminalPrompt(app.stdin, app.stderr, assumeYes)

			if cmd.Annotations[annotationNoSession] == "true" {
				return nil
			}
			return app.wire(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg != nil && app.cfg.Metrics.Dump && app.registry != nil {
				return app.dumpMetrics()
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: ./blogctl.yaml or the user config dir)")
	flags.String("api-url", "", "API base URL including the /api prefix")
	flags.Duration("timeout", 0, "HTTP timeout")
	flags.String("session-backend", "", "session storage: file, postgres, redis or memory")
	flags.String("session-file", "", "session file for the file backend")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: pretty or json")
	flags.StringP("output", "o", "", "output format: text, json or yaml")
	flags.Bool("metrics", false, "print request metrics to stderr when the command finishes")
	flags.CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	flags.BoolVarP(&assumeYes, "yes", "y", false, "answer yes to confirmation prompts")

	rootCmd.AddCommand(
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newBlogsCmd(app),
		newCommentsCmd(app),
		newTagsCmd(app),
		newProfileCmd(app),
		newImagesCmd(app),
		newDevServerCmd(app),
	)

	return rootCmd
}

// annotationNoSession marks commands that do not need the client stack.
const annotationNoSession = "blogctl/no-session"

func (app *application) dumpMetrics() error {
	families, err := app.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			sort.Strings(labels)

			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			}
			fmt.Fprintf(app.stderr, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), value)
		}
	}
	return nil
}
