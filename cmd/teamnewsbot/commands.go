package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"TeamNewsBot/internal/app"
	"TeamNewsBot/internal/config"
	"TeamNewsBot/internal/domain"
	"TeamNewsBot/internal/formatter"
	"TeamNewsBot/internal/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "teamnewsbot",
		Short:         "Post team news from RSS feeds to X",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SilenceUsage = true
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDefault(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config (defaults to $TEAMNEWSBOT_CONFIG)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Fetch news and post every new matching article",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runDefault(cmd, opts)
			},
		},
		&cobra.Command{
			Use:   "preview",
			Short: "Show the posts a run would publish, without posting",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				application, err := buildApp(opts)
				if err != nil {
					return err
				}
				drafts, err := application.Preview(cmd.Context())
				if err != nil {
					return err
				}
				printPreview(cmd.OutOrStdout(), drafts)
				return nil
			},
		},
		&cobra.Command{
			Use:   "dry-run",
			Short: "Draft a post for the most recent article, without posting",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				application, err := buildApp(opts)
				if err != nil {
					return err
				}
				draft, err := application.DryRun(cmd.Context())
				if err != nil {
					return err
				}
				printDraft(cmd.OutOrStdout(), draft)
				return nil
			},
		},
		&cobra.Command{
			Use:   "test",
			Short: "Post the most recent article live, ignoring age and history",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				application, err := buildApp(opts)
				if err != nil {
					return err
				}
				draft, err := application.TestPost(cmd.Context())
				if err != nil {
					return err
				}
				printDraft(cmd.OutOrStdout(), draft)
				return nil
			},
		},
		newThreadCmd(opts),
		&cobra.Command{
			Use:   "schedule",
			Short: "Run now and then every CHECK_INTERVAL_HOURS",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				application, err := buildApp(opts)
				if err != nil {
					return err
				}
				return application.Schedule(cmd.Context())
			},
		},
	)

	return root
}

func newThreadCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "thread",
		Short: "Generate a thread about the most recent article and post it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApp(opts)
			if err != nil {
				return err
			}
			article, thread, err := application.Thread(cmd.Context(), !dryRun)
			if err != nil {
				return err
			}
			printThread(cmd.OutOrStdout(), article, thread, dryRun)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the thread without posting")
	return cmd
}

func runDefault(cmd *cobra.Command, opts *rootOptions) error {
	application, err := buildApp(opts)
	if err != nil {
		return err
	}
	_, err = application.Run(cmd.Context())
	return err
}

func buildApp(opts *rootOptions) (*app.Application, error) {
	boot := logging.New(opts.logLevel)
	cfg, err := config.Load(opts.configPath, boot)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	return app.New(cfg, logging.New(cfg.Logging.Level)), nil
}

func printDraft(w io.Writer, d domain.Draft) {
	published := d.Article.Published
	if published == "" {
		published = "Unknown date"
	}
	rule := strings.Repeat("-", 60)
	fmt.Fprintf(w, "ARTICLE:\n   Title: %s\n   Source: %s\n   Published: %s\n   Link: %s\n\n",
		d.Article.Title, d.Article.SourceName, published, d.Article.Link)
	fmt.Fprintf(w, "DRAFT TWEET:\n%s\n%s\n%s\n", rule, d.Text, rule)
	fmt.Fprintf(w, "\nTweet length: %d / %d characters\n", formatter.Length(d.Text), formatter.MaxTweetLength)
}

func printPreview(w io.Writer, drafts []domain.Draft) {
	if len(drafts) == 0 {
		fmt.Fprintln(w, "No new articles found (already posted or older than the recency window)")
		return
	}
	fmt.Fprintf(w, "Would post %d tweets:\n\n", len(drafts))
	for i, d := range drafts {
		fmt.Fprintf(w, "%d. Source: %s\n   Tweet: %s\n   Link: %s\n\n", i+1, d.Article.SourceName,
			strings.ReplaceAll(d.Text, "\n", " "), d.Article.Link)
	}
}

func printThread(w io.Writer, article domain.Article, thread domain.Thread, dryRun bool) {
	header := "POSTED THREAD"
	if dryRun {
		header = "DRAFT THREAD (not posted)"
	}
	fmt.Fprintf(w, "%s about: %s\n%s\n\n", header, article.Title, article.Link)
	for i, segment := range thread {
		fmt.Fprintf(w, "%d/%d (%d chars)\n%s\n\n", i+1, len(thread), formatter.Length(segment), segment)
	}
}
