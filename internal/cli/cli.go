// SPDX-License-Identifier: AGPL-3.0-only

// Package cli is the command surface: the web client itself plus a few
// terminal conveniences for poking the backend directly.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/quillfeed/quill/internal/c2s"
	"github.com/quillfeed/quill/internal/config"
	"github.com/quillfeed/quill/internal/feed"
	"github.com/quillfeed/quill/internal/web"
	"github.com/quillfeed/quill/internal/worker"
)

var configPath string

func Execute() {
	root := &cobra.Command{
		Use:           "quill",
		Short:         "quill is a web client for a federated blogging platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "quill.yaml", "path to config file")

	root.AddCommand(serveCmd(), loginCmd(), feedCmd(), postCmd())

	if err := root.Execute(); err != nil {
		log.Fatalln(err)
	}
}

func loadAll() (*config.AppConfig, *zap.Logger, *c2s.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build logger: %w", err)
	}

	timeout, err := cfg.BackendTimeout()
	if err != nil {
		return nil, nil, nil, err
	}

	client := c2s.NewClient(cfg.Backend.BaseURL, timeout, logger)
	if token := os.Getenv("QUILL_TOKEN"); token != "" {
		client = client.WithToken(token)
	}
	return cfg, logger, client, nil
}

func buildLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if !lc.JSON {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web client",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, client, err := loadAll()
			if err != nil {
				return err
			}
			defer logger.Sync()

			w := worker.New(256, 10*time.Second, logger)
			w.Start()
			defer w.Stop()

			norm := feed.NewNormalizer(cfg.Site.FallbackBio)
			handler := web.NewHandler(client, norm, cfg, w, logger)
			router := web.NewRouter(handler, cfg.Server.TemplatesGlob)

			logger.Info("listening", zap.String("addr", cfg.Server.ListenAddr))
			return router.Run(cfg.Server.ListenAddr)
		},
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <handle>",
		Short: "Log in and print a session token for QUILL_TOKEN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, client, err := loadAll()
			if err != nil {
				return err
			}
			defer logger.Sync()

			fmt.Fprintf(os.Stderr, "Password for %s: ", args[0])
			password, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			sess, err := client.Login(context.Background(), args[0], string(password))
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			fmt.Printf("export QUILL_TOKEN=%s\n", sess.Token)
			return nil
		},
	}
}

func feedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feed [handle]",
		Short: "Print the public feed, or one user's posts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, client, err := loadAll()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := context.Background()
			var resp *c2s.FeedResponse
			if len(args) == 1 {
				resp, err = client.UserPosts(ctx, args[0])
			} else {
				resp, err = client.Feed(ctx)
			}
			if err != nil {
				return fmt.Errorf("fetch feed: %w", err)
			}

			norm := feed.NewNormalizer(cfg.Site.FallbackBio)
			for _, item := range feed.Order(norm.Items(resp)) {
				printItem(os.Stdout, item)
			}
			return nil
		},
	}
}

func printItem(w io.Writer, item feed.Item) {
	switch v := item.(type) {
	case feed.Post:
		fmt.Fprintf(w, "%s  %s by @%s (%d likes)\n", v.PublishedAt.Format("2006-01-02 15:04"), v.Title, v.FullHandle(), v.LikesCount)
	case feed.SharedPost:
		fmt.Fprintf(w, "%s  %s by @%s, shared by @%s\n", v.SharedAt.Format("2006-01-02 15:04"), v.Title, v.FullHandle(), v.SharerHandle)
	}
}

func postCmd() *cobra.Command {
	var title, summary string
	var tags []string

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Publish a new article, body read from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, client, err := loadAll()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if title == "" {
				return fmt.Errorf("--title is required")
			}

			body, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read body: %w", err)
			}
			if strings.TrimSpace(string(body)) == "" {
				return fmt.Errorf("refusing to publish an empty body")
			}

			article := c2s.NewArticle{
				Title:   title,
				Body:    string(body),
				Summary: summary,
				Tags:    tags,
			}
			if err := client.CreateArticle(context.Background(), article); err != nil {
				return fmt.Errorf("create article: %w", err)
			}
			fmt.Println("Published.")
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "article title")
	cmd.Flags().StringVar(&summary, "summary", "", "optional summary")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tags, repeatable")
	return cmd
}
