package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/healthvault/internal/config"
	"github.com/hpungsan/healthvault/internal/errors"
	"github.com/hpungsan/healthvault/internal/ingest"
	"github.com/hpungsan/healthvault/internal/journal"
	"github.com/hpungsan/healthvault/internal/notify"
	"github.com/hpungsan/healthvault/internal/schema"
	"github.com/hpungsan/healthvault/internal/vault"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "healthvault",
		Usage:   "Quantified-self data vault",
		Version: Version,
		Commands: []*cli.Command{
			ingestCmd(db, cfg),
			historyCmd(db),
			showCmd(cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// ingestCmd creates the ingest command.
func ingestCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "ingest",
		Usage: "Ingest an issue JSON payload (from stdin or --file)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Read the issue JSON from a file instead of stdin"},
			&cli.StringFlag{Name: "vault", Usage: "Override the vault directory (fs backend)"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Run against an in-memory store; write and record nothing"},
		},
		Action: func(c *cli.Context) error {
			raw, err := readIssueInput(c.String("file"))
			if err != nil {
				return outputError(err)
			}

			var issue schema.Issue
			if err := json.Unmarshal([]byte(raw), &issue); err != nil {
				return outputError(errors.NewInvalidPayload(fmt.Sprintf("issue is not valid JSON: %v", err)))
			}

			if cfg.AuthorizedSender != "" && issue.Sender != cfg.AuthorizedSender {
				return outputError(errors.NewUnauthorized(issue.Sender))
			}

			dryRun := c.Bool("dry-run")
			store, err := buildStore(c, cfg, dryRun)
			if err != nil {
				return outputError(err)
			}

			log := slog.New(slog.NewTextHandler(os.Stderr, nil))
			d := &ingest.Dispatcher{
				Health:   &ingest.HealthPipeline{Store: store, Log: log},
				Location: &ingest.LocationPipeline{Store: store, Log: log},
				Log:      log,
			}
			if !dryRun && cfg.Notify.CommentsURL != "" {
				d.Notifier = notify.NewCommentPoster(cfg.Notify.CommentsURL, cfg.Notify.Token)
			}

			res := d.Dispatch(c.Context, issue)

			if db != nil && !dryRun && !res.Skipped {
				if _, err := journal.Record(db, issue.Title, pipelineName(issue.Title), res.Success, res.Message); err != nil {
					log.Warn("failed to record run", "error", err)
				}
			}

			if err := outputJSON(res); err != nil {
				return err
			}
			if !res.Success {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// historyCmd creates the history command.
func historyCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent ingestion runs",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "Maximum runs to list"},
		},
		Action: func(c *cli.Context) error {
			runs, err := journal.Recent(db, c.Int("limit"))
			if err != nil {
				return outputError(err)
			}
			if runs == nil {
				runs = []journal.Run{}
			}
			return outputJSON(runs)
		},
	}
}

// showCmd creates the show command.
func showCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print a stored vault file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "metric", Aliases: []string{"m"}, Usage: "Metric kind (e.g. heart_rate)"},
			&cli.BoolFlag{Name: "location", Aliases: []string{"l"}, Usage: "Show the location history"},
			&cli.StringFlag{Name: "vault", Usage: "Override the vault directory (fs backend)"},
		},
		Action: func(c *cli.Context) error {
			var name string
			switch {
			case c.Bool("location"):
				name = ingest.LocationFile
			case c.String("metric") != "":
				var ok bool
				name, ok = ingest.Route(c.String("metric"))
				if !ok {
					return outputError(errors.NewInvalidPayload(fmt.Sprintf(
						"unknown metric kind %q; supported: %s",
						c.String("metric"), strings.Join(ingest.MetricKinds(), ", "))))
				}
			default:
				return outputError(errors.NewInvalidPayload("specify --metric or --location"))
			}

			store, err := buildStore(c, cfg, false)
			if err != nil {
				return outputError(err)
			}

			data, err := store.Read(c.Context, name)
			if err != nil {
				return outputError(err)
			}
			fmt.Fprint(os.Stdout, string(data))
			return nil
		},
	}
}

// buildStore selects the vault store from flags and config.
func buildStore(c *cli.Context, cfg *config.Config, dryRun bool) (vault.Store, error) {
	if dryRun {
		return vault.NewMemory(), nil
	}
	if cfg.Backend == config.BackendS3 {
		return vault.NewS3Store(c.Context, vault.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
			KeyPrefix:       cfg.S3.KeyPrefix,
		})
	}
	dir := cfg.VaultDir
	if v := c.String("vault"); v != "" {
		dir = v
	}
	return vault.NewFS(dir), nil
}

// pipelineName maps a routing title to the journal's pipeline label.
func pipelineName(title string) string {
	switch title {
	case ingest.TitleHealth:
		return "health"
	case ingest.TitleLocation:
		return "location"
	default:
		return "none"
	}
}

// readIssueInput reads the issue JSON from a file or piped stdin.
func readIssueInput(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", errors.NewInvalidPayload(fmt.Sprintf("failed to read %s: %v", path, err))
		}
		return strings.TrimSpace(string(data)), nil
	}
	if !stdinHasData() {
		return "", errors.NewInvalidPayload("issue JSON must be piped via stdin or passed with --file")
	}
	return readStdin()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if vaultErr, ok := err.(*errors.VaultError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", vaultErr.Code, vaultErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
