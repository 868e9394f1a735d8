package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tommy-mor/spare/internal/contract"
	"github.com/tommy-mor/spare/internal/httpclient"
	"github.com/tommy-mor/spare/internal/logging"
)

const defaultBaseURL = "http://localhost:8080/api/v1"

func newApp() *cli.App {
	return &cli.App{
		Name:  "usercheck",
		Usage: "run the users API contract checks against a live server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "API base URL including the version prefix",
				Value:   defaultBaseURL,
				EnvVars: []string{"USERCHECK_BASE_URL"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "per-request timeout",
				Value:   10 * time.Second,
				EnvVars: []string{"USERCHECK_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:  "email",
				Usage: "email used for the created user",
				Value: contract.DefaultEmail,
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "name used for the created user",
				Value: contract.DefaultName,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"USERCHECK_LOG_LEVEL"},
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	logger := logging.New("usercheck", "", c.String("log-level"))

	client, err := httpclient.New(c.String("base-url"), c.Duration("timeout"), logger)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	runner := contract.NewRunner(client, logger,
		contract.WithUser(c.String("email"), c.String("name")),
	)

	report := runner.Run(c.Context)
	_, _ = fmt.Fprint(c.App.Writer, report.String())

	if !report.Passed() {
		return cli.Exit("contract checks failed", 1)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
