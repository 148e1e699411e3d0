package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/aristath/degiro/internal/config"
	"github.com/aristath/degiro/internal/export"
	"github.com/aristath/degiro/pkg/degiro"
	"github.com/aristath/degiro/pkg/logger"
)

const requestTimeout = 30 * time.Second

// session is a logged in connection handed to every operation.
type session struct {
	client *degiro.Client
	hc     *http.Client
	id     string
	log    zerolog.Logger
}

func (s *session) accountID(ctx context.Context) (int64, error) {
	id, _, err := s.client.AccountData(ctx, s.hc, s.id)
	return id, err
}

// operation returns the value to print, or nil for nothing.
type operation func(ctx context.Context, s *session) (any, error)

type runner struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

// run logs in, performs op and writes its result to stdout.
func (r *runner) run(ctx context.Context, op operation) error {
	log := logger.New(logger.Config{
		Level:  r.cfg.LogLevel,
		Pretty: r.cfg.LogPretty,
		Output: r.stderr,
	})

	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("failed to create cookie jar: %w", err)
	}
	hc := &http.Client{Timeout: requestTimeout, Jar: jar}

	client := degiro.New(r.cfg.Username, r.cfg.Password, log, degiro.WithBaseURL(r.cfg.BaseURL))
	sessionID, err := client.Login(ctx, hc)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	log.Debug().Msg("Logged in")

	result, err := op(ctx, &session{client: client, hc: hc, id: sessionID, log: log})
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return export.Write(r.stdout, r.cfg.OutputFormat, result)
}

// execute loads the configuration, applies the -format flag and runs op.
func execute(ctx context.Context, op operation) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if *format != "" {
		f, err := export.ParseFormat(*format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		cfg.OutputFormat = f
	}

	r := &runner{cfg: cfg, stdout: os.Stdout, stderr: os.Stderr}
	if err := r.run(ctx, op); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
