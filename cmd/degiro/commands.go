package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/subcommands"
)

const flagDateLayout = "2006-01-02"

type loginCmd struct{}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "checks that the configured credentials can log in" }
func (*loginCmd) Usage() string {
	return `degiro login

Logs in with DEGIRO_USERNAME and DEGIRO_PASSWORD and exits non-zero on failure.
`
}
func (*loginCmd) SetFlags(*flag.FlagSet) {}

func (*loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, loginOp)
}

func loginOp(context.Context, *session) (any, error) {
	return nil, nil
}

type accountCmd struct{}

func (*accountCmd) Name() string     { return "account" }
func (*accountCmd) Synopsis() string { return "prints the account id and client data" }
func (*accountCmd) Usage() string {
	return `degiro account
`
}
func (*accountCmd) SetFlags(*flag.FlagSet) {}

func (*accountCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, accountOp)
}

func accountOp(ctx context.Context, s *session) (any, error) {
	id, data, err := s.client.AccountData(ctx, s.hc, s.id)
	if err != nil {
		return nil, err
	}
	return map[string]any{"accountId": id, "client": data}, nil
}

type transactionsCmd struct {
	from string
	to   string
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "prints transactions in a date range with product info" }
func (*transactionsCmd) Usage() string {
	return `degiro transactions -from YYYY-MM-DD [-to YYYY-MM-DD]
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "first day of the range (YYYY-MM-DD)")
	f.StringVar(&c.to, "to", "", "last day of the range (YYYY-MM-DD), defaults to today")
}

func (c *transactionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, to, err := parseRange(c.from, c.to, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return execute(ctx, transactionsOp(from, to))
}

func transactionsOp(from, to time.Time) operation {
	return func(ctx context.Context, s *session) (any, error) {
		accountID, err := s.accountID(ctx)
		if err != nil {
			return nil, err
		}
		return s.client.Transactions(ctx, s.hc, s.id, accountID, from, to)
	}
}

func parseRange(from, to string, now time.Time) (time.Time, time.Time, error) {
	if from == "" {
		return time.Time{}, time.Time{}, errors.New("-from is required")
	}
	start, err := time.Parse(flagDateLayout, from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid -from: %w", err)
	}
	end := now
	if to != "" {
		end, err = time.Parse(flagDateLayout, to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -to: %w", err)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("-to is before -from")
	}
	return start, end, nil
}

type productsCmd struct{}

func (*productsCmd) Name() string     { return "products" }
func (*productsCmd) Synopsis() string { return "prints product info for the given product ids" }
func (*productsCmd) Usage() string {
	return `degiro products <id> [<id>...]
`
}
func (*productsCmd) SetFlags(*flag.FlagSet) {}

func (*productsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ids, err := parseIDs(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return execute(ctx, productsOp(ids))
}

func productsOp(ids []int64) operation {
	return func(ctx context.Context, s *session) (any, error) {
		accountID, err := s.accountID(ctx)
		if err != nil {
			return nil, err
		}
		return s.client.Products(ctx, s.hc, s.id, accountID, ids)
	}
}

func parseIDs(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, errors.New("at least one product id is required")
	}
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type portfolioCmd struct{}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "prints open positions with product info" }
func (*portfolioCmd) Usage() string {
	return `degiro portfolio
`
}
func (*portfolioCmd) SetFlags(*flag.FlagSet) {}

func (*portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, portfolioOp)
}

func portfolioOp(ctx context.Context, s *session) (any, error) {
	accountID, err := s.accountID(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := s.client.Portfolio(ctx, s.hc, s.id, accountID)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("positions", len(positions)).Msg("Fetched portfolio")
	return positions, nil
}
