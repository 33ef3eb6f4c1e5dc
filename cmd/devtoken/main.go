// Command devtoken mints or checks access tokens with the configured
// AUTH_JWT_SECRET, for local development against the API.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"wellsync-backend/internal/config"
	"wellsync-backend/internal/token"

	"github.com/spf13/pflag"
)

var errProduction = errors.New("refusing to issue tokens with APP_ENV=production")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, time.Now); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	sub    string
	email  string
	role   string
	ttl    time.Duration
	verify string
}

func run(args []string, stdout, stderr io.Writer, now func() time.Time) error {
	var opts options

	flagSet := pflag.NewFlagSet("devtoken", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.sub, "sub", "", "subject (user id) to embed")
	flagSet.StringVar(&opts.email, "email", "", "email claim")
	flagSet.StringVar(&opts.role, "role", "", "role claim (user, coach, admin)")
	flagSet.DurationVar(&opts.ttl, "ttl", 0, "token lifetime (default AUTH_TOKEN_TTL_SECONDS)")
	flagSet.StringVar(&opts.verify, "verify", "", "verify this token instead of issuing one")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, `devtoken mints or verifies HS256 access tokens.

Usage:
  devtoken --sub u-1000 --email alex@example.com [--role admin] [--ttl 1h]
  devtoken --verify <token>

Flags:
%s`, flagSet.FlagUsages())
	}

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	app, authCfg, err := config.LoadAuth()
	if err != nil {
		return err
	}
	m, err := token.NewManager(authCfg)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	if opts.verify != "" {
		claims, err := m.Verify(opts.verify, now())
		if err != nil {
			return err
		}
		return enc.Encode(claims)
	}

	if app.Env == "production" {
		return errProduction
	}
	if opts.sub == "" {
		return errors.New("--sub is required")
	}

	issued, err := m.Issue(now(), token.IssueRequest{
		Subject:  opts.sub,
		Email:    opts.email,
		Role:     opts.role,
		Lifetime: opts.ttl,
	})
	if err != nil {
		return err
	}
	return enc.Encode(map[string]any{
		"tokenType":        "Bearer",
		"accessToken":      issued.AccessToken,
		"expiresInSeconds": int64(issued.ExpiresIn / time.Second),
	})
}
