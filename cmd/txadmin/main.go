// Command txadmin is a terminal console for reviewing and confirming
// transactions against a remote transaction service.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"txadmin/internal/api"
	"txadmin/internal/console"
	"txadmin/internal/session"
)

// defaultServer matches the service's local dev port.
const defaultServer = "http://localhost:5000"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("txadmin", flag.ContinueOnError)
	fs.SetOutput(stderr)

	serverFlag := fs.String("server", "", "Transaction service base URL (default $TXADMIN_SERVER or "+defaultServer+")")
	sessionFlag := fs.String("session", "", "Path to the session database (default $TXADMIN_SESSION_DB or ~/.txadmin/session.db)")
	verbose := fs.Bool("v", false, "Log every API request to stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}

	baseURL, err := resolveServer(*serverFlag)
	if err != nil {
		return err
	}
	sessionPath, err := resolveSessionPath(*sessionFlag)
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(stderr).With().Timestamp().Logger().Level(level)

	store, err := session.NewDB(sessionPath)
	if err != nil {
		return fmt.Errorf("failed to open session database: %w", err)
	}
	defer store.Close()

	client := api.NewClient(baseURL, logger)
	fmt.Fprintf(stdout, "txadmin — transaction console (%s)\n", client.BaseURL())

	c := console.New(client, store, stdin, stdout)
	return c.Run(context.Background())
}

// resolveServer picks the base URL once at startup: flag, then env, then
// the local dev default. Trailing slashes are trimmed.
func resolveServer(flagValue string) (string, error) {
	base := defaultServer
	if env := os.Getenv("TXADMIN_SERVER"); env != "" {
		base = env
	}
	if flagValue != "" {
		base = flagValue
	}
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return "", fmt.Errorf("server URL must start with http:// or https://: %q", base)
	}
	return base, nil
}

func resolveSessionPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("TXADMIN_SESSION_DB"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".txadmin")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.db"), nil
}
