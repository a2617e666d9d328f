// Package console drives the two interactive pages of the admin console:
// the auth page (sign in / register) and the admin page (transaction list
// with refresh, promote, confirm and logout). Controllers hold no business
// rules beyond orchestration; display logic lives in internal/view and the
// HTTP contract in internal/api.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"txadmin/internal/api"
	"txadmin/internal/models"
	"txadmin/internal/session"
	"txadmin/internal/view"
)

// Gateway is the slice of the API client the console depends on; faked in
// tests.
type Gateway interface {
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (*api.Credentials, error)
	ListTransactions(ctx context.Context, token string) ([]models.Transaction, error)
	ConfirmTransaction(ctx context.Context, token, id string) (*models.Transaction, error)
	Promote(ctx context.Context, token string) (*api.Credentials, error)
	FetchProfile(ctx context.Context, token string) (*models.User, error)
}

var _ Gateway = (*api.Client)(nil)

// Console is the interactive shell. It owns the in-memory session mirror
// and the cached transaction list.
type Console struct {
	gw    Gateway
	store session.Store
	in    io.Reader
	out   io.Writer

	scanner *bufio.Scanner

	token string
	user  *models.User
	list  view.List
	guard view.RowGuard
	seq   view.FetchSequencer
}

// New creates a console reading commands from in and writing to out.
func New(gw Gateway, store session.Store, in io.Reader, out io.Writer) *Console {
	return &Console{
		gw:      gw,
		store:   store,
		in:      in,
		out:     out,
		scanner: bufio.NewScanner(in),
	}
}

// Run loads the persisted session and loops between the auth and admin
// pages until the user quits or input ends. Command and network failures
// surface as status lines; they never abort the loop.
func (c *Console) Run(ctx context.Context) error {
	token, user, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	c.token, c.user = token, user

	for {
		var quit bool
		if c.token == "" {
			quit = c.authPage(ctx)
		} else {
			quit = c.adminPage(ctx)
		}
		if quit {
			return nil
		}
	}
}

// prompt prints a label and reads one trimmed line. ok is false when input
// is exhausted.
func (c *Console) prompt(label string) (line string, ok bool) {
	fmt.Fprint(c.out, label)
	if !c.scanner.Scan() {
		fmt.Fprintln(c.out)
		return "", false
	}
	return strings.TrimSpace(c.scanner.Text()), true
}

// promptPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read for pipes and tests.
func (c *Console) promptPassword(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if f, isFile := c.in.(*os.File); isFile && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.out)
		if err != nil {
			return "", false
		}
		return strings.TrimSpace(string(raw)), true
	}
	if !c.scanner.Scan() {
		fmt.Fprintln(c.out)
		return "", false
	}
	return strings.TrimSpace(c.scanner.Text()), true
}

// confirmPrompt asks a yes/no question; only an explicit y/yes counts.
func (c *Console) confirmPrompt(question string) bool {
	answer, ok := c.prompt(question + " [y/N]: ")
	if !ok {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func (c *Console) statusf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// saveSession persists token and user as one unit and mirrors them in
// memory. Persistence failure is reported but does not drop the in-memory
// session.
func (c *Console) saveSession(token string, user *models.User) {
	c.token, c.user = token, user
	if err := c.store.Save(token, user); err != nil {
		c.statusf("Warning: could not persist session: %v", err)
	}
}
