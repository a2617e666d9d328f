package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"txadmin/internal/api"
	"txadmin/internal/view"
)

// adminPage shows the transaction list and handles admin commands until
// logout or quit. Returns true to quit the console.
func (c *Console) adminPage(ctx context.Context) bool {
	if c.token == "" {
		// Guard: no credential, back to the auth page.
		return false
	}

	c.printUserInfo()
	c.loadTransactions(ctx)

	for {
		line, ok := c.prompt("> ")
		if !ok {
			return true
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
			continue
		case "help", "?":
			c.printHelp()
		case "refresh", "r":
			c.loadTransactions(ctx)
		case "list", "l":
			c.renderList()
		case "summary":
			c.renderSummary()
		case "whoami":
			c.printUserInfo()
		case "confirm", "c":
			if arg == "" {
				c.statusf("Usage: confirm <id>")
				continue
			}
			c.confirmTransaction(ctx, arg)
		case "promote":
			c.promote(ctx)
		case "logout":
			if err := c.store.Clear(); err != nil {
				c.statusf("Warning: could not clear session: %v", err)
			}
			c.token, c.user = "", nil
			c.list = view.List{}
			return false
		case "quit", "q", "exit":
			return true
		default:
			c.statusf("Unknown command %q (help lists commands)", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, "Commands:")
	fmt.Fprintln(c.out, "  refresh        re-fetch the transaction list")
	fmt.Fprintln(c.out, "  list           re-render the cached list")
	fmt.Fprintln(c.out, "  summary        totals by status")
	fmt.Fprintln(c.out, "  confirm <id>   mark a pending transaction completed (admin)")
	fmt.Fprintln(c.out, "  promote        promote this account to admin (dev helper)")
	fmt.Fprintln(c.out, "  whoami         show the signed-in profile")
	fmt.Fprintln(c.out, "  logout         clear the session and return to sign-in")
	fmt.Fprintln(c.out, "  quit           exit")
}

func (c *Console) printUserInfo() {
	if c.user == nil {
		return
	}
	label := c.user.Name
	if label == "" {
		label = c.user.Email
	} else if c.user.Email != "" {
		label += " — " + c.user.Email
	}
	fmt.Fprintf(c.out, "Signed in as %s (role %s, balance $%s)\n", label, c.user.Role, c.user.Balance.StringFixed(2))
}

// loadTransactions fetches the list and, if the fetch is still the latest
// one, replaces the cache and renders it. A stale response (an earlier
// fetch resolving after a later one) is dropped.
func (c *Console) loadTransactions(ctx context.Context) {
	fmt.Fprintln(c.out, "Loading...")
	seq := c.seq.Next()

	list, err := c.gw.ListTransactions(ctx, c.token)
	if err != nil {
		fmt.Fprintln(c.out, "Failed to load transactions")
		var fe *api.FetchError
		if errors.As(err, &fe) && fe.Message == "" && fe.Body != "" {
			c.statusf("%s", fe.Body)
		} else {
			c.statusf("%v", err)
		}
		return
	}
	if !c.seq.Commit(seq) {
		return
	}

	c.list.Replace(list)
	c.renderList()
}

func (c *Console) renderList() {
	switch c.list.State() {
	case view.StateNotLoaded:
		c.statusf("No transactions loaded yet (try refresh)")
		return
	case view.StateEmpty:
		fmt.Fprintln(c.out, "No transactions")
		c.statusf("No transactions returned")
		return
	}

	rows := view.ComputeDisplay(c.list.Items(), c.user.IsAdmin())
	for _, row := range rows {
		c.renderRow(row)
	}
}

func (c *Console) renderRow(row view.Row) {
	t := row.Transaction

	title := t.Description
	if title == "" {
		title = t.Type
	}
	if title == "" {
		title = "Transaction"
	}

	when := ""
	if !t.Timestamp.IsZero() {
		when = t.Timestamp.Format("2006-01-02 15:04")
	}

	var control string
	switch row.Variant {
	case view.VariantActionable:
		control = "[confirm available]"
	case view.VariantSettled:
		control = fmt.Sprintf("✔ %s", t.Status)
	default:
		control = "(admin only)"
	}

	fmt.Fprintf(c.out, "  [%s] %s  $%s  %s  user: %s  %s\n",
		t.ID, title, t.Amount.StringFixed(2), when, t.Owner(), control)
}

func (c *Console) renderSummary() {
	if c.list.State() == view.StateNotLoaded {
		c.statusf("No transactions loaded yet (try refresh)")
		return
	}
	for _, s := range view.Summarize(c.list.Items()) {
		fmt.Fprintf(c.out, "  %-12s %3d  $%s\n", s.Status, s.Count, s.Total.StringFixed(2))
	}
}

// confirmTransaction runs the one legal transition for a row: an explicit
// confirmation prompt, the PATCH, adoption of the server's canonical
// record, then a best-effort profile refresh. A failed refresh does not
// roll back the confirm.
func (c *Console) confirmTransaction(ctx context.Context, id string) {
	if !c.user.IsAdmin() {
		c.statusf("Confirm is admin only")
		return
	}
	for _, t := range c.list.Items() {
		if t.ID == id && !t.Status.IsPending() {
			c.statusf("Transaction %s is already %s", id, t.Status)
			return
		}
	}

	if !c.confirmPrompt("Mark transaction as Completed?") {
		c.statusf("Cancelled")
		return
	}

	if !c.guard.Begin(id) {
		c.statusf("A confirm for %s is already in flight", id)
		return
	}
	defer c.guard.End(id)

	updated, err := c.gw.ConfirmTransaction(ctx, c.token, id)
	if err != nil {
		c.statusf("%v", err)
		return
	}

	if err := c.list.Confirm(id, *updated); err != nil {
		if errors.Is(err, view.ErrStaleView) {
			c.statusf("View was stale — reloading")
			c.loadTransactions(ctx)
			return
		}
		c.statusf("%v", err)
		return
	}
	c.statusf("Transaction confirmed")
	c.renderList()

	// Refresh the profile so balances update; the confirm stands even if
	// this fails.
	user, err := c.gw.FetchProfile(ctx, c.token)
	if err != nil {
		c.statusf("Warning: profile refresh failed: %v", err)
		return
	}
	c.saveSession(c.token, user)
}

// promote elevates the signed-in account to admin via the dev-only
// endpoint, after an explicit confirmation. A rotated token and the
// updated profile are persisted together.
func (c *Console) promote(ctx context.Context) {
	if !c.confirmPrompt("Promote your account to admin? This is a dev helper.") {
		c.statusf("Cancelled")
		return
	}

	creds, err := c.gw.Promote(ctx, c.token)
	if err != nil {
		c.statusf("%v", err)
		return
	}

	token := c.token
	if creds.Token != "" {
		token = creds.Token
	}
	user := c.user
	if creds.User != nil {
		user = creds.User
	}
	c.saveSession(token, user)

	c.statusf("Promoted to admin — reloading transactions")
	c.printUserInfo()
	c.loadTransactions(ctx)
}
