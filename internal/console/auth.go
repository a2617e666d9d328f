package console

import (
	"context"
	"fmt"
	"strings"
)

// authPage runs the sign-in / register form until a session is established
// or the user quits. Returns true to quit the console.
func (c *Console) authPage(ctx context.Context) bool {
	for {
		fmt.Fprintln(c.out)
		mode, ok := c.prompt("Sign in or register? [s/r] (q quits): ")
		if !ok {
			return true
		}
		mode = strings.ToLower(mode)
		if mode == "q" || mode == "quit" {
			return true
		}

		var isRegister bool
		switch mode {
		case "s", "signin", "sign-in", "login", "":
			isRegister = false
		case "r", "register":
			isRegister = true
		default:
			c.statusf("Unknown choice %q", mode)
			continue
		}

		var name string
		if isRegister {
			if name, ok = c.prompt("Name: "); !ok {
				return true
			}
		}
		email, ok := c.prompt("Email: ")
		if !ok {
			return true
		}
		password, ok := c.promptPassword("Password: ")
		if !ok {
			return true
		}
		if email == "" || password == "" || (isRegister && name == "") {
			c.statusf("Please fill required fields")
			continue
		}

		if isRegister {
			if err := c.gw.Register(ctx, name, email, password); err != nil {
				c.statusf("%v", err)
				continue
			}
			c.statusf("Registered. Logging in...")
		}

		// Login is always the credential-issuing step; registration alone
		// does not establish a session.
		creds, err := c.gw.Login(ctx, email, password)
		if err != nil {
			c.statusf("%v", err)
			continue
		}
		c.saveSession(creds.Token, creds.User)
		return false
	}
}
