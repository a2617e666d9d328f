package api

import "fmt"

// AuthError reports a rejected registration or login, or a login whose
// success payload carried no credential.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// FetchError reports a failed transaction listing. Body holds the raw
// server response for diagnostic display.
type FetchError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *FetchError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("failed fetching transactions (status %d)", e.StatusCode)
}

// ConfirmError reports a rejected status transition.
type ConfirmError struct {
	StatusCode int
	Message    string
}

func (e *ConfirmError) Error() string {
	return fmt.Sprintf("confirm failed: %d %s", e.StatusCode, e.Message)
}

// PromoteError reports a rejected privilege escalation.
type PromoteError struct {
	StatusCode int
	Message    string
}

func (e *PromoteError) Error() string {
	return fmt.Sprintf("promote failed: %d %s", e.StatusCode, e.Message)
}
