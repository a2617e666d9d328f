// Package api is a typed client for the remote transaction service. It
// normalizes the several response envelope shapes the server is known to
// emit and maps failures onto a small error taxonomy; callers decide
// whether to retry.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"txadmin/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Credentials is the outcome of a successful login or promote: a bearer
// token (possibly empty on promote, meaning "keep the old one") and the
// server's view of the profile.
type Credentials struct {
	Token string
	User  *models.User
}

// Client issues authenticated requests against the transaction service.
type Client struct {
	baseURL string
	log     zerolog.Logger

	// HTTPClient may be replaced before first use; defaults to a client
	// with no timeout, leaving deadlines to the caller's context.
	HTTPClient *http.Client
}

// NewClient creates a client for the service at baseURL. A trailing slash
// is trimmed so path joining stays predictable.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
		HTTPClient: &http.Client{},
	}
}

// BaseURL returns the resolved service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Register creates an account. Registration does not issue a credential;
// callers log in afterwards.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	status, body, err := c.do(ctx, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return &AuthError{Message: err.Error()}
	}
	if status < 200 || status > 299 {
		return &AuthError{Message: serverMessage(body, "Register failed")}
	}
	return nil
}

// Login exchanges credentials for a bearer token and profile. The server
// returns either a flat {token, user} object or a {data: {...}} envelope;
// both are accepted. A success response with no token is an AuthError of
// its own kind.
func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, &AuthError{Message: err.Error()}
	}
	if status < 200 || status > 299 {
		return nil, &AuthError{Message: serverMessage(body, "Login failed")}
	}

	creds, ok := decodeCredentials(body)
	if !ok {
		return nil, &AuthError{Message: "login succeeded but no token returned"}
	}
	return creds, nil
}

// ListTransactions fetches the full transaction list in server order. An
// empty successful response is a valid empty list, not an error.
func (c *Client) ListTransactions(ctx context.Context, token string) ([]models.Transaction, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/transactions", token, nil)
	if err != nil {
		return nil, &FetchError{Message: err.Error()}
	}
	if status < 200 || status > 299 {
		return nil, &FetchError{
			StatusCode: status,
			Message:    serverMessage(body, ""),
			Body:       string(body),
		}
	}
	list, err := decodeTransactionList(body)
	if err != nil {
		return nil, &FetchError{StatusCode: status, Message: "unexpected response shape", Body: string(body)}
	}
	return list, nil
}

// ConfirmTransaction requests the pending → completed transition for one
// transaction and returns the server's canonical updated record. Callers
// must adopt that record rather than their optimistic guess.
func (c *Client) ConfirmTransaction(ctx context.Context, token, id string) (*models.Transaction, error) {
	path := "/api/transactions/" + id + "/status"
	status, body, err := c.do(ctx, http.MethodPatch, path, token, map[string]string{
		"status": "Completed",
	})
	if err != nil {
		return nil, &ConfirmError{Message: err.Error()}
	}
	if status < 200 || status > 299 {
		return nil, &ConfirmError{StatusCode: status, Message: serverMessage(body, string(body))}
	}

	var env struct {
		Data *models.Transaction `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return env.Data, nil
	}
	var tx models.Transaction
	if err := json.Unmarshal(body, &tx); err != nil {
		return nil, &ConfirmError{StatusCode: status, Message: "unexpected response shape"}
	}
	return &tx, nil
}

// Promote elevates the caller's own account to admin. Dev helper; the
// server may rotate the token, in which case Credentials.Token is
// non-empty and must replace the stored one.
func (c *Client) Promote(ctx context.Context, token string) (*Credentials, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/api/dev/promote", token, nil)
	if err != nil {
		return nil, &PromoteError{Message: err.Error()}
	}
	if status < 200 || status > 299 {
		return nil, &PromoteError{StatusCode: status, Message: serverMessage(body, string(body))}
	}

	creds, ok := decodeCredentials(body)
	if !ok {
		// No token in the payload is fine here; the profile alone counts.
		user := decodeUserPayload(body)
		if user == nil {
			return nil, &PromoteError{StatusCode: status, Message: "unexpected response shape"}
		}
		return &Credentials{User: user}, nil
	}
	return creds, nil
}

// FetchProfile re-reads the caller's profile, typically after a confirm so
// balances and role stay current.
func (c *Client) FetchProfile(ctx context.Context, token string) (*models.User, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("profile fetch failed: %s", serverMessage(body, fmt.Sprintf("status %d", status)))
	}
	var env struct {
		Data *models.User `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return env.Data, nil
	}
	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("profile fetch: unexpected response shape")
	}
	return &user, nil
}

// do issues one request and returns the status code and full body. Network
// failures come back as errors; HTTP-level failures are the caller's to
// interpret. There are no automatic retries.
func (c *Client) do(ctx context.Context, method, path, token string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("request failed")
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	return resp.StatusCode, body, nil
}

// decodeCredentials extracts a token and user from a flat {token, user}
// payload or a {data: ...} envelope where data either wraps the pair or is
// the bare user object. Reports false when no token was found.
func decodeCredentials(body []byte) (*Credentials, bool) {
	var env struct {
		Token string          `json:"token"`
		User  *models.User    `json:"user"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, false
	}

	creds := &Credentials{Token: env.Token, User: env.User}

	if len(env.Data) > 0 && string(env.Data) != "null" {
		var inner struct {
			Token string       `json:"token"`
			User  *models.User `json:"user"`
		}
		if err := json.Unmarshal(env.Data, &inner); err == nil {
			if creds.Token == "" {
				creds.Token = inner.Token
			}
			if creds.User == nil {
				creds.User = inner.User
			}
		}
		if creds.User == nil {
			// data itself may be the user object
			var user models.User
			if err := json.Unmarshal(env.Data, &user); err == nil {
				creds.User = &user
			}
		}
	}

	if creds.Token == "" {
		return nil, false
	}
	return creds, true
}

// decodeUserPayload pulls a profile out of {data: user}, {user: ...} or a
// bare user object, in that order.
func decodeUserPayload(body []byte) *models.User {
	var env struct {
		Data json.RawMessage `json:"data"`
		User *models.User    `json:"user"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		var user models.User
		if err := json.Unmarshal(env.Data, &user); err == nil {
			return &user
		}
	}
	if env.User != nil {
		return env.User
	}
	var user models.User
	if err := json.Unmarshal(body, &user); err == nil {
		return &user
	}
	return nil
}

// decodeTransactionList accepts the three known list envelopes: a bare
// array, {data: [...]}, and {transactions: [...]}.
func decodeTransactionList(body []byte) ([]models.Transaction, error) {
	var direct []models.Transaction
	if err := json.Unmarshal(body, &direct); err == nil {
		return direct, nil
	}
	var env struct {
		Data         []models.Transaction `json:"data"`
		Transactions []models.Transaction `json:"transactions"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	if env.Data != nil {
		return env.Data, nil
	}
	return env.Transactions, nil
}

// serverMessage extracts a human-readable message from an error body,
// preferring `error` over `message`, falling back to the given default.
func serverMessage(body []byte, fallback string) string {
	var env struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Error != "" {
			return env.Error
		}
		if env.Message != "" {
			return env.Message
		}
	}
	return fallback
}
