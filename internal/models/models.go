package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is a transaction lifecycle state as reported by the server.
// Unknown values are preserved as-is for forward compatibility.
type Status string

const (
	// StatusPending marks a transaction awaiting admin confirmation.
	StatusPending Status = "pending"
	// StatusCompleted marks a confirmed transaction.
	StatusCompleted Status = "completed"
)

// IsPending reports whether the status is pending, case-insensitively.
func (s Status) IsPending() bool {
	return strings.EqualFold(string(s), string(StatusPending))
}

// User represents the profile of the signed-in account.
type User struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Role    string          `json:"role"`
	Balance decimal.Decimal `json:"balance"`
}

// UnmarshalJSON accepts `_id` as well as `id` and string or numeric
// identifiers. A missing balance decodes as zero.
func (u *User) UnmarshalJSON(data []byte) error {
	var w struct {
		MongoID flexString       `json:"_id"`
		ID      flexString       `json:"id"`
		Name    string           `json:"name"`
		Email   string           `json:"email"`
		Role    string           `json:"role"`
		Balance *decimal.Decimal `json:"balance"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	u.ID = string(w.MongoID)
	if u.ID == "" {
		u.ID = string(w.ID)
	}
	u.Name = w.Name
	u.Email = w.Email
	u.Role = w.Role
	if w.Balance != nil {
		u.Balance = *w.Balance
	} else {
		u.Balance = decimal.Zero
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role. The comparison is
// case-insensitive and fails closed: a nil user or a missing role is not
// an admin.
func (u *User) IsAdmin() bool {
	return IsAdmin(u)
}

// IsAdmin reports whether u holds the admin role. Safe on nil.
func IsAdmin(u *User) bool {
	if u == nil {
		return false
	}
	return strings.EqualFold(u.Role, "admin")
}

// Transaction is the client's read replica of a server-owned transaction
// record. The server is authoritative; after a confirm the returned record
// replaces the cached one.
type Transaction struct {
	ID          string
	Description string
	Type        string
	Amount      decimal.Decimal
	Timestamp   time.Time
	Status      Status

	// Owner display candidates; the server populates at most a few of
	// these depending on its version. Use Owner() for display.
	UserName  string
	UserLabel string
	UserEmail string
	UserID    string
}

// Owner returns the display label for the transaction's owner, trying
// userName, user, userEmail and userId in that order.
func (t *Transaction) Owner() string {
	for _, s := range []string{t.UserName, t.UserLabel, t.UserEmail, t.UserID} {
		if s != "" {
			return s
		}
	}
	return ""
}

// transactionWire mirrors the union of field spellings different server
// versions emit for a transaction.
type transactionWire struct {
	MongoID     flexString      `json:"_id"`
	ID          flexString      `json:"id"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Timestamp   flexTime        `json:"timestamp"`
	CreatedAt   flexTime        `json:"createdAt"`
	Status      string          `json:"status"`
	UserName    flexString      `json:"userName"`
	UserLabel   flexString      `json:"user"`
	UserEmail   flexString      `json:"userEmail"`
	UserID      flexString      `json:"userId"`
}

// UnmarshalJSON accepts both the `_id`/`id` and `timestamp`/`createdAt`
// spellings and normalizes them into the canonical struct.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var w transactionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t.ID = string(w.MongoID)
	if t.ID == "" {
		t.ID = string(w.ID)
	}
	t.Description = w.Description
	t.Type = w.Type
	t.Amount = w.Amount
	t.Timestamp = time.Time(w.Timestamp)
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Time(w.CreatedAt)
	}
	t.Status = Status(w.Status)
	t.UserName = string(w.UserName)
	t.UserLabel = string(w.UserLabel)
	t.UserEmail = string(w.UserEmail)
	t.UserID = string(w.UserID)
	return nil
}

// MarshalJSON writes the canonical field spellings.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          string          `json:"id"`
		Description string          `json:"description,omitempty"`
		Type        string          `json:"type,omitempty"`
		Amount      decimal.Decimal `json:"amount"`
		Timestamp   time.Time       `json:"timestamp"`
		Status      Status          `json:"status"`
		UserName    string          `json:"userName,omitempty"`
		UserLabel   string          `json:"user,omitempty"`
		UserEmail   string          `json:"userEmail,omitempty"`
		UserID      string          `json:"userId,omitempty"`
	}{
		ID:          t.ID,
		Description: t.Description,
		Type:        t.Type,
		Amount:      t.Amount,
		Timestamp:   t.Timestamp,
		Status:      t.Status,
		UserName:    t.UserName,
		UserLabel:   t.UserLabel,
		UserEmail:   t.UserEmail,
		UserID:      t.UserID,
	})
}

// flexString decodes a JSON string or number into a string. Server IDs show
// up both ways; anything else (objects, booleans) decodes as empty rather
// than failing the record.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*f = ""
		return nil
	}
	*f = flexString(n.String())
	return nil
}

// flexTime decodes an RFC 3339 string or a millisecond epoch number.
// Anything unparseable decodes as the zero time rather than failing the
// whole record.
type flexTime time.Time

func (f *flexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = flexTime(time.Time{})
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, s); err == nil {
				*f = flexTime(ts)
				return nil
			}
		}
		*f = flexTime(time.Time{})
		return nil
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		*f = flexTime(time.Time{})
		return nil
	}
	*f = flexTime(time.UnixMilli(ms).UTC())
	return nil
}
