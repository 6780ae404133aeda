package core

import (
	"encoding/json"
	"errors"
	"net/mail"
	"strings"
	"time"
)

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type (
	// Role is an access role fixed at login time.
	Role string

	// Date is a calendar date with no time-of-day semantics. The embedded
	// time is always midnight UTC so two dates compare equal whenever their
	// calendar day is the same, regardless of how they were written upstream.
	Date struct {
		time.Time
	}

	// Member is a registered savings-group member. Members are created by the
	// registration operation and never mutated here.
	Member struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	// Contribution is a single recorded saving. Immutable once created.
	Contribution struct {
		ID     string    `json:"id"`
		Member MemberRef `json:"member"`
		Amount Money     `json:"amount"`
		Date   Date      `json:"date"`
	}

	// MemberRef points a contribution at its member. Upstream exports carry
	// the reference either as a bare identifier or as an embedded member
	// object; both forms decode to the normalized identifier so the ledger
	// only ever compares ids.
	MemberRef struct {
		ID string
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidRole   = errors.New("invalid role")
	ErrEmptyName     = errors.New("empty name")
	ErrInvalidEmail  = errors.New("invalid email")
	ErrEmptyMember   = errors.New("empty member reference")
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts plain calendar dates (2025-01-31) and tolerates full
// RFC 3339 timestamps by truncating the time-of-day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Date{Time: t.UTC()}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return NewDate(t.Year(), t.Month(), t.Day()), nil
	}
	return Date{}, ErrInvalidDate
}

// Key returns the canonical YYYY-MM-DD form used for grouping and storage.
func (d Date) Key() string {
	return d.Format("2006-01-02")
}

func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Key())
}

// UnmarshalJSON is lenient: a missing or unparseable date leaves the zero
// Date, which range queries treat as out of every range.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		d.Time = time.Time{}
		return nil
	}
	*d = parsed
	return nil
}

func (r MemberRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// UnmarshalJSON normalizes the two reference shapes that occur in practice:
// "m1" and {"_id":"m1",...}. Anything else leaves the reference empty, which
// makes the record unattributable rather than failing the whole snapshot.
func (r *MemberRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.ID = s
		return nil
	}
	var obj struct {
		ID    string `json:"id"`
		OldID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		r.ID = ""
		return nil
	}
	if obj.ID != "" {
		r.ID = obj.ID
	} else {
		r.ID = obj.OldID
	}
	return nil
}

// Ref builds the normalized reference for a member.
func (m Member) Ref() MemberRef {
	return MemberRef{ID: m.ID}
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len(m.Name) > 120 {
		return errors.New("name too long (max 120 characters)")
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// Validate checks a contribution at creation time. The aggregation engine
// itself never validates: malformed records degrade to zero amounts or
// unattributable references instead.
func (c Contribution) Validate() error {
	if c.Member.ID == "" {
		return ErrEmptyMember
	}
	if err := c.Date.Validate(); err != nil {
		return err
	}
	if err := c.Amount.Validate(); err != nil {
		return err
	}
	return nil
}
