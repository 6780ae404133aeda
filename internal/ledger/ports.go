// Package ledger declares the ports between the HTTP layer and the
// data-access collaborators. The aggregation engine itself never touches
// these; it only ever sees the snapshot a port hands back.
package ledger

import (
	"context"
	"errors"

	"savings/internal/core"
)

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a member registration reuses an email.
var ErrDuplicateEmail = errors.New("email already registered")

// Credential is the stored login identity for a member.
type Credential struct {
	MemberID     string
	Name         string
	Email        string
	Role         core.Role
	PasswordHash string
}

type (
	// SnapshotReader produces a consistent point-in-time view of the ledger.
	// Implementations must never expose a half-refreshed state.
	SnapshotReader interface {
		Snapshot(ctx context.Context) (core.Snapshot, error)
	}

	// MemberWriter registers a new member with their login credential.
	MemberWriter interface {
		CreateMember(ctx context.Context, m core.Member, passwordHash string, role core.Role) error
	}

	// ContributionWriter records a contribution and returns a storage
	// reference for it.
	ContributionWriter interface {
		CreateContribution(ctx context.Context, c core.Contribution) (ref string, err error)
	}

	// CredentialReader looks up the stored credential for a login email.
	CredentialReader interface {
		CredentialByEmail(ctx context.Context, email string) (Credential, error)
	}

	// SessionStore persists the active session identities. The guard only
	// consults identities that are still alive here; revocation is the
	// logout transition.
	SessionStore interface {
		CreateSession(ctx context.Context, tokenID, memberID string) error
		SessionAlive(ctx context.Context, tokenID string) (bool, error)
		RevokeSession(ctx context.Context, tokenID string) error
	}

	// Store is the full data-access surface the HTTP layer is wired to.
	Store interface {
		SnapshotReader
		MemberWriter
		ContributionWriter
		CredentialReader
		SessionStore
		Close() error
	}
)
