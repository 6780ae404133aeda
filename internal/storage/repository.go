package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"savings/internal/core"
	"savings/internal/ledger"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the sqlite-backed implementation of the ledger ports.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Snapshot reads members and contributions inside one read transaction so
// the aggregation engine never sees a half-refreshed ledger.
func (r *SQLiteRepository) Snapshot(ctx context.Context) (core.Snapshot, error) {
	var snap core.Snapshot

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return snap, fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)

	members, err := q.ListMembers(ctx)
	if err != nil {
		return snap, fmt.Errorf("list members: %w", err)
	}
	records, err := q.ListContributions(ctx)
	if err != nil {
		return snap, fmt.Errorf("list contributions: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return snap, fmt.Errorf("commit snapshot tx: %w", err)
	}

	snap.Members = make([]core.Member, len(members))
	for i, m := range members {
		snap.Members[i] = core.Member{ID: m.ID, Name: m.Name, Email: m.Email}
	}
	snap.Records = make([]core.Contribution, len(records))
	for i, c := range records {
		date, err := core.ParseDate(c.Date)
		if err != nil {
			// A mangled stored date degrades to the zero date rather than
			// breaking every report.
			slog.WarnContext(ctx, "Stored contribution has unparseable date",
				"contribution_id", c.ID, "date", c.Date)
		}
		snap.Records[i] = core.Contribution{
			ID:     c.ID,
			Member: core.MemberRef{ID: c.MemberID},
			Amount: core.Money{Cents: c.AmountCents},
			Date:   date,
		}
	}
	return snap, nil
}

func (r *SQLiteRepository) CreateMember(ctx context.Context, m core.Member, passwordHash string, role core.Role) error {
	err := r.queries.CreateMember(ctx, CreateMemberParams{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: passwordHash,
		Role:         string(role),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ledger.ErrDuplicateEmail
		}
		return fmt.Errorf("create member: %w", err)
	}

	slog.InfoContext(ctx, "Member saved",
		"member_id", m.ID, "member_name", m.Name, "role", role)
	return nil
}

func (r *SQLiteRepository) CreateContribution(ctx context.Context, c core.Contribution) (string, error) {
	err := r.queries.CreateContribution(ctx, CreateContributionParams{
		ID:          c.ID,
		MemberID:    c.Member.ID,
		AmountCents: c.Amount.Cents,
		Date:        c.Date.Key(),
	})
	if err != nil {
		return "", fmt.Errorf("create contribution: %w", err)
	}

	slog.InfoContext(ctx, "Contribution saved",
		"contribution_id", c.ID,
		"member_id", c.Member.ID,
		"amount_cents", c.Amount.Cents,
		"date", c.Date.Key())
	return c.ID, nil
}

func (r *SQLiteRepository) CredentialByEmail(ctx context.Context, email string) (ledger.Credential, error) {
	row, err := r.queries.GetMemberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Credential{}, ledger.ErrNotFound
		}
		return ledger.Credential{}, fmt.Errorf("get member by email: %w", err)
	}
	return ledger.Credential{
		MemberID:     row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Role:         core.Role(row.Role),
		PasswordHash: row.PasswordHash,
	}, nil
}

func (r *SQLiteRepository) CreateSession(ctx context.Context, tokenID, memberID string) error {
	if err := r.queries.CreateSession(ctx, tokenID, memberID); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SessionAlive(ctx context.Context, tokenID string) (bool, error) {
	_, err := r.queries.GetSession(ctx, tokenID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("get session: %w", err)
	}
	return true, nil
}

func (r *SQLiteRepository) RevokeSession(ctx context.Context, tokenID string) error {
	if err := r.queries.DeleteSession(ctx, tokenID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PendingSync returns contributions not yet exported to the backup sheet.
func (r *SQLiteRepository) PendingSync(ctx context.Context, limit int) ([]ContributionDetail, error) {
	pending, err := r.queries.GetPendingSyncContributions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync contributions: %w", err)
	}
	return pending, nil
}

// ContributionDetail loads one contribution with its member name.
func (r *SQLiteRepository) ContributionDetail(ctx context.Context, id string) (ContributionDetail, error) {
	d, err := r.queries.GetContributionDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ContributionDetail{}, ledger.ErrNotFound
		}
		return ContributionDetail{}, fmt.Errorf("get contribution detail: %w", err)
	}
	return d, nil
}

// MarkSynced marks a contribution as exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if err := r.queries.MarkContributionSynced(ctx, id); err != nil {
		return fmt.Errorf("mark contribution synced: %w", err)
	}
	slog.InfoContext(ctx, "Contribution marked as synced", "contribution_id", id)
	return nil
}

// MarkSyncError marks a contribution as failed to export.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if err := r.queries.MarkContributionSyncError(ctx, id); err != nil {
		return fmt.Errorf("mark contribution sync error: %w", err)
	}
	slog.WarnContext(ctx, "Contribution marked with sync error", "contribution_id", id)
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
