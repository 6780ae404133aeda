package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the subset of database/sql used by Queries, so the same query
// layer runs against the pool or an open transaction.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries bundles the raw SQL for the savings schema.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type MemberRow struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type ContributionRow struct {
	ID          string
	MemberID    string
	AmountCents int64
	Date        string
	CreatedAt   time.Time
	SyncStatus  string
}

// ContributionDetail joins a contribution with its member's display name for
// the sheets export. MemberName is empty for unattributable records.
type ContributionDetail struct {
	ID          string
	MemberID    string
	MemberName  string
	AmountCents int64
	Date        string
}

const createMember = `
INSERT INTO members (id, name, email, password_hash, role)
VALUES (?, ?, ?, ?, ?)
`

type CreateMemberParams struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
}

func (q *Queries) CreateMember(ctx context.Context, arg CreateMemberParams) error {
	_, err := q.db.ExecContext(ctx, createMember,
		arg.ID, arg.Name, arg.Email, arg.PasswordHash, arg.Role)
	return err
}

const listMembers = `
SELECT id, name, email, password_hash, role, created_at
FROM members
ORDER BY created_at, id
`

func (q *Queries) ListMembers(ctx context.Context) ([]MemberRow, error) {
	rows, err := q.db.QueryContext(ctx, listMembers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []MemberRow
	for rows.Next() {
		var m MemberRow
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.PasswordHash, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

const getMemberByEmail = `
SELECT id, name, email, password_hash, role, created_at
FROM members
WHERE email = ?
`

func (q *Queries) GetMemberByEmail(ctx context.Context, email string) (MemberRow, error) {
	var m MemberRow
	err := q.db.QueryRowContext(ctx, getMemberByEmail, email).
		Scan(&m.ID, &m.Name, &m.Email, &m.PasswordHash, &m.Role, &m.CreatedAt)
	return m, err
}

const createContribution = `
INSERT INTO contributions (id, member_id, amount_cents, date)
VALUES (?, ?, ?, ?)
`

type CreateContributionParams struct {
	ID          string
	MemberID    string
	AmountCents int64
	Date        string
}

func (q *Queries) CreateContribution(ctx context.Context, arg CreateContributionParams) error {
	_, err := q.db.ExecContext(ctx, createContribution,
		arg.ID, arg.MemberID, arg.AmountCents, arg.Date)
	return err
}

const listContributions = `
SELECT id, member_id, amount_cents, date, created_at, sync_status
FROM contributions
ORDER BY date, created_at, id
`

func (q *Queries) ListContributions(ctx context.Context) ([]ContributionRow, error) {
	rows, err := q.db.QueryContext(ctx, listContributions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ContributionRow
	for rows.Next() {
		var c ContributionRow
		if err := rows.Scan(&c.ID, &c.MemberID, &c.AmountCents, &c.Date, &c.CreatedAt, &c.SyncStatus); err != nil {
			return nil, err
		}
		records = append(records, c)
	}
	return records, rows.Err()
}

const getContributionDetail = `
SELECT c.id, c.member_id, COALESCE(m.name, ''), c.amount_cents, c.date
FROM contributions c
LEFT JOIN members m ON m.id = c.member_id
WHERE c.id = ?
`

func (q *Queries) GetContributionDetail(ctx context.Context, id string) (ContributionDetail, error) {
	var d ContributionDetail
	err := q.db.QueryRowContext(ctx, getContributionDetail, id).
		Scan(&d.ID, &d.MemberID, &d.MemberName, &d.AmountCents, &d.Date)
	return d, err
}

const getPendingSyncContributions = `
SELECT c.id, c.member_id, COALESCE(m.name, ''), c.amount_cents, c.date
FROM contributions c
LEFT JOIN members m ON m.id = c.member_id
WHERE c.sync_status = 'pending'
ORDER BY c.created_at, c.id
LIMIT ?
`

func (q *Queries) GetPendingSyncContributions(ctx context.Context, limit int64) ([]ContributionDetail, error) {
	rows, err := q.db.QueryContext(ctx, getPendingSyncContributions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []ContributionDetail
	for rows.Next() {
		var d ContributionDetail
		if err := rows.Scan(&d.ID, &d.MemberID, &d.MemberName, &d.AmountCents, &d.Date); err != nil {
			return nil, err
		}
		pending = append(pending, d)
	}
	return pending, rows.Err()
}

const markContributionSynced = `
UPDATE contributions
SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP
WHERE id = ?
`

func (q *Queries) MarkContributionSynced(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markContributionSynced, id)
	return err
}

const markContributionSyncError = `
UPDATE contributions
SET sync_status = 'error'
WHERE id = ?
`

func (q *Queries) MarkContributionSyncError(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markContributionSyncError, id)
	return err
}

const createSession = `
INSERT INTO sessions (token_id, member_id)
VALUES (?, ?)
`

func (q *Queries) CreateSession(ctx context.Context, tokenID, memberID string) error {
	_, err := q.db.ExecContext(ctx, createSession, tokenID, memberID)
	return err
}

const getSession = `
SELECT token_id FROM sessions WHERE token_id = ?
`

func (q *Queries) GetSession(ctx context.Context, tokenID string) (string, error) {
	var id string
	err := q.db.QueryRowContext(ctx, getSession, tokenID).Scan(&id)
	return id, err
}

const deleteSession = `
DELETE FROM sessions WHERE token_id = ?
`

func (q *Queries) DeleteSession(ctx context.Context, tokenID string) error {
	_, err := q.db.ExecContext(ctx, deleteSession, tokenID)
	return err
}
