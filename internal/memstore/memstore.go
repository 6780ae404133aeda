// Package memstore is an in-memory ledger store. It backs local
// development and tests, optionally seeded from a JSON file so a dev
// environment starts with realistic data.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"savings/internal/core"
	"savings/internal/ledger"
)

type credential struct {
	member core.Member
	role   core.Role
	hash   string
}

// Store implements ledger.Store with everything held in memory.
type Store struct {
	mu       sync.RWMutex
	members  []core.Member
	records  []core.Contribution
	creds    map[string]credential // keyed by lowercase email
	sessions map[string]string     // token id -> member id
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		creds:    make(map[string]credential),
		sessions: make(map[string]string),
	}
}

// seedFile mirrors the JSON export shape: member references on records may
// be plain ids or embedded objects, amounts may be strings.
type seedFile struct {
	Members []core.Member       `json:"members"`
	Records []core.Contribution `json:"records"`
}

// NewFromDir loads seed data from <dir>/seed_ledger.json when present.
// A missing or unreadable seed file yields an empty store.
func NewFromDir(dir string) *Store {
	s := New()
	path := filepath.Join(dir, "seed_ledger.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return s
	}
	for _, m := range seed.Members {
		if m.ID == "" {
			continue
		}
		s.members = append(s.members, m)
	}
	for _, r := range seed.Records {
		if r.ID == "" {
			continue
		}
		s.records = append(s.records, r)
	}
	return s
}

func (s *Store) Snapshot(_ context.Context) (core.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Snapshot{
		Members: append([]core.Member(nil), s.members...),
		Records: append([]core.Contribution(nil), s.records...),
	}, nil
}

func (s *Store) CreateMember(_ context.Context, m core.Member, passwordHash string, role core.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(m.Email)
	if _, exists := s.creds[key]; exists {
		return ledger.ErrDuplicateEmail
	}
	s.members = append(s.members, m)
	s.creds[key] = credential{member: m, role: role, hash: passwordHash}
	return nil
}

func (s *Store) CreateContribution(_ context.Context, c core.Contribution) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, c)
	return fmt.Sprintf("mem:%d", len(s.records)), nil
}

func (s *Store) CredentialByEmail(_ context.Context, email string) (ledger.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.creds[strings.ToLower(email)]
	if !ok {
		return ledger.Credential{}, ledger.ErrNotFound
	}
	return ledger.Credential{
		MemberID:     cred.member.ID,
		Name:         cred.member.Name,
		Email:        cred.member.Email,
		Role:         cred.role,
		PasswordHash: cred.hash,
	}, nil
}

func (s *Store) CreateSession(_ context.Context, tokenID, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[tokenID] = memberID
	return nil
}

func (s *Store) SessionAlive(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[tokenID]
	return ok, nil
}

func (s *Store) RevokeSession(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tokenID)
	return nil
}

func (s *Store) Close() error { return nil }
