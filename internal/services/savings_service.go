// Package services orchestrates writes across the store and the async
// export pipeline.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"savings/internal/auth"
	"savings/internal/core"
	"savings/internal/ledger"
)

// SyncPublisher enqueues export requests for newly recorded contributions.
type SyncPublisher interface {
	PublishContributionSync(ctx context.Context, id string) error
	Close() error
}

// SavingsService coordinates member registration and contribution intake.
// The store write is authoritative; publishing the sync message is best
// effort and never fails the request.
type SavingsService struct {
	store      ledger.Store
	publisher  SyncPublisher
	bcryptCost int
}

func NewSavingsService(store ledger.Store, publisher SyncPublisher, bcryptCost int) *SavingsService {
	return &SavingsService{
		store:      store,
		publisher:  publisher,
		bcryptCost: bcryptCost,
	}
}

// RegisterMember creates a member account with a hashed credential.
func (s *SavingsService) RegisterMember(ctx context.Context, name, email, password string, role core.Role) (core.Member, error) {
	m := core.Member{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
	}
	if err := m.Validate(); err != nil {
		return core.Member{}, err
	}
	if !role.Valid() {
		return core.Member{}, core.ErrInvalidRole
	}
	if password == "" {
		return core.Member{}, auth.ErrBadCredentials
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return core.Member{}, fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.CreateMember(ctx, m, hash, role); err != nil {
		return core.Member{}, err
	}

	slog.InfoContext(ctx, "Registered member", "member_id", m.ID, "role", string(role))
	return m, nil
}

// RecordContribution persists a contribution and queues its export.
func (s *SavingsService) RecordContribution(ctx context.Context, memberID string, amount core.Money, date core.Date) (core.Contribution, error) {
	c := core.Contribution{
		ID:     uuid.NewString(),
		Member: core.MemberRef{ID: memberID},
		Amount: amount,
		Date:   date,
	}
	if err := c.Validate(); err != nil {
		return core.Contribution{}, err
	}

	ref, err := s.store.CreateContribution(ctx, c)
	if err != nil {
		return core.Contribution{}, fmt.Errorf("save contribution: %w", err)
	}

	if err := s.publishSyncMessage(ctx, c.ID); err != nil {
		// The contribution is saved, the worker's startup check will
		// pick it up later.
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"contribution_id", c.ID, "error", err)
	}

	slog.InfoContext(ctx, "Recorded contribution",
		"contribution_id", c.ID,
		"member_id", memberID,
		"amount_cents", amount.Cents,
		"ref", ref)
	return c, nil
}

func (s *SavingsService) publishSyncMessage(ctx context.Context, id string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.publisher.PublishContributionSync(ctx, id)
}

// Close closes both the store and the AMQP connection.
func (s *SavingsService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close savings service: %v", errs)
	}

	return nil
}
