package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"savings/internal/amqp"
	"savings/internal/core"
	"savings/internal/ledger"
	applog "savings/internal/log"
	"savings/internal/sheets"
	"savings/internal/storage"
)

// LedgerSource is the storage surface the worker needs: pending rows and
// sync-status bookkeeping.
type LedgerSource interface {
	PendingSync(ctx context.Context, limit int) ([]storage.ContributionDetail, error)
	ContributionDetail(ctx context.Context, id string) (storage.ContributionDetail, error)
	MarkSynced(ctx context.Context, id string) error
	MarkSyncError(ctx context.Context, id string) error
}

// SyncWorker exports contributions from the local store to the backup
// spreadsheet.
type SyncWorker struct {
	storage   LedgerSource
	appender  sheets.ContributionAppender
	batchSize int
}

func NewSyncWorker(storage LedgerSource, appender sheets.ContributionAppender, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &SyncWorker{
		storage:   storage,
		appender:  appender,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single contribution sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ContributionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	detail, err := w.storage.ContributionDetail(ctx, msg.ID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			// The record was queued but never landed in storage, nothing
			// to retry. Drop the message.
			slog.WarnContext(ctx, "Contribution not found, dropping message", "id", msg.ID)
			return nil
		}
		return fmt.Errorf("get contribution from storage: %w", err)
	}

	if err := w.exportToSheet(ctx, detail); err != nil {
		return fmt.Errorf("export contribution: %w", err)
	}
	return nil
}

// ProcessPending exports contributions that were never picked up over AMQP.
// This is a backup mechanism in case messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.PendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending contributions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending contributions", "count", len(pending))

	for _, detail := range pending {
		if err := w.exportToSheet(ctx, detail); err != nil {
			slog.ErrorContext(ctx, "Failed to export contribution", "id", detail.ID, "error", err)
			continue
		}
	}
	return nil
}

// StartupSyncCheck drains the pending backlog when the worker boots. Useful
// to recover from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.PendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending contributions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending contributions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending contributions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, detail := range pending {
		if err := w.exportToSheet(ctx, detail); err != nil {
			slog.ErrorContext(ctx, "Failed to export contribution during startup",
				"id", detail.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)
	return nil
}

func (w *SyncWorker) exportToSheet(ctx context.Context, detail storage.ContributionDetail) error {
	entry := sheets.Entry{
		ContributionID: detail.ID,
		MemberName:     detail.MemberName,
		Date:           detail.Date,
		Amount:         core.Money{Cents: detail.AmountCents},
	}

	ref, err := w.appender.Append(ctx, entry)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, detail.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", detail.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, detail.ID); err != nil {
		// The export itself worked, don't fail the message.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", detail.ID, "error", err)
	}

	fields := applog.NewFields().
		WithComponent(applog.ComponentWorker).
		WithOperation(applog.OpSync).
		WithContribution(detail.ID, detail.MemberID, detail.AmountCents, detail.Date)
	fields[applog.FieldSheetsRef] = ref
	slog.InfoContext(ctx, "Exported contribution", fields.ToSlice()...)
	return nil
}
