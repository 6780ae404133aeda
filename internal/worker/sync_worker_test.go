package worker

import (
	"context"
	"errors"
	"testing"

	"savings/internal/amqp"
	"savings/internal/ledger"
	"savings/internal/sheets"
	"savings/internal/sheets/memory"
	"savings/internal/storage"
)

type fakeSource struct {
	details map[string]storage.ContributionDetail
	synced  []string
	failed  []string
}

func newFakeSource(details ...storage.ContributionDetail) *fakeSource {
	s := &fakeSource{details: make(map[string]storage.ContributionDetail)}
	for _, d := range details {
		s.details[d.ID] = d
	}
	return s
}

func (s *fakeSource) PendingSync(_ context.Context, limit int) ([]storage.ContributionDetail, error) {
	var out []storage.ContributionDetail
	for _, d := range s.details {
		if contains(s.synced, d.ID) || contains(s.failed, d.ID) {
			continue
		}
		out = append(out, d)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *fakeSource) ContributionDetail(_ context.Context, id string) (storage.ContributionDetail, error) {
	d, ok := s.details[id]
	if !ok {
		return storage.ContributionDetail{}, ledger.ErrNotFound
	}
	return d, nil
}

func (s *fakeSource) MarkSynced(_ context.Context, id string) error {
	s.synced = append(s.synced, id)
	return nil
}

func (s *fakeSource) MarkSyncError(_ context.Context, id string) error {
	s.failed = append(s.failed, id)
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

type failingAppender struct{}

func (failingAppender) Append(context.Context, sheets.Entry) (string, error) {
	return "", errors.New("sheet unavailable")
}

func TestHandleSyncMessage(t *testing.T) {
	source := newFakeSource(storage.ContributionDetail{
		ID: "c1", MemberID: "m1", MemberName: "Ann", AmountCents: 10000, Date: "2025-01-01",
	})
	sink := memory.New()
	w := NewSyncWorker(source, sink, 10)

	if err := w.HandleSyncMessage(context.Background(), amqp.NewContributionSyncMessage("c1")); err != nil {
		t.Fatalf("handle: %v", err)
	}

	entries := sink.Entries()
	if len(entries) != 1 || entries[0].ContributionID != "c1" || entries[0].MemberName != "Ann" {
		t.Fatalf("exported entries = %+v", entries)
	}
	if !contains(source.synced, "c1") {
		t.Error("contribution should be marked synced")
	}
}

func TestHandleSyncMessageUnknownIDIsDropped(t *testing.T) {
	source := newFakeSource()
	w := NewSyncWorker(source, memory.New(), 10)

	if err := w.HandleSyncMessage(context.Background(), amqp.NewContributionSyncMessage("ghost")); err != nil {
		t.Fatalf("unknown id should not error (message must not requeue forever): %v", err)
	}
}

func TestHandleSyncMessageAppendFailure(t *testing.T) {
	source := newFakeSource(storage.ContributionDetail{
		ID: "c1", MemberName: "Ann", AmountCents: 100, Date: "2025-01-01",
	})
	w := NewSyncWorker(source, failingAppender{}, 10)

	if err := w.HandleSyncMessage(context.Background(), amqp.NewContributionSyncMessage("c1")); err == nil {
		t.Fatal("expected error when appender fails")
	}
	if !contains(source.failed, "c1") {
		t.Error("contribution should be marked with sync error")
	}
}

func TestStartupSyncCheck(t *testing.T) {
	source := newFakeSource(
		storage.ContributionDetail{ID: "c1", MemberName: "Ann", AmountCents: 100, Date: "2025-01-01"},
		storage.ContributionDetail{ID: "c2", MemberName: "Bo", AmountCents: 200, Date: "2025-01-02"},
	)
	sink := memory.New()
	w := NewSyncWorker(source, sink, 10)

	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatalf("startup sync: %v", err)
	}
	if len(sink.Entries()) != 2 {
		t.Fatalf("expected 2 exported entries, got %d", len(sink.Entries()))
	}
	if len(source.synced) != 2 {
		t.Fatalf("expected 2 synced marks, got %v", source.synced)
	}
}

func TestProcessPendingEmptyBacklog(t *testing.T) {
	w := NewSyncWorker(newFakeSource(), memory.New(), 10)
	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("empty backlog should be a no-op: %v", err)
	}
}
