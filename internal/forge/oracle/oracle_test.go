package oracle

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/hollowvale/arenaforge/internal/forge/domain"
	"github.com/hollowvale/arenaforge/internal/forge/storage"
)

type memoryLedger struct {
	requests map[string]domain.PendingRequest
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{requests: map[string]domain.PendingRequest{}}
}

func (m *memoryLedger) PutRequest(_ context.Context, req domain.PendingRequest) error {
	if _, ok := m.requests[req.RequestID]; ok {
		return storage.ErrAlreadyExists
	}
	m.requests[req.RequestID] = req
	return nil
}

func (m *memoryLedger) GetRequest(_ context.Context, requestID string) (domain.PendingRequest, error) {
	req, ok := m.requests[requestID]
	if !ok {
		return domain.PendingRequest{}, storage.ErrNotFound
	}
	return req, nil
}

func (m *memoryLedger) GetOwnerRequest(_ context.Context, owner string) (domain.PendingRequest, error) {
	for _, req := range m.requests {
		if req.Owner == owner {
			return req, nil
		}
	}
	return domain.PendingRequest{}, storage.ErrNotFound
}

func (m *memoryLedger) DeleteRequest(_ context.Context, requestID string) error {
	if _, ok := m.requests[requestID]; !ok {
		return storage.ErrNotFound
	}
	delete(m.requests, requestID)
	return nil
}

func (m *memoryLedger) ListRequests(context.Context) ([]domain.PendingRequest, error) {
	var out []domain.PendingRequest
	for _, req := range m.requests {
		out = append(out, req)
	}
	return out, nil
}

type recordingFulfiller struct {
	values map[string]uint64
	fail   map[string]error
}

func (r *recordingFulfiller) Fulfill(_ context.Context, requestID string, randomValue uint64) (domain.Character, error) {
	if err := r.fail[requestID]; err != nil {
		return domain.Character{}, err
	}
	if r.values == nil {
		r.values = map[string]uint64{}
	}
	r.values[requestID] = randomValue
	return domain.Character{ID: 1}, nil
}

var requestIDPattern = regexp.MustCompile(`^[a-z2-7]{26}$`)

func TestRequestIDFormat(t *testing.T) {
	oracle := NewLocal(newMemoryLedger())

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := oracle.Request(context.Background())
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if !requestIDPattern.MatchString(id) {
			t.Fatalf("request id %q does not match %v", id, requestIDPattern)
		}
		if seen[id] {
			t.Fatalf("request id %q issued twice", id)
		}
		seen[id] = true
	}
}

func TestRequestHonorsContext(t *testing.T) {
	oracle := NewLocal(newMemoryLedger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := oracle.Request(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("request error = %v, want %v", err, context.Canceled)
	}
}

func TestDeliverSweepsPendingLedger(t *testing.T) {
	ledger := newMemoryLedger()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for _, id := range []string{"req-a", "req-b"} {
		err := ledger.PutRequest(context.Background(), domain.PendingRequest{
			RequestID: id, Owner: "owner-" + id, CreatedAt: now,
		})
		if err != nil {
			t.Fatalf("seed request %s: %v", id, err)
		}
	}

	oracle := NewLocal(ledger)
	var next uint64 = 100
	oracle.entropy = func() (uint64, error) {
		next++
		return next, nil
	}
	oracle.logf = t.Logf

	fulfiller := &recordingFulfiller{}
	delivered, err := oracle.Deliver(context.Background(), fulfiller)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if delivered != 2 {
		t.Fatalf("delivered = %d, want 2", delivered)
	}
	if len(fulfiller.values) != 2 {
		t.Fatalf("fulfilled values = %v, want 2 entries", fulfiller.values)
	}
	if fulfiller.values["req-a"] == fulfiller.values["req-b"] {
		t.Fatal("both requests received the same random value")
	}
}

func TestDeliverLeavesFailedEntriesPending(t *testing.T) {
	ledger := newMemoryLedger()
	err := ledger.PutRequest(context.Background(), domain.PendingRequest{
		RequestID: "req-a", Owner: "owner-a", CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed request: %v", err)
	}

	oracle := NewLocal(ledger)
	oracle.entropy = func() (uint64, error) { return 7, nil }
	logged := 0
	oracle.logf = func(string, ...any) { logged++ }

	fulfiller := &recordingFulfiller{
		fail: map[string]error{"req-a": errors.New("allowance consumed")},
	}
	delivered, err := oracle.Deliver(context.Background(), fulfiller)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if delivered != 0 {
		t.Fatalf("delivered = %d, want 0", delivered)
	}
	if logged != 1 {
		t.Fatalf("logged failures = %d, want 1", logged)
	}
	if _, err := ledger.GetRequest(context.Background(), "req-a"); err != nil {
		t.Fatalf("failed delivery removed the pending entry: %v", err)
	}
}

func TestDeliverStopsOnEntropyFailure(t *testing.T) {
	ledger := newMemoryLedger()
	err := ledger.PutRequest(context.Background(), domain.PendingRequest{
		RequestID: "req-a", Owner: "owner-a", CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed request: %v", err)
	}

	oracle := NewLocal(ledger)
	oracle.entropy = func() (uint64, error) { return 0, errors.New("entropy exhausted") }
	oracle.logf = t.Logf

	if _, err := oracle.Deliver(context.Background(), &recordingFulfiller{}); err == nil {
		t.Fatal("expected entropy failure to surface")
	}
}
