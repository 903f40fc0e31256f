// Package oracle provides an in-process randomness oracle. It issues opaque
// request identifiers and later delivers one high-entropy value per request
// by sweeping the pending ledger, standing in for an external randomness
// source in development deployments and tests.
package oracle

import (
	"context"
	crand "crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hollowvale/arenaforge/internal/forge/domain"
	"github.com/hollowvale/arenaforge/internal/forge/storage"
)

// Fulfiller receives oracle deliveries. The forge service implements it.
type Fulfiller interface {
	Fulfill(ctx context.Context, requestID string, randomValue uint64) (domain.Character, error)
}

// Local is an in-process oracle backed by crypto/rand.
type Local struct {
	pending storage.RequestStore
	entropy func() (uint64, error)
	logf    func(format string, args ...any)
}

// NewLocal creates a local oracle that sweeps the given pending ledger.
func NewLocal(pending storage.RequestStore) *Local {
	return &Local{
		pending: pending,
		entropy: randomValue,
		logf:    log.Printf,
	}
}

// Request issues a new opaque request identifier. Identifiers are UUIDv4
// bytes encoded as unpadded lowercase base32, 26 characters long.
func (o *Local) Request(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw := uuid.New()
	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw[:])
	return strings.ToLower(encoded), nil
}

// Deliver runs one sweep: every pending request receives exactly one random
// value. A failed fulfillment is logged and leaves the entry pending so the
// owner's recovery path stays available.
func (o *Local) Deliver(ctx context.Context, f Fulfiller) (int, error) {
	requests, err := o.pending.ListRequests(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pending requests: %w", err)
	}

	delivered := 0
	for _, req := range requests {
		value, err := o.entropy()
		if err != nil {
			return delivered, fmt.Errorf("read oracle entropy: %w", err)
		}
		if _, err := f.Fulfill(ctx, req.RequestID, value); err != nil {
			o.logf("oracle: fulfill %s: %v", req.RequestID, err)
			continue
		}
		delivered++
	}
	return delivered, nil
}

// Run sweeps the pending ledger at the given interval until the context ends.
func (o *Local) Run(ctx context.Context, f Fulfiller, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := o.Deliver(ctx, f); err != nil {
				o.logf("oracle: deliver: %v", err)
			}
		}
	}
}

// randomValue reads a 64-bit value from crypto/rand.
func randomValue() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random value: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
