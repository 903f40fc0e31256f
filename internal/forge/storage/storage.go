// Package storage defines persistence contracts for forge service state.
package storage

import (
	"context"
	"errors"

	"github.com/hollowvale/arenaforge/internal/forge/domain"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// CharacterStore persists character records and the owner index.
type CharacterStore interface {
	// MintCharacter inserts the character at the next unused id and marks
	// the pending request that produced it fulfilled, atomically. It fails
	// with ErrNotFound when no unfulfilled request exists under the id.
	MintCharacter(ctx context.Context, requestID string, c domain.Character) (domain.Character, error)
	GetCharacter(ctx context.Context, id int64) (domain.Character, error)
	UpdateCharacter(ctx context.Context, c domain.Character) error
	ListCharactersByOwner(ctx context.Context, owner string) ([]domain.Character, error)
	// CountActiveCharacters counts the owner's non-retired characters.
	CountActiveCharacters(ctx context.Context, owner string) (int, error)
}

// RequestStore persists creation requests, keyed by request id. Fulfilled
// requests are kept as ledger entries; an owner may hold at most one live
// (unfulfilled) request.
type RequestStore interface {
	// PutRequest stores a pending request. It fails with ErrAlreadyExists
	// when the owner already has a live request.
	PutRequest(ctx context.Context, req domain.PendingRequest) error
	GetRequest(ctx context.Context, requestID string) (domain.PendingRequest, error)
	// GetOwnerRequest returns the owner's live request, if any.
	GetOwnerRequest(ctx context.Context, owner string) (domain.PendingRequest, error)
	DeleteRequest(ctx context.Context, requestID string) error
	// ListRequests returns every live request, oldest first.
	ListRequests(ctx context.Context) ([]domain.PendingRequest, error)
}

// AllowanceStore persists per-owner purchased slot counts beyond the base
// allotment.
type AllowanceStore interface {
	ExtraSlots(ctx context.Context, owner string) (int, error)
	SetExtraSlots(ctx context.Context, owner string, extra int) error
}

// Store is the full persistence surface the forge service depends on.
type Store interface {
	CharacterStore
	RequestStore
	AllowanceStore
}
