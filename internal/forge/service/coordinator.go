package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/hollowvale/arenaforge/internal/forge/domain"
	"github.com/hollowvale/arenaforge/internal/forge/storage"
	apperrors "github.com/hollowvale/arenaforge/internal/platform/errors"
)

var (
	// ErrTooManyCharacters indicates the owner's active count has reached the slot allowance.
	ErrTooManyCharacters = apperrors.New(apperrors.CodeTooManyCharacters, "too many active characters")
	// ErrRequestAlreadyPending indicates the owner already has a live creation request.
	ErrRequestAlreadyPending = apperrors.New(apperrors.CodeRequestAlreadyPending, "creation request already pending")
	// ErrUnknownRequest indicates the request id does not exist.
	ErrUnknownRequest = apperrors.New(apperrors.CodeUnknownRequest, "unknown creation request")
	// ErrAlreadyFulfilled indicates the request was already fulfilled.
	ErrAlreadyFulfilled = apperrors.New(apperrors.CodeAlreadyFulfilled, "creation request already fulfilled")
	// ErrNoPendingRequest indicates the owner has no live request to recover.
	ErrNoPendingRequest = apperrors.New(apperrors.CodeNoPendingRequest, "no pending creation request")
	// ErrNotTimedOutYet indicates the recovery window has not elapsed.
	ErrNotTimedOutYet = apperrors.New(apperrors.CodeNotTimedOutYet, "creation request not timed out yet")
	// ErrPaymentRequired indicates the payment collaborator rejected the instrument.
	ErrPaymentRequired = apperrors.New(apperrors.CodePaymentRequired, "payment required")
	// ErrSlotAllowanceAtMax indicates no further slots can be purchased.
	ErrSlotAllowanceAtMax = apperrors.New(apperrors.CodeSlotAllowanceAtMax, "slot allowance at maximum")
	// ErrCharacterNotFound indicates the character id does not exist.
	ErrCharacterNotFound = apperrors.New(apperrors.CodeCharacterNotFound, "character not found")
	// ErrNotCharacterOwner indicates the caller does not own the character.
	ErrNotCharacterOwner = apperrors.New(apperrors.CodeNotCharacterOwner, "caller does not own character")
	// ErrInsufficientCharges indicates the payment collaborator had no charge to consume.
	ErrInsufficientCharges = apperrors.New(apperrors.CodeInsufficientCharges, "insufficient charges")
	// ErrSkinNotOwned indicates the skin does not belong to the caller.
	ErrSkinNotOwned = apperrors.New(apperrors.CodeSkinNotOwned, "skin not owned")
)

// Config carries the forge's tunable parameters. The numeric values are
// deployment configuration, not design constants.
type Config struct {
	// PendingTimeout is how long a request must sit unfulfilled before the
	// owner may recover it.
	PendingTimeout time.Duration
	// BaseSlots is the fixed character allotment every owner starts with.
	BaseSlots int
	// SlotBatchSize is how many slots one purchase adds.
	SlotBatchSize int
	// MaxSlots bounds an owner's total allowance.
	MaxSlots int
}

const (
	defaultPendingTimeout = 24 * time.Hour
	defaultBaseSlots      = 1
	defaultSlotBatchSize  = 1
	defaultMaxSlots       = 3
)

func (c Config) withDefaults() Config {
	if c.PendingTimeout <= 0 {
		c.PendingTimeout = defaultPendingTimeout
	}
	if c.BaseSlots <= 0 {
		c.BaseSlots = defaultBaseSlots
	}
	if c.SlotBatchSize <= 0 {
		c.SlotBatchSize = defaultSlotBatchSize
	}
	if c.MaxSlots <= 0 {
		c.MaxSlots = defaultMaxSlots
	}
	if c.MaxSlots < c.BaseSlots {
		c.MaxSlots = c.BaseSlots
	}
	return c
}

// Service turns purchase actions into persisted characters and advances them
// afterwards. Operations are serialized: each one runs to completion before
// the next begins, so fulfillment never interleaves with a request or a
// recovery.
type Service struct {
	mu        sync.Mutex
	store     storage.Store
	oracle    RandomnessOracle
	names     NameRegistry
	equipment EquipmentRegistry
	payments  PaymentLedger
	cfg       Config
	clock     func() time.Time
	tracer    trace.Tracer
}

// New creates a forge service with default clock and tracer.
func New(store storage.Store, oracle RandomnessOracle, names NameRegistry, equipment EquipmentRegistry, payments PaymentLedger, cfg Config) *Service {
	return &Service{
		store:     store,
		oracle:    oracle,
		names:     names,
		equipment: equipment,
		payments:  payments,
		cfg:       cfg.withDefaults(),
		clock:     time.Now,
		tracer:    otel.Tracer("arenaforge/forge"),
	}
}

// Allowance returns the owner's current character slot allowance.
func (s *Service) Allowance(ctx context.Context, owner string) (int, error) {
	extra, err := s.store.ExtraSlots(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("read slot allowance: %w", err)
	}
	allowance := s.cfg.BaseSlots + extra
	if allowance > s.cfg.MaxSlots {
		allowance = s.cfg.MaxSlots
	}
	return allowance, nil
}

// RequestCreation issues a new oracle request for the owner and records it as
// pending. It fails when the owner's active count has consumed the slot
// allowance, when a request is already pending, or when payment cannot be
// confirmed. Nothing is mutated on failure.
func (s *Service) RequestCreation(ctx context.Context, owner string, altNameSet bool, method domain.PaymentMethod) (domain.PendingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, span := s.tracer.Start(ctx, "forge.RequestCreation")
	defer span.End()

	allowance, err := s.Allowance(ctx, owner)
	if err != nil {
		return domain.PendingRequest{}, err
	}
	active, err := s.store.CountActiveCharacters(ctx, owner)
	if err != nil {
		return domain.PendingRequest{}, fmt.Errorf("count active characters: %w", err)
	}
	if active >= allowance {
		return domain.PendingRequest{}, ErrTooManyCharacters
	}

	if _, err := s.store.GetOwnerRequest(ctx, owner); err == nil {
		return domain.PendingRequest{}, ErrRequestAlreadyPending
	} else if !errors.Is(err, storage.ErrNotFound) {
		return domain.PendingRequest{}, fmt.Errorf("check pending request: %w", err)
	}

	// Payment is confirmed only once the oracle has issued an id, so a
	// failed oracle call never consumes the instrument.
	requestID, err := s.oracle.Request(ctx)
	if err != nil {
		return domain.PendingRequest{}, fmt.Errorf("request randomness: %w", err)
	}

	paid, err := s.payments.ConfirmCreationPayment(ctx, owner, method)
	if err != nil {
		return domain.PendingRequest{}, fmt.Errorf("confirm creation payment: %w", err)
	}
	if !paid {
		return domain.PendingRequest{}, ErrPaymentRequired
	}

	req := domain.PendingRequest{
		RequestID:     requestID,
		Owner:         owner,
		AltNameSet:    altNameSet,
		PaymentMethod: method,
		CreatedAt:     s.clock().UTC(),
	}
	if err := s.store.PutRequest(ctx, req); err != nil {
		// The instrument is already consumed but no pending entry exists, so
		// the timeout-recovery refund can never run; compensate here.
		if method == domain.PaymentFee {
			if refundErr := s.payments.RefundCreationFee(ctx, owner); refundErr != nil {
				return domain.PendingRequest{}, fmt.Errorf("store pending request: %v (refund creation fee: %w)", err, refundErr)
			}
		}
		if errors.Is(err, storage.ErrAlreadyExists) {
			return domain.PendingRequest{}, ErrRequestAlreadyPending
		}
		return domain.PendingRequest{}, fmt.Errorf("store pending request: %w", err)
	}
	return req, nil
}

// Fulfill is the oracle's delivery callback. It derives the creation seed
// from the random value, the request id, and the owner identity, allocates
// attributes and name indices, and persists the new character while marking
// the request fulfilled in one atomic step. The slot allowance is re-checked
// because slots may have been consumed since the request was made; on any
// failure the call leaves no partial state behind.
func (s *Service) Fulfill(ctx context.Context, requestID string, randomValue uint64) (domain.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, span := s.tracer.Start(ctx, "forge.Fulfill")
	defer span.End()

	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Character{}, ErrUnknownRequest
		}
		return domain.Character{}, fmt.Errorf("load pending request: %w", err)
	}
	if req.Fulfilled {
		return domain.Character{}, ErrAlreadyFulfilled
	}

	allowance, err := s.Allowance(ctx, req.Owner)
	if err != nil {
		return domain.Character{}, err
	}
	active, err := s.store.CountActiveCharacters(ctx, req.Owner)
	if err != nil {
		return domain.Character{}, fmt.Errorf("count active characters: %w", err)
	}
	if active >= allowance {
		return domain.Character{}, ErrTooManyCharacters
	}

	chain := domain.NewCreationChain(randomValue, req.RequestID, req.Owner)
	attrs := domain.AllocateAttributes(chain)
	firstName := drawIndex(chain, "first-name", s.names.FirstNameCount(req.AltNameSet))
	surname := drawIndex(chain, "surname", s.names.SurnameCount())

	character := domain.NewCharacter(req.Owner, attrs, firstName, surname, req.AltNameSet, s.clock().UTC())
	minted, err := s.store.MintCharacter(ctx, req.RequestID, character)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Character{}, ErrUnknownRequest
		}
		return domain.Character{}, fmt.Errorf("mint character: %w", err)
	}
	return minted, nil
}

// RecoverTimedOut cancels the owner's pending request once the timeout window
// has elapsed and refunds the creation fee on the fee path. A second call
// after a successful recovery fails because the entry is gone.
func (s *Service) RecoverTimedOut(ctx context.Context, owner string) (domain.PendingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, span := s.tracer.Start(ctx, "forge.RecoverTimedOut")
	defer span.End()

	req, err := s.store.GetOwnerRequest(ctx, owner)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.PendingRequest{}, ErrNoPendingRequest
		}
		return domain.PendingRequest{}, fmt.Errorf("load pending request: %w", err)
	}
	if !req.TimedOut(s.clock().UTC(), s.cfg.PendingTimeout) {
		return domain.PendingRequest{}, ErrNotTimedOutYet
	}
	return s.clearPending(ctx, req, req.PaymentMethod == domain.PaymentFee)
}

// ForceClearPending is the operator override for incident recovery: it
// bypasses the timeout check but not the existence check.
func (s *Service) ForceClearPending(ctx context.Context, owner string, refund bool) (domain.PendingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, span := s.tracer.Start(ctx, "forge.ForceClearPending")
	defer span.End()

	req, err := s.store.GetOwnerRequest(ctx, owner)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.PendingRequest{}, ErrNoPendingRequest
		}
		return domain.PendingRequest{}, fmt.Errorf("load pending request: %w", err)
	}
	return s.clearPending(ctx, req, refund && req.PaymentMethod == domain.PaymentFee)
}

func (s *Service) clearPending(ctx context.Context, req domain.PendingRequest, refund bool) (domain.PendingRequest, error) {
	if err := s.store.DeleteRequest(ctx, req.RequestID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.PendingRequest{}, ErrNoPendingRequest
		}
		return domain.PendingRequest{}, fmt.Errorf("delete pending request: %w", err)
	}
	if refund {
		if err := s.payments.RefundCreationFee(ctx, req.Owner); err != nil {
			return domain.PendingRequest{}, fmt.Errorf("refund creation fee: %w", err)
		}
	}
	return req, nil
}

// PendingRequest returns the owner's live request, if any.
func (s *Service) PendingRequest(ctx context.Context, owner string) (domain.PendingRequest, error) {
	req, err := s.store.GetOwnerRequest(ctx, owner)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.PendingRequest{}, ErrNoPendingRequest
		}
		return domain.PendingRequest{}, fmt.Errorf("load pending request: %w", err)
	}
	return req, nil
}

// PurchaseSlots adds purchased slot batches to the owner's allowance, bounded
// by the configured maximum.
func (s *Service) PurchaseSlots(ctx context.Context, owner string, batches int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, span := s.tracer.Start(ctx, "forge.PurchaseSlots")
	defer span.End()

	if batches <= 0 {
		return 0, fmt.Errorf("batches must be positive")
	}
	extra, err := s.store.ExtraSlots(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("read slot allowance: %w", err)
	}
	newExtra := extra + batches*s.cfg.SlotBatchSize
	if s.cfg.BaseSlots+newExtra > s.cfg.MaxSlots {
		return 0, ErrSlotAllowanceAtMax
	}

	paid, err := s.payments.ConfirmSlotPurchase(ctx, owner, batches)
	if err != nil {
		return 0, fmt.Errorf("confirm slot purchase: %w", err)
	}
	if !paid {
		return 0, ErrPaymentRequired
	}

	if err := s.store.SetExtraSlots(ctx, owner, newExtra); err != nil {
		return 0, fmt.Errorf("store slot allowance: %w", err)
	}
	return s.cfg.BaseSlots + newExtra, nil
}

// drawIndex draws a pool index from the chain, treating empty pools as a
// single-entry pool so fulfillment never fails on registry contents.
func drawIndex(chain *domain.SeedChain, tag string, count int) int {
	if count <= 0 {
		return 0
	}
	return chain.Intn(tag, count)
}
