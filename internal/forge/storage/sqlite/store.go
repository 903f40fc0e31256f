// Package sqlite provides a SQLite-backed forge storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hollowvale/arenaforge/internal/forge/domain"
	"github.com/hollowvale/arenaforge/internal/forge/storage"
	"github.com/hollowvale/arenaforge/internal/forge/storage/sqlite/migrations"
	sqlitemigrate "github.com/hollowvale/arenaforge/internal/platform/storage/sqlitemigrate"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists forge state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// Open opens a SQLite forge store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

const characterColumns = `id, owner, strength, constitution, size, agility, stamina, luck,
	first_name_index, surname_index, alt_name_set, skin_collection, skin_token_id,
	stance, level, xp, attribute_points, weapon_spec, armor_spec, retired, immortal, created_at`

// MintCharacter inserts a new character record and marks the pending request
// that produced it fulfilled, in one transaction. The fulfilled row is kept
// as a ledger entry. The id column is AUTOINCREMENT, so ids are monotonically
// assigned and never reused.
func (s *Store) MintCharacter(ctx context.Context, requestID string, c domain.Character) (domain.Character, error) {
	if err := ctx.Err(); err != nil {
		return domain.Character{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Character{}, fmt.Errorf("storage is not configured")
	}
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return domain.Character{}, fmt.Errorf("request id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Character{}, fmt.Errorf("begin mint transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE pending_requests SET fulfilled = 1 WHERE request_id = ? AND fulfilled = 0`, requestID)
	if err != nil {
		return domain.Character{}, fmt.Errorf("fulfill pending request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Character{}, fmt.Errorf("fulfill pending request: %w", err)
	}
	if affected == 0 {
		return domain.Character{}, storage.ErrNotFound
	}

	res, err = tx.ExecContext(ctx, `INSERT INTO characters (
		   owner, strength, constitution, size, agility, stamina, luck,
		   first_name_index, surname_index, alt_name_set, skin_collection, skin_token_id,
		   stance, level, xp, attribute_points, weapon_spec, armor_spec, retired, immortal, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Owner,
		c.Attributes[domain.Strength],
		c.Attributes[domain.Constitution],
		c.Attributes[domain.Size],
		c.Attributes[domain.Agility],
		c.Attributes[domain.Stamina],
		c.Attributes[domain.Luck],
		c.FirstNameIndex,
		c.SurnameIndex,
		boolToInt(c.AltNameSet),
		c.Skin.Collection,
		c.Skin.TokenID,
		string(c.Stance),
		c.Level,
		int64(c.XP),
		c.AttributePoints,
		c.WeaponSpec,
		c.ArmorSpec,
		boolToInt(c.Retired),
		boolToInt(c.Immortal),
		toMillis(c.CreatedAt),
	)
	if err != nil {
		return domain.Character{}, fmt.Errorf("insert character: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Character{}, fmt.Errorf("read character id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Character{}, fmt.Errorf("commit mint transaction: %w", err)
	}
	c.ID = id
	return c, nil
}

// GetCharacter returns one character by id.
func (s *Store) GetCharacter(ctx context.Context, id int64) (domain.Character, error) {
	if err := ctx.Err(); err != nil {
		return domain.Character{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = ?`, id)
	return scanCharacter(row)
}

// UpdateCharacter rewrites every mutable column of an existing record.
func (s *Store) UpdateCharacter(ctx context.Context, c domain.Character) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `UPDATE characters SET
		   strength = ?, constitution = ?, size = ?, agility = ?, stamina = ?, luck = ?,
		   first_name_index = ?, surname_index = ?,
		   skin_collection = ?, skin_token_id = ?, stance = ?, level = ?, xp = ?,
		   attribute_points = ?, weapon_spec = ?, armor_spec = ?, retired = ?, immortal = ?
		 WHERE id = ?`,
		c.Attributes[domain.Strength],
		c.Attributes[domain.Constitution],
		c.Attributes[domain.Size],
		c.Attributes[domain.Agility],
		c.Attributes[domain.Stamina],
		c.Attributes[domain.Luck],
		c.FirstNameIndex,
		c.SurnameIndex,
		c.Skin.Collection,
		c.Skin.TokenID,
		string(c.Stance),
		c.Level,
		int64(c.XP),
		c.AttributePoints,
		c.WeaponSpec,
		c.ArmorSpec,
		boolToInt(c.Retired),
		boolToInt(c.Immortal),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("update character: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update character: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListCharactersByOwner returns every character the owner holds, oldest first.
func (s *Store) ListCharactersByOwner(ctx context.Context, owner string) ([]domain.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE owner = ? ORDER BY id ASC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var characters []domain.Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		characters = append(characters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	return characters, nil
}

// CountActiveCharacters counts the owner's non-retired characters.
func (s *Store) CountActiveCharacters(ctx context.Context, owner string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var count int
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM characters WHERE owner = ? AND retired = 0`, owner)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count active characters: %w", err)
	}
	return count, nil
}

// PutRequest stores one pending creation request. The unique owner index
// rejects a second live request for the same owner.
func (s *Store) PutRequest(ctx context.Context, req domain.PendingRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	requestID := strings.TrimSpace(req.RequestID)
	owner := strings.TrimSpace(req.Owner)
	if requestID == "" {
		return fmt.Errorf("request id is required")
	}
	if owner == "" {
		return fmt.Errorf("owner is required")
	}
	_, err := s.sqlDB.ExecContext(ctx, `INSERT INTO pending_requests (
		   request_id, owner, alt_name_set, payment_method, fulfilled, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?)`,
		requestID,
		owner,
		boolToInt(req.AltNameSet),
		string(req.PaymentMethod),
		boolToInt(req.Fulfilled),
		toMillis(req.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put pending request: %w", err)
	}
	return nil
}

// GetRequest returns one pending request by request id.
func (s *Store) GetRequest(ctx context.Context, requestID string) (domain.PendingRequest, error) {
	if err := ctx.Err(); err != nil {
		return domain.PendingRequest{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT request_id, owner, alt_name_set, payment_method, fulfilled, created_at
		   FROM pending_requests WHERE request_id = ?`, requestID)
	return scanRequest(row)
}

// GetOwnerRequest returns the owner's live pending request, if any. Fulfilled
// ledger entries are not live.
func (s *Store) GetOwnerRequest(ctx context.Context, owner string) (domain.PendingRequest, error) {
	if err := ctx.Err(); err != nil {
		return domain.PendingRequest{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT request_id, owner, alt_name_set, payment_method, fulfilled, created_at
		   FROM pending_requests WHERE owner = ? AND fulfilled = 0`, owner)
	return scanRequest(row)
}

// DeleteRequest removes one pending request.
func (s *Store) DeleteRequest(ctx context.Context, requestID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM pending_requests WHERE request_id = ?`, requestID)
	if err != nil {
		return fmt.Errorf("delete pending request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete pending request: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListRequests returns every live pending request, oldest first.
func (s *Store) ListRequests(ctx context.Context) ([]domain.PendingRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT request_id, owner, alt_name_set, payment_method, fulfilled, created_at
		   FROM pending_requests WHERE fulfilled = 0 ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.PendingRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	return requests, nil
}

// ExtraSlots returns the owner's purchased slot count beyond the base
// allotment. Unknown owners have zero extra slots.
func (s *Store) ExtraSlots(ctx context.Context, owner string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var extra int
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT extra_slots FROM slot_allowances WHERE owner = ?`, owner)
	if err := row.Scan(&extra); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("read slot allowance: %w", err)
	}
	return extra, nil
}

// SetExtraSlots upserts the owner's purchased slot count.
func (s *Store) SetExtraSlots(ctx context.Context, owner string, extra int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if extra < 0 {
		return fmt.Errorf("extra slots must not be negative")
	}
	_, err := s.sqlDB.ExecContext(ctx, `INSERT INTO slot_allowances (owner, extra_slots)
		 VALUES (?, ?)
		 ON CONFLICT(owner) DO UPDATE SET extra_slots = excluded.extra_slots`,
		owner, extra)
	if err != nil {
		return fmt.Errorf("set slot allowance: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row rowScanner) (domain.Character, error) {
	var c domain.Character
	var altNameSet, retired, immortal int
	var stance string
	var xp, createdAt int64
	err := row.Scan(
		&c.ID,
		&c.Owner,
		&c.Attributes[domain.Strength],
		&c.Attributes[domain.Constitution],
		&c.Attributes[domain.Size],
		&c.Attributes[domain.Agility],
		&c.Attributes[domain.Stamina],
		&c.Attributes[domain.Luck],
		&c.FirstNameIndex,
		&c.SurnameIndex,
		&altNameSet,
		&c.Skin.Collection,
		&c.Skin.TokenID,
		&stance,
		&c.Level,
		&xp,
		&c.AttributePoints,
		&c.WeaponSpec,
		&c.ArmorSpec,
		&retired,
		&immortal,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Character{}, storage.ErrNotFound
		}
		return domain.Character{}, fmt.Errorf("scan character: %w", err)
	}
	c.AltNameSet = altNameSet != 0
	c.Retired = retired != 0
	c.Immortal = immortal != 0
	c.Stance = domain.Stance(stance)
	c.XP = uint64(xp)
	c.CreatedAt = fromMillis(createdAt)
	return c, nil
}

func scanRequest(row rowScanner) (domain.PendingRequest, error) {
	var req domain.PendingRequest
	var altNameSet, fulfilled int
	var method string
	var createdAt int64
	err := row.Scan(&req.RequestID, &req.Owner, &altNameSet, &method, &fulfilled, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PendingRequest{}, storage.ErrNotFound
		}
		return domain.PendingRequest{}, fmt.Errorf("scan pending request: %w", err)
	}
	req.AltNameSet = altNameSet != 0
	req.Fulfilled = fulfilled != 0
	req.PaymentMethod = domain.PaymentMethod(method)
	req.CreatedAt = fromMillis(createdAt)
	return req, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.Store = (*Store)(nil)
