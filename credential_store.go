package spaces

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Credential is the persisted token slot. One row per slot key; the module
// only ever uses a single slot, so at most one token exists at a time.
type Credential struct {
	bun.BaseModel `bun:"table:credentials,alias:cred"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Slot          string     `bun:"slot,notnull,unique" json:"slot,omitempty"`
	Token         string     `bun:"token,notnull" json:"token,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

var _ TokenStore = (*CredentialStore)(nil)

// CredentialStore is the durable TokenStore, backed by Bun over SQLite. It
// is the desktop/CLI analog of the browser's localStorage token slot.
type CredentialStore struct {
	db     *bun.DB
	slot   string
	id     uuid.UUID
	logger Logger
}

// CredentialStoreOption customizes store construction.
type CredentialStoreOption func(*CredentialStore)

// WithCredentialSlot overrides the storage slot key.
func WithCredentialSlot(slot string) CredentialStoreOption {
	return func(s *CredentialStore) {
		if slot != "" {
			s.slot = slot
		}
	}
}

// WithCredentialLogger overrides the logger.
func WithCredentialLogger(logger Logger) CredentialStoreOption {
	return func(s *CredentialStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewCredentialStore returns a TokenStore persisting to the given database.
// The row id is derived deterministically from the slot key so repeated
// saves address the same record.
func NewCredentialStore(db *bun.DB, opts ...CredentialStoreOption) *CredentialStore {
	store := &CredentialStore{
		db:     db,
		slot:   DefaultStorageKey,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}

	if id, err := hashid.NewUUID(store.slot); err == nil {
		store.id = id
	} else {
		store.id = uuid.New()
	}

	return store
}

// Init creates the credentials table when it does not exist yet.
func (s *CredentialStore) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*Credential)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// Save implements TokenStore, replacing any previous token in the slot.
func (s *CredentialStore) Save(ctx context.Context, token string) error {
	now := time.Now()
	cred := &Credential{
		ID:        s.id,
		Slot:      s.slot,
		Token:     token,
		CreatedAt: &now,
		UpdatedAt: &now,
	}

	_, err := s.db.NewInsert().
		Model(cred).
		On("CONFLICT (slot) DO UPDATE").
		Set("token = EXCLUDED.token").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// Read implements TokenStore.
func (s *CredentialStore) Read(ctx context.Context) (string, error) {
	cred := &Credential{}
	err := s.db.NewSelect().
		Model(cred).
		Where("slot = ?", s.slot).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTokenNotFound
		}
		return "", err
	}
	return cred.Token, nil
}

// Clear implements TokenStore. Clearing an empty slot is a no-op.
func (s *CredentialStore) Clear(ctx context.Context) error {
	_, err := s.db.NewDelete().
		Model((*Credential)(nil)).
		Where("slot = ?", s.slot).
		Exec(ctx)
	return err
}
