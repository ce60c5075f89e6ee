package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"adledger/internal/app/client/config"
	"adledger/internal/app/client/crypto"
	"adledger/internal/domain/overlay"
	"adledger/internal/domain/record"
	"adledger/internal/domain/sync"
	"adledger/internal/infrastructure/kv"

	"golang.org/x/exp/slog"
)

var (
	ErrNoIdentity       = errors.New("no identity set, connect a wallet first")
	ErrLocked           = errors.New("payload key is locked")
	ErrStoreUnavailable = errors.New("store is not available")
)

const (
	msgSubmitPending = "Encrypting campaign data..."
	msgSubmitOK      = "Encrypted data submitted securely!"
	msgSubmitFail    = "Submission failed: "
	msgVerifyPending = "Performing verification..."
	msgVerifyOK      = "Verification completed successfully!"
	msgVerifyFail    = "Verification failed: "
	msgRejectPending = "Rejecting record..."
	msgRejectOK      = "Record rejected"
	msgRejectFail    = "Rejection failed: "
)

// PayloadSealer is the encryption boundary: the ledger only ever sees its
// output.
type PayloadSealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// App composes the ledger for one client. Snapshot, overlay and draft are
// separate state containers with their own lifecycles.
type App struct {
	config  *config.Config
	log     *slog.Logger
	store   kv.Store
	index   *record.Index
	records *record.Repository
	syncer  *sync.Service

	snapshot *SnapshotState
	overlay  *overlay.Overlay
	draft    *Draft

	mu        gosync.RWMutex
	identity  string
	sealer    PayloadSealer
	refreshMu gosync.Mutex
	now       func() time.Time
}

// New opens the store selected by cfg.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithStore(cfg, store, log), nil
}

func NewWithStore(cfg *config.Config, store kv.Store, log *slog.Logger) *App {
	index := record.NewIndex(store, log, record.WithVerifiedAppend(cfg.IndexVerifyRetries))

	var repoOpts []record.RepositoryOption
	if cfg.CheckIDCollisions {
		repoOpts = append(repoOpts, record.WithCollisionCheck())
	}
	records := record.NewRepository(store, index, log, repoOpts...)

	return &App{
		config:   cfg,
		log:      log.With("component", "client_app"),
		store:    store,
		index:    index,
		records:  records,
		syncer:   sync.NewService(index, records, log),
		snapshot: &SnapshotState{},
		overlay:  overlay.New(overlay.WithDelays(cfg.OverlaySuccessDelay, cfg.OverlayErrorDelay)),
		draft:    &Draft{},
		identity: cfg.Identity,
		now:      time.Now,
	}
}

func openStore(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverHTTP:
		return kv.NewHTTPStore(cfg.ServerAddress, cfg.EnableTLS, cfg.RequestTimeout), nil
	case config.DriverS3:
		s, err := kv.NewS3Store(ctx, kv.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("open s3 store: %w", err)
		}
		return s, nil
	case config.DriverMemory:
		return kv.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func (a *App) Config() *config.Config    { return a.config }
func (a *App) Overlay() *overlay.Overlay { return a.overlay }
func (a *App) Draft() *Draft             { return a.draft }
func (a *App) Snapshot() sync.Snapshot   { return a.snapshot.Get() }

func (a *App) SetIdentity(identity string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.identity = identity
}

func (a *App) Identity() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.identity
}

// Unlock derives the payload key from passphrase and enables sealing.
func (a *App) Unlock(passphrase []byte) error {
	key, err := crypto.UnlockKey(a.config.KeyPath, passphrase)
	if err != nil {
		return err
	}
	defer crypto.ClearMemory(key)

	sealer, err := crypto.NewSealer(key)
	if err != nil {
		return err
	}
	a.SetSealer(sealer)
	return nil
}

func (a *App) SetSealer(s PayloadSealer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sealer = s
}

func (a *App) currentSealer() PayloadSealer {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sealer
}

// CheckAvailability pings the store before loading.
func (a *App) CheckAvailability(ctx context.Context) error {
	if err := kv.Ping(ctx, a.store); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Refresh reloads every indexed record and replaces the snapshot.
func (a *App) Refresh(ctx context.Context) (sync.Snapshot, error) {
	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()

	if err := a.CheckAvailability(ctx); err != nil {
		a.log.Warn("store unavailable, keeping previous snapshot", "error", err)
		return a.snapshot.Get(), err
	}

	snap := a.syncer.Reload(ctx)
	a.snapshot.Replace(snap)
	return snap, nil
}

// IndexIDs returns the raw id list as currently stored.
func (a *App) IndexIDs(ctx context.Context) []string {
	return a.index.ListIDs(ctx)
}

// Get reads one record directly by key, indexed or not.
func (a *App) Get(ctx context.Context, id string) (*record.Record, error) {
	return a.records.Fetch(ctx, id)
}

// Submit seals the current draft and creates a pending record owned by the
// current identity.
func (a *App) Submit(ctx context.Context) (*record.Record, error) {
	identity := a.Identity()
	if identity == "" {
		return nil, ErrNoIdentity
	}
	sealer := a.currentSealer()
	if sealer == nil {
		return nil, ErrLocked
	}

	data := a.draft.Get()
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", record.ErrInvalidData, err)
	}

	op := a.overlay.Begin(msgSubmitPending)

	rec, err := a.create(ctx, sealer, identity, data)
	if err != nil {
		op.Fail(msgSubmitFail + userMessage(err))
		return nil, err
	}

	op.Succeed(msgSubmitOK)
	a.draft.Reset()
	a.refreshAfterMutation(ctx)
	return rec, nil
}

func (a *App) create(ctx context.Context, sealer PayloadSealer, identity string, data DraftData) (*record.Record, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}
	payload, err := sealer.Seal(plaintext)
	if err != nil {
		return nil, fmt.Errorf("seal payload: %w", err)
	}

	now := a.now()
	rec := record.New(record.NewID(now), identity, data.Category, data.CampaignID, payload, data.Metrics(), now.Unix())
	if err := a.records.Create(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (a *App) Verify(ctx context.Context, id string) (*record.Record, error) {
	return a.changeStatus(ctx, id, record.StatusVerified, msgVerifyPending, msgVerifyOK, msgVerifyFail)
}

func (a *App) Reject(ctx context.Context, id string) (*record.Record, error) {
	return a.changeStatus(ctx, id, record.StatusRejected, msgRejectPending, msgRejectOK, msgRejectFail)
}

func (a *App) changeStatus(ctx context.Context, id string, target record.Status, pending, ok, failPrefix string) (*record.Record, error) {
	identity := a.Identity()
	if identity == "" {
		return nil, ErrNoIdentity
	}

	op := a.overlay.Begin(pending)

	rec, err := a.records.UpdateStatus(ctx, id, target, identity)
	if err != nil {
		op.Fail(failPrefix + userMessage(err))
		return nil, err
	}

	op.Succeed(ok)
	a.refreshAfterMutation(ctx)
	return rec, nil
}

// Open unseals a record payload back into the draft it was created from.
func (a *App) Open(rec record.Record) (DraftData, error) {
	sealer := a.currentSealer()
	if sealer == nil {
		return DraftData{}, ErrLocked
	}

	plaintext, err := sealer.Open(rec.Payload)
	if err != nil {
		return DraftData{}, err
	}

	var data DraftData
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return DraftData{}, fmt.Errorf("decode payload: %w", err)
	}
	return data, nil
}

func (a *App) refreshAfterMutation(ctx context.Context) {
	if _, err := a.Refresh(ctx); err != nil {
		a.log.Warn("refresh after mutation failed", "error", err)
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, record.ErrNotFound):
		return "Record not found"
	case errors.Is(err, record.ErrUnauthorized):
		return record.ErrUnauthorized.Error()
	case errors.Is(err, record.ErrInvalidTransition):
		return err.Error()
	case errors.Is(err, kv.ErrStore):
		return "store unavailable, the change may or may not have been applied"
	default:
		return err.Error()
	}
}
