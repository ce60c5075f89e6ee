package record

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func newTestRepository(store Store, opts ...RepositoryOption) (*Repository, *Index) {
	idx := NewIndex(store, slog.Default())
	return NewRepository(store, idx, slog.Default(), opts...), idx
}

func sampleRecord(id, owner string) Record {
	return New(id, owner, "Search", "C1", []byte("sealed"), Metrics{Impressions: 100}, 1700000000)
}

func TestRepository_CreateFetch(t *testing.T) {
	ctx := context.Background()
	repo, idx := newTestRepository(newFaultStore())
	rec := sampleRecord("R1", "0xA")

	require.NoError(t, repo.Create(ctx, rec))

	assert.Equal(t, []string{"R1"}, idx.ListIDs(ctx))
	got, err := repo.Fetch(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, rec, *got)
}

func TestRepository_CreateRejectsEmptyID(t *testing.T) {
	repo, _ := newTestRepository(newFaultStore())

	err := repo.Create(context.Background(), sampleRecord("", "0xA"))

	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestRepository_CreateRecordWriteFails(t *testing.T) {
	ctx := context.Background()
	store := newFaultStore()
	store.setErr[Key("R1")] = errUnreachable
	repo, idx := newTestRepository(store)

	err := repo.Create(ctx, sampleRecord("R1", "0xA"))

	assert.ErrorIs(t, err, errUnreachable)
	assert.NotErrorIs(t, err, ErrIndexAppend)
	assert.Empty(t, idx.ListIDs(ctx))
}

func TestRepository_CreateIndexFailureLeavesOrphan(t *testing.T) {
	ctx := context.Background()
	store := newFaultStore()
	store.setErr[IndexKey] = errUnreachable
	repo, idx := newTestRepository(store)

	err := repo.Create(ctx, sampleRecord("R1", "0xA"))

	assert.ErrorIs(t, err, ErrIndexAppend)
	assert.Empty(t, idx.ListIDs(ctx))

	got, err := repo.Fetch(ctx, "R1")
	require.NoError(t, err, "record is reachable by direct key")
	assert.Equal(t, "R1", got.ID)
}

func TestRepository_CollisionCheck(t *testing.T) {
	ctx := context.Background()
	store := newFaultStore()

	blind, _ := newTestRepository(store)
	require.NoError(t, blind.Create(ctx, sampleRecord("R1", "0xA")))
	require.NoError(t, blind.Create(ctx, sampleRecord("R1", "0xB")), "collision-blind create overwrites")

	checked, _ := newTestRepository(store, WithCollisionCheck())
	err := checked.Create(ctx, sampleRecord("R1", "0xC"))
	assert.ErrorIs(t, err, ErrAlreadyExists)

	got, err := checked.Fetch(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, "0xB", got.Owner)
}

func TestRepository_Fetch(t *testing.T) {
	tests := []struct {
		name    string
		stored  []byte
		getErr  error
		wantErr error
	}{
		{name: "absent", wantErr: ErrNotFound},
		{name: "undecodable", stored: []byte("{broken"), wantErr: ErrDecode},
		{name: "store failure", getErr: errUnreachable, wantErr: errUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newFaultStore()
			if tt.stored != nil {
				require.NoError(t, store.MemoryStore.Set(ctx, Key("R1"), tt.stored))
			}
			if tt.getErr != nil {
				store.getErr[Key("R1")] = tt.getErr
			}
			repo, _ := newTestRepository(store)

			got, err := repo.Fetch(ctx, "R1")

			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRepository_FetchUsesKeyAsID(t *testing.T) {
	ctx := context.Background()
	store := newFaultStore()
	require.NoError(t, store.MemoryStore.Set(ctx, Key("R9"), []byte(`{"owner":"0xA","timestamp":5}`)))
	repo, _ := newTestRepository(store)

	got, err := repo.Fetch(ctx, "R9")

	require.NoError(t, err)
	assert.Equal(t, "R9", got.ID)
	assert.Equal(t, StatusPending, got.Status)
}

func TestRepository_UpdateStatusNotFound(t *testing.T) {
	repo, _ := newTestRepository(newFaultStore())

	_, err := repo.UpdateStatus(context.Background(), "nope", StatusVerified, "0xA")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_UpdateStatusTerminal(t *testing.T) {
	for _, from := range []Status{StatusVerified, StatusRejected} {
		for _, target := range []Status{StatusPending, StatusVerified, StatusRejected} {
			t.Run(string(from)+"->"+string(target), func(t *testing.T) {
				ctx := context.Background()
				store := newFaultStore()
				repo, _ := newTestRepository(store)
				rec := sampleRecord("R1", "0xA")
				rec.Status = from
				require.NoError(t, repo.Create(ctx, rec))
				writes := store.setCount(Key("R1"))

				_, err := repo.UpdateStatus(ctx, "R1", target, "0xA")

				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, writes, store.setCount(Key("R1")))
			})
		}
	}
}

func TestRepository_UpdateStatusOwnership(t *testing.T) {
	tests := []struct {
		name      string
		owner     string
		requester string
		wantErr   error
	}{
		{name: "same case", owner: "0xA", requester: "0xA"},
		{name: "requester lower", owner: "0xABC", requester: "0xabc"},
		{name: "requester upper", owner: "0xabc", requester: "0XABC"},
		{name: "mixed", owner: "0xAbC", requester: "0xaBc"},
		{name: "different", owner: "0xA", requester: "0xB", wantErr: ErrUnauthorized},
		{name: "different length", owner: "0xA", requester: "0xAA", wantErr: ErrUnauthorized},
		{name: "empty", owner: "0xA", requester: "", wantErr: ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo, _ := newTestRepository(newFaultStore())
			require.NoError(t, repo.Create(ctx, sampleRecord("R1", tt.owner)))

			got, err := repo.UpdateStatus(ctx, "R1", StatusVerified, tt.requester)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				stored, ferr := repo.Fetch(ctx, "R1")
				require.NoError(t, ferr)
				assert.Equal(t, StatusPending, stored.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatusVerified, got.Status)
		})
	}
}

func TestRepository_UpdateStatusWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := newFaultStore()
	repo, _ := newTestRepository(store)
	require.NoError(t, repo.Create(ctx, sampleRecord("R1", "0xA")))
	store.setErr[Key("R1")] = errUnreachable

	_, err := repo.UpdateStatus(ctx, "R1", StatusVerified, "0xA")

	assert.ErrorIs(t, err, errUnreachable)
}

// The store does not enforce ownership: a raw write bypasses the state
// machine entirely.
func TestRepository_OwnershipIsNotEnforcedByStore(t *testing.T) {
	ctx := context.Background()
	store := newFaultStore()
	repo, _ := newTestRepository(store)
	require.NoError(t, repo.Create(ctx, sampleRecord("R1", "0xA")))

	forged := sampleRecord("R1", "0xA")
	forged.Status = StatusRejected
	data, err := Encode(forged)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, Key("R1"), data))

	got, err := repo.Fetch(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got.Status)
}

func TestLedger_OwnerVerifiesThenRejectFails(t *testing.T) {
	ctx := context.Background()
	repo, idx := newTestRepository(newFaultStore())
	r1 := New("R1", "0xA", "Search", "C1", []byte("sealed"), Metrics{Impressions: 100}, 1700000000)

	require.NoError(t, repo.Create(ctx, r1))
	assert.Equal(t, []string{"R1"}, idx.ListIDs(ctx))

	fetched, err := repo.Fetch(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, fetched.Status)

	verified, err := repo.UpdateStatus(ctx, "R1", StatusVerified, "0xA")
	require.NoError(t, err)
	assert.Equal(t, StatusVerified, verified.Status)

	_, err = repo.UpdateStatus(ctx, "R1", StatusRejected, "0xA")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLedger_NonOwnerCannotVerify(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(newFaultStore())
	require.NoError(t, repo.Create(ctx, sampleRecord("R1", "0xA")))

	_, err := repo.UpdateStatus(ctx, "R1", StatusVerified, "0xB")
	assert.ErrorIs(t, err, ErrUnauthorized)

	fetched, err := repo.Fetch(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, fetched.Status)
}

func TestRepository_UpdateStatusKeepsForeignFields(t *testing.T) {
	ctx := context.Background()
	store := newFaultStore()
	stored := `{"data":"c2VhbGVk","timestamp":1,"owner":"0xA","status":"pending","note":"kept by other clients"}`
	require.NoError(t, store.MemoryStore.Set(ctx, Key("R1"), []byte(stored)))
	repo, _ := newTestRepository(store)

	got, err := repo.UpdateStatus(ctx, "R1", StatusVerified, "0xa")

	require.NoError(t, err)
	assert.Equal(t, StatusVerified, got.Status)

	raw, err := store.MemoryStore.Get(ctx, Key("R1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":"c2VhbGVk","timestamp":1,"owner":"0xA","status":"verified","note":"kept by other clients"}`, string(raw))
}

func TestRepository_UpdateStatusWebClientRecord(t *testing.T) {
	ctx := context.Background()
	store := newFaultStore()
	stored := `{"data":"FHE-eyJjYXRlZ29yeSI6IlNlYXJjaCJ9","timestamp":1700000000,"owner":"0xAbC","category":"Search","status":"pending","campaignId":"C1","impressions":100,"clicks":0,"conversions":0,"spend":0}`
	require.NoError(t, store.MemoryStore.Set(ctx, Key("R1"), []byte(stored)))
	repo, _ := newTestRepository(store)

	_, err := repo.UpdateStatus(ctx, "R1", StatusRejected, "0xabc")
	require.NoError(t, err)

	got, err := repo.Fetch(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got.Status)
	assert.Equal(t, []byte("FHE-eyJjYXRlZ29yeSI6IlNlYXJjaCJ9"), got.Payload)
}
