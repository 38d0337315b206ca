package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, ttl), mr
}

func TestStoreCreateAndGetRoundtrip(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	department := uint(7)
	snapshot := Snapshot{
		EmployeeID:     42,
		EmployeeNumber: "EMP-0042",
		FirstName:      "Juan",
		LastName:       "Dela Cruz",
		Email:          "juan@lpu.edu.ph",
		DepartmentID:   &department,
		IsAdmin:        true,
	}

	id, err := store.Create(context.Background(), snapshot)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, snapshot, got)
}

func TestStoreGetSlidesExpiry(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)

	id, err := store.Create(context.Background(), Snapshot{EmployeeID: 1})
	require.NoError(t, err)

	mr.FastForward(30 * time.Minute)
	_, err = store.Get(context.Background(), id)
	require.NoError(t, err)

	// The read above reset the TTL, so another 45 minutes still leaves the
	// session alive even though the original hour has passed.
	mr.FastForward(45 * time.Minute)
	_, err = store.Get(context.Background(), id)
	require.NoError(t, err)
}

func TestStoreGetExpiredSession(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)

	id, err := store.Create(context.Background(), Snapshot{EmployeeID: 1})
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(context.Background(), id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreGetUnknownID(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(context.Background(), "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreSaveOverwritesSnapshot(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	id, err := store.Create(context.Background(), Snapshot{EmployeeID: 1, Honorifics: "Dr."})
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), id, Snapshot{EmployeeID: 1, Honorifics: "Prof."}))

	got, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "Prof.", got.Honorifics)

	require.ErrorIs(t, store.Save(context.Background(), "", Snapshot{}), ErrNotFound)
}

func TestStoreDestroy(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	id, err := store.Create(context.Background(), Snapshot{EmployeeID: 1})
	require.NoError(t, err)

	require.NoError(t, store.Destroy(context.Background(), id))
	_, err = store.Get(context.Background(), id)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Destroy(context.Background(), "unknown"))
	require.NoError(t, store.Destroy(context.Background(), ""))
}

func TestStoreDefaultTTL(t *testing.T) {
	store, _ := newTestStore(t, 0)
	require.Equal(t, 12*time.Hour, store.TTL())
}
