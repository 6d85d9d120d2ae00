//go:build integration

package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests require a running PostgreSQL database.
// Set TEST_DATABASE_URL environment variable to run them.

func setupTestStore(t *testing.T) *PostgresStore {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	s, err := ConnectPostgres(context.Background(), dsn, nil)
	require.NoError(t, err)
	_, _ = s.pool.Exec(context.Background(), "DELETE FROM extension_storage")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestIntegration_PostgresStore_GetSet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, KeyUserData)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, KeyUserData, []byte(ashaJSON)))
	require.NoError(t, s.Set(ctx, KeyUserData, []byte(`{"name":"Bala","email":"b@example.com"}`)))

	got, err := s.Get(ctx, KeyUserData)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Bala","email":"b@example.com"}`, string(got))
}

func TestIntegration_PostgresStore_Watch(t *testing.T) {
	s := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	changes, err := s.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, KeyResumeData, []byte(resumeJSON)))
	select {
	case c := <-changes:
		assert.Equal(t, Change{Key: KeyResumeData}, c)
	case <-time.After(5 * time.Second):
		t.Fatal("no notification received")
	}

	cancel()
	for range changes {
	}
}

func TestIntegration_PostgresStore_LoadSnapshot(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, SaveRecord(ctx, s, KeyUserData, []byte(ashaJSON)))
	require.NoError(t, SaveRecord(ctx, s, KeyResumeData, []byte(resumeJSON)))

	snap, err := LoadSnapshot(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", snap.Profile.Name)
	assert.Equal(t, "Acme", snap.Resume.Experience[0].Company)
}
