package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetAuth()
	assert.ErrorIs(t, err, ErrNoAuth)
	assert.ErrorIs(t, db.UpdateTokens("a", "r", time.Now()), ErrNoAuth)

	expires := time.Unix(1717000000, 0)
	require.NoError(t, db.SaveAuth(&Auth{UserID: 42, AccessToken: "access", RefreshToken: "refresh", ExpiresAt: expires}))

	newExpiry := expires.Add(time.Hour)
	require.NoError(t, db.UpdateTokens("access2", "refresh2", newExpiry))

	got, err := db.GetAuth()
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, "access2", got.AccessToken)
	assert.Equal(t, "refresh2", got.RefreshToken)
	assert.True(t, got.ExpiresAt.Equal(newExpiry))
}

func TestSyncState(t *testing.T) {
	db := setupTestDB(t)

	v, err := db.GetSyncState("last_sync")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, db.SetSyncState("last_sync", "2024-05-01T00:00:00Z"))
	require.NoError(t, db.SetSyncState("last_sync", "2024-05-02T00:00:00Z"))

	v, err = db.GetSyncState("last_sync")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02T00:00:00Z", v)
}

func TestSyncTime(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.GetSyncTime("last_result_sync")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	at := time.Date(2024, 5, 2, 8, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	require.NoError(t, db.SetSyncTime("last_result_sync", at))

	raw, err := db.GetSyncState("last_result_sync")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02T06:30:00Z", raw)

	got, err = db.GetSyncTime("last_result_sync")
	require.NoError(t, err)
	assert.True(t, got.Equal(at))

	require.NoError(t, db.SetSyncState("last_result_sync", "yesterday"))
	_, err = db.GetSyncTime("last_result_sync")
	assert.ErrorContains(t, err, "last_result_sync")
}
