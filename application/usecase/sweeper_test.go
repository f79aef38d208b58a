package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/halfmoon/halfmoon/domain/entity"
)

func TestSweepRemovesHalfExpiredRecords(t *testing.T) {
	store := newMockTokenStore()
	sweeper := NewExpirySweeper(store, time.Hour, silentLogger())
	ctx := context.Background()

	now := time.Now()

	// Refresh side already past, access side still live: the record dies.
	halfExpired := entity.NewIssuedToken("rec-1", "access-1", "refresh-1", "user@example.com",
		now.Add(time.Hour), now.Add(-time.Minute))
	// Both sides live.
	live := entity.NewIssuedToken("rec-2", "access-2", "refresh-2", "user@example.com",
		now.Add(time.Hour), now.Add(24*time.Hour))
	// Access side past.
	accessExpired := entity.NewIssuedToken("rec-3", "access-3", "refresh-3", "other@example.com",
		now.Add(-time.Minute), now.Add(24*time.Hour))
	// Unset expiry counts as expired.
	unset := entity.NewIssuedToken("rec-4", "access-4", "refresh-4", "other@example.com",
		time.Time{}, now.Add(24*time.Hour))

	for _, record := range []*entity.IssuedToken{halfExpired, live, accessExpired, unset} {
		_, err := store.Save(ctx, record)
		require.NoError(t, err)
	}

	removed, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, removed)

	remaining, err := store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, "rec-2", remaining[0].ID)
}

func TestSweepEmptyStore(t *testing.T) {
	store := newMockTokenStore()
	sweeper := NewExpirySweeper(store, time.Hour, silentLogger())

	removed, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, removed)
}

func TestRunStopsOnCancel(t *testing.T) {
	store := newMockTokenStore()
	sweeper := NewExpirySweeper(store, 10*time.Millisecond, silentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}
