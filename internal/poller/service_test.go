package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/api"
	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/session"
)

type fakeFeed struct {
	mu            sync.Mutex
	announcements []api.Announcement
	err           error
}

func (f *fakeFeed) ListAnnouncements(ctx context.Context) ([]api.Announcement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]api.Announcement(nil), f.announcements...), nil
}

func (f *fakeFeed) add(a api.Announcement) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.announcements = append(f.announcements, a)
}

func TestPollSeedsWithoutNotifying(t *testing.T) {
	feed := &fakeFeed{announcements: []api.Announcement{
		{ID: 1, Title: "Water interruption"},
		{ID: 2, Title: "Clean-up drive"},
	}}
	store := session.NewMemoryStore()

	var notified []api.Announcement
	s := NewService(feed, store, func(a api.Announcement) {
		notified = append(notified, a)
	}, time.Minute)

	s.poll(context.Background(), true)
	assert.Empty(t, notified, "backlog is seeded, not replayed")

	seen, err := store.IsAnnouncementSeen(1)
	require.Nil(t, err)
	assert.True(t, seen)
}

func TestPollNotifiesOnlyNewAnnouncements(t *testing.T) {
	feed := &fakeFeed{announcements: []api.Announcement{{ID: 1, Title: "Water interruption"}}}
	store := session.NewMemoryStore()

	var notified []api.Announcement
	s := NewService(feed, store, func(a api.Announcement) {
		notified = append(notified, a)
	}, time.Minute)

	s.poll(context.Background(), true)
	require.Empty(t, notified)

	feed.add(api.Announcement{ID: 2, Title: "Clean-up drive"})
	s.poll(context.Background(), false)

	require.Len(t, notified, 1)
	assert.Equal(t, int64(2), notified[0].ID)

	// A repeated cycle stays quiet.
	s.poll(context.Background(), false)
	assert.Len(t, notified, 1)
}

func TestPollFeedErrorLeavesSeenStateAlone(t *testing.T) {
	feed := &fakeFeed{err: errors.New("backend down")}
	store := session.NewMemoryStore()

	var notified int
	s := NewService(feed, store, func(api.Announcement) { notified++ }, time.Minute)

	s.poll(context.Background(), false)
	assert.Zero(t, notified)

	seen, err := store.IsAnnouncementSeen(1)
	require.Nil(t, err)
	assert.False(t, seen)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	feed := &fakeFeed{}
	s := NewService(feed, session.NewMemoryStore(), nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on context cancellation")
	}
}

func TestDefaultInterval(t *testing.T) {
	s := NewService(&fakeFeed{}, session.NewMemoryStore(), nil, 0)
	assert.Equal(t, DefaultPollInterval, s.interval)
}
