package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/api"
)

const (
	// DefaultPollInterval is the time between polling cycles.
	DefaultPollInterval = 10 * time.Minute

	// PruneInterval is how often old seen entries are pruned.
	PruneInterval = 24 * time.Hour

	// SeenMaxAge is how long seen announcements are remembered.
	SeenMaxAge = 30 * 24 * time.Hour
)

// Feed is the slice of the API client the poller reads from.
type Feed interface {
	ListAnnouncements(ctx context.Context) ([]api.Announcement, error)
}

// SeenStore tracks which announcements have already been surfaced.
type SeenStore interface {
	IsAnnouncementSeen(id int64) (bool, error)
	MarkAnnouncementSeen(id int64) error
	PruneSeenAnnouncements(maxAge time.Duration) error
}

// Notify is called once per newly seen announcement.
type Notify func(a api.Announcement)

// Service polls the announcement feed and surfaces entries not seen before.
type Service struct {
	feed     Feed
	store    SeenStore
	notify   Notify
	interval time.Duration
}

// NewService creates a poller. A non-positive interval falls back to
// DefaultPollInterval.
func NewService(feed Feed, store SeenStore, notify Notify, interval time.Duration) *Service {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Service{
		feed:     feed,
		store:    store,
		notify:   notify,
		interval: interval,
	}
}

// Run starts the polling loop. It blocks until the context is cancelled.
// The first cycle only seeds the seen set, so a fresh store doesn't replay
// the whole backlog as notifications.
func (s *Service) Run(ctx context.Context) {
	log.Info().Dur("interval", s.interval).Msg("starting announcement poller")

	s.poll(ctx, true)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	pruneTicker := time.NewTicker(PruneInterval)
	defer pruneTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("announcement poller stopped")
			return
		case <-ticker.C:
			s.poll(ctx, false)
		case <-pruneTicker.C:
			if err := s.store.PruneSeenAnnouncements(SeenMaxAge); err != nil {
				log.Error().Err(err).Msg("failed to prune seen announcements")
			}
		}
	}
}

// poll executes one polling cycle.
func (s *Service) poll(ctx context.Context, seedOnly bool) {
	announcements, err := s.feed.ListAnnouncements(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch announcements")
		return
	}

	fresh := 0
	for _, a := range announcements {
		if ctx.Err() != nil {
			return
		}

		seen, err := s.store.IsAnnouncementSeen(a.ID)
		if err != nil {
			log.Error().Err(err).Int64("announcementId", a.ID).Msg("failed to check seen state")
			continue
		}
		if seen {
			continue
		}

		if err := s.store.MarkAnnouncementSeen(a.ID); err != nil {
			log.Error().Err(err).Int64("announcementId", a.ID).Msg("failed to mark announcement seen")
			continue
		}

		if !seedOnly && s.notify != nil {
			s.notify(a)
		}
		fresh++
	}

	log.Debug().Int("total", len(announcements)).Int("new", fresh).Msg("poll cycle complete")
}
