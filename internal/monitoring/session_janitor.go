package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// SessionPurger is the slice of the session service the janitor needs.
type SessionPurger interface {
	PurgeExpired(now time.Time) (int64, error)
}

// SessionJanitor periodically deletes expired and revoked session rows so
// the sessions table does not grow without bound.
type SessionJanitor struct {
	sessions SessionPurger
	schedule cron.Schedule
	nextRun  time.Time
	ticker   *time.Ticker
	done     chan bool
}

// NewSessionJanitor creates a janitor from a cron spec (standard five-field
// expressions and descriptors like "@every 10m").
func NewSessionJanitor(sessions SessionPurger, spec string) (*SessionJanitor, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return &SessionJanitor{
		sessions: sessions,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the janitor's ticking loop.
func (j *SessionJanitor) Run() {
	log.Info().Msg("Starting session janitor...")
	j.ticker = time.NewTicker(1 * time.Minute)
	defer j.ticker.Stop()

	// Run once immediately on start
	j.sweep()
	j.nextRun = j.schedule.Next(time.Now())

	for {
		select {
		case <-j.done:
			log.Info().Msg("Stopping session janitor.")
			return
		case now := <-j.ticker.C:
			if now.After(j.nextRun) {
				j.sweep()
				j.nextRun = j.schedule.Next(now)
			}
		}
	}
}

// Stop signals the janitor to stop.
func (j *SessionJanitor) Stop() {
	j.done <- true
}

func (j *SessionJanitor) sweep() {
	purged, err := j.sessions.PurgeExpired(time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Msg("Session sweep failed")
		return
	}
	if purged > 0 {
		log.Info().Int64("purged", purged).Msg("Removed expired sessions")
	}
}
