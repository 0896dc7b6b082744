package consumer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chucky-1/expenses/internal/dialog"
)

// Janitor periodically drops dialog sessions that have been idle too long
type Janitor struct {
	sessions *dialog.Sessions
	interval time.Duration
}

func NewJanitor(sessions *dialog.Sessions, interval time.Duration) *Janitor {
	return &Janitor{
		sessions: sessions,
		interval: interval,
	}
}

func (j *Janitor) Consume(ctx context.Context) {
	logrus.Info("janitor consumer started")

	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Infof("janitor consumer stopped: %v", ctx.Err())
			return
		case <-t.C:
			evicted := j.sessions.EvictIdle()
			if evicted > 0 {
				logrus.Infof("janitor consumer evicted %d idle sessions", evicted)
			}
		}
	}
}
