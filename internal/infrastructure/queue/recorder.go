package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/brandshub/user-directory/internal/api/metrics"
	"github.com/brandshub/user-directory/internal/core/ports"
)

// ActivityRecorder is the default event sink: it turns directory activity
// into metrics and structured log lines. It persists nothing.
type ActivityRecorder struct {
	log zerolog.Logger
}

var _ ports.ActivityProcessor = (*ActivityRecorder)(nil)

func NewActivityRecorder(log zerolog.Logger) *ActivityRecorder {
	return &ActivityRecorder{log: log}
}

func (r *ActivityRecorder) Process(_ context.Context, event ports.ActivityEvent) error {
	metrics.ActivityEventsTotal.WithLabelValues(string(event.Kind)).Inc()

	evt := r.log.Info().
		Str("user_id", event.UserID).
		Str("username", event.Username).
		Str("kind", string(event.Kind)).
		Time("at", event.At)
	if event.Detail != "" {
		evt = evt.Str("detail", event.Detail)
	}
	evt.Msg("directory activity")

	return nil
}
