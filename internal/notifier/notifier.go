package notifier

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Notifier delivers user-facing notices: fetch failures and trade confirmations.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// LogNotifier writes notices to the log and nothing else.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (LogNotifier) Notify(_ context.Context, text string) error {
	log.Info().Str("notice", text).Msg("notify")
	return nil
}
