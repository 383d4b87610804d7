package notifier

import (
	"context"
	"log"
)

// Notifier delivers human-readable reports after a run.
type Notifier interface {
	Notify(ctx context.Context, text string) error
	Name() string
}

// LogNotifier writes reports to the process log. Used when no Telegram
// credentials are configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (l *LogNotifier) Name() string { return "log" }

func (l *LogNotifier) Notify(_ context.Context, text string) error {
	log.Printf("[INFO] report:\n%s", text)
	return nil
}
