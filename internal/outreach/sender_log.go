package outreach

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogSender writes messages to the log instead of a gateway. Local-dev and
// dry-run stand-in for the SMS/email providers.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) (string, error) {
	id := uuid.NewString()
	s.logger.InfoContext(ctx, "dry-run send",
		"message_id", id, "lead_id", msg.LeadID, "channel", msg.Channel,
		"to", msg.To, "subject", msg.Subject, "bytes", len(msg.Body))
	return id, nil
}
