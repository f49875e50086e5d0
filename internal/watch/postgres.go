package watch

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PGListener reports PostgreSQL notifications on one channel.
type PGListener struct {
	ConnStr string
	Channel string
}

var _ Notifier = &PGListener{} // Compile-time check

// NewPGListener returns a listener for channel on the database at connStr.
func NewPGListener(connStr, channel string) *PGListener {
	return &PGListener{ConnStr: connStr, Channel: channel}
}

// Watch implements Notifier. It holds one dedicated connection for the
// lifetime of the watch.
func (l *PGListener) Watch(ctx context.Context, changes chan<- string) error {
	if l.Channel == "" {
		return errors.New("notification channel is required")
	}
	conn, err := pgx.Connect(ctx, l.ConnStr)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to connect for LISTEN: %w", err)
	}
	defer func() { _ = conn.Close(context.Background()) }()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.Channel}.Sanitize()); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to LISTEN on %s: %w", l.Channel, err)
	}

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("lost notification channel %s: %w", l.Channel, err)
		}
		reason := "notify " + n.Channel
		if n.Payload != "" {
			reason += ": " + n.Payload
		}
		send(ctx, changes, reason)
	}
}
