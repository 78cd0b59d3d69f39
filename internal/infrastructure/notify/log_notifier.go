// Package notify adapts the outbound notification collaborator. Rendering
// and delivery of mail live outside this core; LogNotifier records the
// intent so a delivery worker (or a developer) can pick it up.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs the notification intent and reports success. Delivery is
// best-effort by contract, so a logging implementation is a valid
// collaborator for environments without an outbound mail path.
func (n *LogNotifier) Notify(_ context.Context, address, templateKind string, payload map[string]string) bool {
	n.log.Info().
		Str("address", address).
		Str("template", templateKind).
		Fields(map[string]interface{}{"payload": payload}).
		Msg("notification queued")
	return true
}
