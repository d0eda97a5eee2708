// Package bus provides the append-only streaming-bus collaborator (spec §6):
// a named-stream API where each message carries a single JSON payload field.
package bus

import "context"

// Stream is the append-only stream capability. Implementations must not
// mutate or reorder previously appended messages.
type Stream interface {
	Append(ctx context.Context, streamName string, fields map[string]any) error
}
