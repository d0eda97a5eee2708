package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/htfilia/tradingboard/internal/bus"
	"github.com/htfilia/tradingboard/internal/trading"
)

// ExecutionPublisher implements trading.ExecutionPublisher by appending
// to the "execution-events" stream, one payload field per message per
// spec §6.
type ExecutionPublisher struct {
	bus bus.Stream
}

// NewExecutionPublisher wraps a bus.Stream as an ExecutionPublisher.
func NewExecutionPublisher(b bus.Stream) *ExecutionPublisher {
	return &ExecutionPublisher{bus: b}
}

// Publish appends the execution event to the execution-events stream.
func (p *ExecutionPublisher) Publish(ctx context.Context, ev trading.ExecutionEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal execution event: %w", err)
	}
	return p.bus.Append(ctx, "execution-events", map[string]any{"payload": string(payload)})
}
