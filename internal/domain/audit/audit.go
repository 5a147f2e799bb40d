// Package audit defines the change-trail contract. Services record an
// entry for every state-changing operation; the storage layer persists
// entries alongside the business rows so the trail commits atomically
// with the change it describes.
package audit

import (
	"context"

	"freshstock/internal/core/id"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionClose  Action = "close"
	ActionDelete Action = "delete"
)

// Entry describes one recorded change. Payload is marshalled to JSON by
// the recorder; large payloads may be stored compressed.
type Entry struct {
	Entity   string
	EntityID id.ID
	Action   Action
	ActorID  id.ID
	Payload  any
}

type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Nop discards entries. Used in tests and when the trail is disabled.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }
