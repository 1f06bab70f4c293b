package repository

import "context"

// FlowSlotStore mirrors the active (flow id -> session id) slots outside the
// process, so a restarted client can re-attach to jobs the server still
// tracks. The in-process flow registry stays authoritative for the
// concurrency cap; the store is a durable shadow of it.
type FlowSlotStore interface {
	Put(ctx context.Context, flowID, sessionID string) error
	Delete(ctx context.Context, flowID string) error
	Active(ctx context.Context) (map[string]string, error)
}
