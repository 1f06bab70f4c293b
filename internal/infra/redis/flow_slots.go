package redis

import (
	"context"
	"time"

	"spodown-client/internal/domain/ports/repository"
)

var _ repository.FlowSlotStore = (*FlowSlotStore)(nil)

const flowSlotsKey = "active_flows"

// FlowSlotStore mirrors active flow handles in Redis so a restarted client
// can re-attach to sessions the server still tracks. The hash TTL matches the
// server's own session retention; stale entries age out with it.
type FlowSlotStore struct {
	client *redClient
	ttl    time.Duration
}

func NewFlowSlotStore(client *redClient, ttl time.Duration) *FlowSlotStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &FlowSlotStore{client: client, ttl: ttl}
}

func (s *FlowSlotStore) Put(ctx context.Context, flowID, sessionID string) error {
	if err := s.client.HSet(ctx, flowSlotsKey, flowID, sessionID); err != nil {
		return err
	}
	return s.client.Expire(ctx, flowSlotsKey, s.ttl)
}

func (s *FlowSlotStore) Delete(ctx context.Context, flowID string) error {
	return s.client.HDel(ctx, flowSlotsKey, flowID)
}

func (s *FlowSlotStore) Active(ctx context.Context) (map[string]string, error) {
	return s.client.HGetAll(ctx, flowSlotsKey)
}
