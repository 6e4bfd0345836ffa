package mirror

import (
	"context"

	"staffdesk/pkg/redis"
)

// RedisMirror stores the latest revision of each entity in Redis hashes
type RedisMirror struct {
	client *redis.Client
}

func NewRedisMirror(client *redis.Client) *RedisMirror {
	return &RedisMirror{client: client}
}

func (m *RedisMirror) Apply(ctx context.Context, collection, id string, revision int64, payload []byte) (bool, error) {
	return m.client.SetIfNewer(ctx, collection, id, revision, payload)
}
