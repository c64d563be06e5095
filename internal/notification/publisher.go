package notification

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RedisPublisher appends one stream entry per audit with XADD.
type RedisPublisher struct {
	client *redis.Client
	stream string
}

func NewRedisPublisher(client *redis.Client, stream string) *RedisPublisher {
	return &RedisPublisher{client: client, stream: stream}
}

func (p *RedisPublisher) Publish(ctx context.Context, audits []*Audit) error {
	if len(audits) == 0 {
		return nil
	}

	pipe := p.client.Pipeline()

	for _, a := range audits {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			Values: map[string]any{
				"event_id":    uuid.NewString(),
				"table_name":  a.TableName,
				"rows_id":     strconv.FormatInt(a.RowsID, 10),
				"customer_id": a.CustomerID,
				"remark":      a.Remark,
				"create_by":   a.CreateBy,
				"created_at":  a.CreateDate.UTC().Format(time.RFC3339),
			},
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}

	return nil
}

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, []*Audit) error { return nil }
