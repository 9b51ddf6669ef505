package service

import (
	"context"

	"go-stock-portfolio/pkg/common"

	"github.com/redis/go-redis/v9"
)

// EmailPublisher hands mail jobs off to the delivery worker. The contract
// is best-effort, fire-and-forget: a failed publish is the caller's to log
// and drop, and delivery failures downstream are lost.
type EmailPublisher interface {
	PublishEmail(ctx context.Context, kind, to, link string) error
}

// NewRedisEmailPublisher creates an EmailPublisher backed by a Redis stream.
func NewRedisEmailPublisher(client *redis.Client, streamMaxLen int64) EmailPublisher {
	return &redisEmailPublisher{client: client, streamMaxLen: streamMaxLen}
}

type redisEmailPublisher struct {
	client       *redis.Client
	streamMaxLen int64
}

func (p *redisEmailPublisher) PublishEmail(ctx context.Context, kind, to, link string) error {
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamEmailSend,
		MaxLen: p.streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"kind": kind,
			"to":   to,
			"link": link,
		},
	}).Err()
}
