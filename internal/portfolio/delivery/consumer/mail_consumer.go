// Package consumer runs the best-effort mail delivery worker. It drains the
// mail stream the account service publishes to; failed sends are logged and
// dropped, never retried.
package consumer

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-stock-portfolio/pkg/common"
	"go-stock-portfolio/pkg/logger"
	"go-stock-portfolio/pkg/mailer"
	"go-stock-portfolio/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// MailConsumer consumes mail jobs from a Redis stream and hands them to the
// SMTP notifier.
type MailConsumer struct {
	redisClient *redis.Client
	notifier    mailer.Notifier
	logger      *logger.Logger
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// NewMailConsumer creates a new MailConsumer.
func NewMailConsumer(redisClient *redis.Client, notifier mailer.Notifier, log *logger.Logger) *MailConsumer {
	return &MailConsumer{
		redisClient: redisClient,
		notifier:    notifier,
		logger:      log,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the consumer's processing loop.
func (c *MailConsumer) Start(ctx context.Context) {
	err := c.redisClient.XGroupCreateMkStream(ctx, common.RedisStreamEmailSend, common.RedisStreamGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		c.logger.Error("Failed to create mail stream group", logger.ErrorField(err))
		return
	}

	c.logger.Info("Mail consumer started", logger.StringField("stream", common.RedisStreamEmailSend))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Mail consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Mail consumer stopping")
				return
			default:
				c.consumeOnce(ctx)
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *MailConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Mail consumer stopped")
}

func (c *MailConsumer) consumeOnce(ctx context.Context) {
	streams, err := c.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamEmailSend, ">"},
		Count:    10,
		Block:    5 * time.Second,
	}).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			c.logger.Error("Failed to read from mail stream", logger.ErrorField(err))
		}
		return
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			c.handleMessage(ctx, message)
			if err := c.redisClient.XAck(ctx, common.RedisStreamEmailSend, common.RedisStreamGroup, message.ID).Err(); err != nil {
				c.logger.Error("Failed to acknowledge mail message",
					logger.StringField("message_id", message.ID), logger.ErrorField(err))
			}
		}
	}
}

func (c *MailConsumer) handleMessage(ctx context.Context, message redis.XMessage) {
	kind, _ := message.Values["kind"].(string)
	to, _ := message.Values["to"].(string)
	link, _ := message.Values["link"].(string)
	if to == "" || link == "" {
		c.logger.Error("Malformed mail message", logger.StringField("message_id", message.ID))
		return
	}

	var err error
	switch kind {
	case common.EmailKindConfirmation:
		err = c.notifier.SendConfirmationEmail(to, link)
	case common.EmailKindPasswordReset:
		err = c.notifier.SendPasswordResetEmail(to, link)
	default:
		c.logger.Error("Unknown mail kind",
			logger.StringField("kind", kind), logger.StringField("message_id", message.ID))
		return
	}

	if err != nil {
		// Best-effort contract: the failure is logged and the mail is lost.
		c.logger.ErrorContext(ctx, "Failed to send email",
			logger.StringField("kind", kind), logger.StringField("to", to), logger.ErrorField(err))
		return
	}
	c.logger.InfoContext(ctx, "Email sent",
		logger.StringField("kind", kind), logger.StringField("to", to))
}
