package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fvnks/konecte-relay/internal/logger"
	"github.com/fvnks/konecte-relay/internal/service/relay"
	"go.uber.org/zap"
)

// ReplyEnvelope is the payload the bot integration publishes for each
// generated reply when it delivers over the message bus instead of the
// webhook. Both paths land in the same conversation append.
type ReplyEnvelope struct {
	Phone string `json:"phone"`
	Text  string `json:"text"`
}

// ReplyBridge consumes bot reply envelopes and feeds them into the relay.
// It must run inside the serve process: the conversation store is
// process-local, so an out-of-process worker would append into nothing.
type ReplyBridge struct {
	Consumer *Consumer
	Relay    *relay.Service
}

// Run blocks until ctx is cancelled. Malformed or invalid envelopes are
// committed and skipped so a poison message cannot wedge the partition.
func (b *ReplyBridge) Run(ctx context.Context) error {
	for {
		m, err := b.Consumer.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Log.Warn("kafka fetch failed", zap.Error(err))
			time.Sleep(200 * time.Millisecond)
			continue
		}

		if err := b.handle(ctx, m.Value); err != nil {
			logger.Log.Warn("reply envelope rejected", zap.Error(err))
		}

		if err := b.Consumer.Commit(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Log.Warn("kafka commit failed", zap.Error(err))
		}
	}
}

// handle appends one consumed envelope to the conversation it addresses.
func (b *ReplyBridge) handle(ctx context.Context, payload []byte) error {
	var env ReplyEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}
	if _, err := b.Relay.SubmitBotReply(ctx, env.Phone, env.Text); err != nil {
		return fmt.Errorf("ingest reply for %q: %w", env.Phone, err)
	}
	return nil
}
