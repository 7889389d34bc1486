package relay

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fvnks/konecte-relay/internal/logger"
	"github.com/fvnks/konecte-relay/internal/metrics"
	"github.com/fvnks/konecte-relay/internal/model"
	"github.com/fvnks/konecte-relay/internal/repository"
	"github.com/fvnks/konecte-relay/internal/store"
	"github.com/fvnks/konecte-relay/internal/util"
	"go.uber.org/zap"
)

var ErrMissingField = errors.New("missing required field")

const auditTimeout = 3 * time.Second

// Service is the relay gateway: validation, phone-key normalization, and the
// conversation store behind one API. The bot's reply route, the incoming
// webhook, and the kafka bridge all funnel into SubmitBotReply; they are one
// operation exposed at several boundary addresses.
type Service struct {
	store *store.ConversationStore
	audit repository.AuditRepository // nil when auditing is disabled
}

func New(st *store.ConversationStore, audit repository.AuditRepository) *Service {
	return &Service{store: st, audit: audit}
}

// SubmitUserMessage appends a user-authored message destined for the bot.
// The message stays pending until a poll drains it.
func (s *Service) SubmitUserMessage(ctx context.Context, rawPhone, text string) (model.RelayMessage, error) {
	return s.submit(ctx, rawPhone, text, model.SenderUser, model.StatusPending)
}

// SubmitBotReply appends a bot-authored reply, immediately visible to the
// user-facing conversation view.
func (s *Service) SubmitBotReply(ctx context.Context, rawPhone, text string) (model.RelayMessage, error) {
	return s.submit(ctx, rawPhone, text, model.SenderBot, model.StatusDeliveredToUser)
}

func (s *Service) submit(ctx context.Context, rawPhone, text string, sender model.Sender, status model.MessageStatus) (model.RelayMessage, error) {
	rawPhone = strings.TrimSpace(rawPhone)
	text = strings.TrimSpace(text)
	if rawPhone == "" || text == "" {
		return model.RelayMessage{}, ErrMissingField
	}

	key := util.NormalizeKey(rawPhone)
	if key == "" || key == "+" {
		return model.RelayMessage{}, ErrMissingField
	}

	msg, err := s.store.Append(key, text, sender, status)
	if err != nil {
		return model.RelayMessage{}, err
	}

	metrics.MessagesTotal.WithLabelValues(sender.String(), status.String()).Inc()
	s.auditWrite(msg)

	return msg, nil
}

// PollForBot drains every pending user message across all conversations and
// marks each one sent, atomically. Repeated polls never hand out the same
// message twice; an empty result is the normal steady state between cycles.
func (s *Service) PollForBot() []model.RelayMessage {
	drained := s.store.DrainPending()
	if len(drained) == 0 {
		metrics.PollsTotal.WithLabelValues("empty").Inc()
		return drained
	}
	metrics.PollsTotal.WithLabelValues("drained").Inc()
	metrics.DrainedTotal.Add(float64(len(drained)))
	return drained
}

// FetchConversation returns the full ordered history for a phone number.
// Unknown numbers yield an empty history.
func (s *Service) FetchConversation(rawPhone string) ([]model.RelayMessage, error) {
	rawPhone = strings.TrimSpace(rawPhone)
	if rawPhone == "" {
		return nil, ErrMissingField
	}
	return s.store.Get(util.NormalizeKey(rawPhone)), nil
}

// auditWrite records the message into ClickHouse off the request path.
// Failures are logged and swallowed: the audit trail is telemetry, not state.
func (s *Service) auditWrite(msg model.RelayMessage) {
	if s.audit == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		err := s.audit.Insert(ctx, model.AuditEntry{
			ID:        msg.ID,
			Phone:     msg.Phone,
			Text:      msg.Text,
			Sender:    msg.Sender.String(),
			Status:    msg.Status.String(),
			CreatedAt: msg.CreatedAt,
		})
		if err != nil && logger.Log != nil {
			logger.Log.Warn("audit insert failed", zap.String("id", msg.ID), zap.Error(err))
		}
	}()
}
