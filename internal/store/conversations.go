package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/fvnks/konecte-relay/internal/model"
	"github.com/fvnks/konecte-relay/internal/util"
)

var ErrEmptyText = errors.New("empty message text")

// ConversationStore owns all relay conversation state: a guarded map from
// normalized phone key to that conversation's ordered message history. It is
// process-local and volatile; a restart starts from empty. All methods are
// safe for concurrent use, and DrainPending's read+mark is indivisible with
// respect to concurrent Append and DrainPending calls.
type ConversationStore struct {
	mu    sync.Mutex
	convs map[string][]model.RelayMessage
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		convs: make(map[string][]model.RelayMessage),
	}
}

// Append creates a message with a fresh ULID and current timestamp and
// appends it to the conversation for key, creating the conversation on first
// use. The stored message is returned by value.
func (s *ConversationStore) Append(key, text string, sender model.Sender, status model.MessageStatus) (model.RelayMessage, error) {
	if text == "" {
		return model.RelayMessage{}, ErrEmptyText
	}

	msg := model.RelayMessage{
		ID:        util.New(),
		Phone:     key,
		Text:      text,
		Sender:    sender,
		Status:    status,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.convs[key] = append(s.convs[key], msg)
	s.mu.Unlock()

	return msg, nil
}

// Get returns a copy of the full history for key in insertion order. An
// unknown key yields an empty slice; a brand-new conversation is a normal
// case, not an error.
func (s *ConversationStore) Get(key string) []model.RelayMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.convs[key]
	out := make([]model.RelayMessage, len(conv))
	copy(out, conv)
	return out
}

// MarkSent transitions every referenced message currently in state pending
// to sent. Ids that are already sent, delivered, or unknown are skipped
// (idempotent).
func (s *ConversationStore) MarkSent(ids []string) {
	if len(ids) == 0 {
		return
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, conv := range s.convs {
		for i := range conv {
			if _, ok := want[conv[i].ID]; ok && conv[i].Status == model.StatusPending {
				conv[i].Status = model.StatusSent
			}
		}
	}
}

// DrainPending atomically snapshots every pending user message across all
// conversations, transitions each to sent, and returns the snapshot. A
// message is never handed out by two drains, and a message appended after
// the snapshot never appears in it: the single lock covers both the read and
// the mark. The result is ordered by message id (ULIDs are monotonic), which
// preserves insertion order within each conversation.
func (s *ConversationStore) DrainPending() []model.RelayMessage {
	s.mu.Lock()

	drained := []model.RelayMessage{}
	for _, conv := range s.convs {
		for i := range conv {
			if conv[i].Status == model.StatusPending && conv[i].Sender == model.SenderUser {
				conv[i].Status = model.StatusSent
				drained = append(drained, conv[i])
			}
		}
	}
	s.mu.Unlock()

	sort.Slice(drained, func(i, j int) bool { return drained[i].ID < drained[j].ID })
	return drained
}

// Len reports the number of messages stored for key.
func (s *ConversationStore) Len(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.convs[key])
}
