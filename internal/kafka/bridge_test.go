package kafka

import (
	"context"
	"testing"

	"github.com/fvnks/konecte-relay/internal/model"
	"github.com/fvnks/konecte-relay/internal/service/relay"
	"github.com/fvnks/konecte-relay/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleAppendsReply(t *testing.T) {
	st := store.NewConversationStore()
	b := &ReplyBridge{Relay: relay.New(st, nil)}

	err := b.handle(context.Background(), []byte(`{"phone":"+56911112222","text":"Gracias por tu mensaje"}`))
	require.NoError(t, err)

	conv := st.Get("+56911112222")
	require.Len(t, conv, 1)
	assert.Equal(t, model.SenderBot, conv[0].Sender)
	assert.Equal(t, model.StatusDeliveredToUser, conv[0].Status)
}

func TestHandleRejectsBadPayloads(t *testing.T) {
	st := store.NewConversationStore()
	b := &ReplyBridge{Relay: relay.New(st, nil)}

	assert.Error(t, b.handle(context.Background(), []byte(`not json`)))
	assert.Error(t, b.handle(context.Background(), []byte(`{"phone":"","text":"hola"}`)))
	assert.Error(t, b.handle(context.Background(), []byte(`{"phone":"+56911112222","text":""}`)))
}
