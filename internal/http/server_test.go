package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fvnks/konecte-relay/internal/config"
	"github.com/fvnks/konecte-relay/internal/model"
	"github.com/fvnks/konecte-relay/internal/service/access"
	"github.com/fvnks/konecte-relay/internal/service/relay"
	"github.com/fvnks/konecte-relay/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "relay-secret"

type mockUsers struct {
	users []model.User
}

func (m *mockUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			return &m.users[i], nil
		}
	}
	return nil, nil
}

func (m *mockUsers) FindBySuffix(_ context.Context, suffix string) (*model.User, error) {
	for i := range m.users {
		if strings.HasSuffix(m.users[i].Phone, suffix) {
			return &m.users[i], nil
		}
	}
	return nil, nil
}

func newTestServer() (*Server, *store.ConversationStore) {
	st := store.NewConversationStore()
	relaySvc := relay.New(st, nil)
	accessSvc := access.New(&mockUsers{users: []model.User{
		{ID: 1, Phone: "+56987654321", PhoneVerified: true, PlanWhatsApp: true},
		{ID: 2, Phone: "56955556666", PhoneVerified: false, PlanWhatsApp: false},
	}})

	cfg := config.Config{Bot: config.BotConfig{Token: testToken}}
	return NewServer(cfg, relaySvc, accessSvc, nil, nil), st
}

func doJSON(s *Server, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func TestSubmitMessage(t *testing.T) {
	assert := assert.New(t)
	s, _ := newTestServer()

	rec := doJSON(s, http.MethodPost, "/v1/messages", "", `{"phone":"+56911112222","text":"Hola"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var msg model.RelayMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.NotEmpty(msg.ID)
	assert.Equal("+56911112222", msg.Phone)
	assert.Equal(model.SenderUser, msg.Sender)
	assert.Equal(model.StatusPending, msg.Status)
}

func TestSubmitMessageMissingText(t *testing.T) {
	s, st := newTestServer()

	rec := doJSON(s, http.MethodPost, "/v1/messages", "", `{"phone":"+56911112222"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, st.Len("+56911112222"))
}

func TestPollRequiresToken(t *testing.T) {
	assert := assert.New(t)
	s, _ := newTestServer()

	rec := doJSON(s, http.MethodPost, "/v1/messages", "", `{"phone":"+56911112222","text":"Hola"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// wrong secret: rejected, nothing drained
	rec = doJSON(s, http.MethodGet, "/v1/messages/pending", "wrong", "")
	assert.Equal(http.StatusUnauthorized, rec.Code)

	rec = doJSON(s, http.MethodGet, "/v1/messages/pending", "", "")
	assert.Equal(http.StatusUnauthorized, rec.Code)

	// the failed attempts left the message pending
	rec = doJSON(s, http.MethodGet, "/v1/messages/pending", testToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var msgs []model.RelayMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 1)
	assert.Equal("Hola", msgs[0].Text)
	assert.Equal(model.StatusSent, msgs[0].Status)

	// second authorized poll drains nothing
	rec = doJSON(s, http.MethodGet, "/v1/messages/pending", testToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	assert.Empty(msgs)
}

func TestReplyAndWebhookAreOneOperation(t *testing.T) {
	assert := assert.New(t)
	s, _ := newTestServer()

	rec := doJSON(s, http.MethodPost, "/v1/replies", testToken, `{"phone":"56911112222","text":"Gracias por tu mensaje"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(s, http.MethodPost, "/v1/webhooks/whatsapp", testToken, `{"phone":"56911112222","text":"¿Algo más?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(s, http.MethodGet, "/v1/conversations/56911112222", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var conv []model.RelayMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))
	require.Len(t, conv, 2)
	for _, m := range conv {
		assert.Equal(model.SenderBot, m.Sender)
		assert.Equal(model.StatusDeliveredToUser, m.Status)
	}
}

func TestReplyRejectedWithoutToken(t *testing.T) {
	s, st := newTestServer()

	rec := doJSON(s, http.MethodPost, "/v1/replies", "", `{"phone":"56911112222","text":"Gracias"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, st.Len("56911112222"))
}

func TestAccessByPhone(t *testing.T) {
	assert := assert.New(t)
	s, _ := newTestServer()

	rec := doJSON(s, http.MethodGet, "/v1/access/phones/987654321", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.AccessResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(res.Granted)
	assert.Equal(int64(1), res.UserID)

	// unverified phone: denied with reason
	rec = doJSON(s, http.MethodGet, "/v1/access/phones/955556666", "", "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(res.Granted)
	assert.Equal(access.ReasonNotVerified, res.Reason)

	// no suffix match
	rec = doJSON(s, http.MethodGet, "/v1/access/phones/900000000", "", "")
	assert.Equal(http.StatusNotFound, rec.Code)

	// no digits at all
	rec = doJSON(s, http.MethodGet, "/v1/access/phones/nope", "", "")
	assert.Equal(http.StatusBadRequest, rec.Code)
}

func TestAccessByID(t *testing.T) {
	assert := assert.New(t)
	s, _ := newTestServer()

	rec := doJSON(s, http.MethodGet, "/v1/access/users/1", "", "")
	assert.Equal(http.StatusOK, rec.Code)

	rec = doJSON(s, http.MethodGet, "/v1/access/users/2", "", "")
	assert.Equal(http.StatusForbidden, rec.Code)

	rec = doJSON(s, http.MethodGet, "/v1/access/users/99", "", "")
	assert.Equal(http.StatusNotFound, rec.Code)

	rec = doJSON(s, http.MethodGet, "/v1/access/users/abc", "", "")
	assert.Equal(http.StatusBadRequest, rec.Code)
}

func TestAuditDisabled(t *testing.T) {
	s, _ := newTestServer()

	rec := doJSON(s, http.MethodGet, "/v1/admin/audit", testToken, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer()

	rec := doJSON(s, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
