package http

import (
	"errors"
	"net/http"

	"github.com/fvnks/konecte-relay/internal/service/relay"
	"github.com/fvnks/konecte-relay/internal/store"
	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type ingestReq struct {
	Phone string `json:"phone"`
	Text  string `json:"text"`
}

// submitMessageHandler ingests a user-facing message destined for the bot.
func submitMessageHandler(relaySvc *relay.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req ingestReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		msg, err := relaySvc.SubmitUserMessage(c.Request().Context(), req.Phone, req.Text)
		if err != nil {
			return ingestError(c, err)
		}
		return c.JSON(http.StatusOK, msg)
	}
}

// submitReplyHandler ingests a bot reply. The direct reply route and the
// incoming webhook both mount this handler; they are one operation exposed
// at two addresses for two external callers.
func submitReplyHandler(relaySvc *relay.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req ingestReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		msg, err := relaySvc.SubmitBotReply(c.Request().Context(), req.Phone, req.Text)
		if err != nil {
			return ingestError(c, err)
		}
		return c.JSON(http.StatusOK, msg)
	}
}

func ingestError(c echo.Context, err error) error {
	if errors.Is(err, relay.ErrMissingField) || errors.Is(err, store.ErrEmptyText) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "phone and text are required"})
	}
	log.Errorf("ingest failed: %v", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "store error"})
}

// pollHandler drains pending user messages for the bot. An empty array is
// the normal steady state between polling intervals.
func pollHandler(relaySvc *relay.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		msgs := relaySvc.PollForBot()
		return c.JSON(http.StatusOK, msgs)
	}
}

func conversationHandler(relaySvc *relay.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		msgs, err := relaySvc.FetchConversation(c.Param("phone"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "phone is required"})
		}
		return c.JSON(http.StatusOK, msgs)
	}
}
