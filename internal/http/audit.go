package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fvnks/konecte-relay/internal/model"
	"github.com/fvnks/konecte-relay/internal/repository"
	"github.com/fvnks/konecte-relay/internal/util"
	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// listAuditHandler serves the admin report over the ClickHouse audit trail.
func listAuditHandler(auditRepo repository.AuditRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		if auditRepo == nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "audit disabled"})
		}

		limit := 50
		offset := 0
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}
		if v := c.QueryParam("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		var st model.MessageStatus
		if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
			tmp := model.MessageStatus(raw)
			if tmp.Valid() {
				st = tmp
			}
		}

		phone := ""
		if raw := strings.TrimSpace(c.QueryParam("phone")); raw != "" {
			phone = util.NormalizeKey(raw)
		}

		rows, err := auditRepo.List(c.Request().Context(), phone, st, limit, offset)
		if err != nil {
			log.Errorf("audit list failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"limit":   limit,
			"offset":  offset,
			"count":   len(rows),
			"results": rows,
		})
	}
}
