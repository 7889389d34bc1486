package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fvnks/konecte-relay/internal/model"
	"github.com/fvnks/konecte-relay/internal/service/access"
	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

func checkAccessByIDHandler(accessSvc *access.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		}

		res, err := accessSvc.CheckByID(c.Request().Context(), id)
		return accessResponse(c, res, err)
	}
}

func checkAccessByPhoneHandler(accessSvc *access.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := accessSvc.CheckByPhone(c.Request().Context(), c.Param("phone"))
		return accessResponse(c, res, err)
	}
}

func accessResponse(c echo.Context, res model.AccessResult, err error) error {
	switch {
	case errors.Is(err, access.ErrInvalidPhone):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "phone has no digits"})
	case errors.Is(err, access.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
	case err != nil:
		log.Errorf("access check failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
	case !res.Granted:
		return c.JSON(http.StatusForbidden, res)
	}
	return c.JSON(http.StatusOK, res)
}
