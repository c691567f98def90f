package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wadesk/console-api/internal/core/ports"
)

// AdminHandler exposes the admin-only surface.
type AdminHandler struct {
	service ports.KeyService
}

func NewAdminHandler(service ports.KeyService) *AdminHandler {
	return &AdminHandler{service: service}
}

// GlobalKey returns the configuration-sourced global admin key. An unset
// configuration is a valid state and reads as 404, not 403.
//
// @Summary      Read the global API key
// @Tags         admin
// @Produce      json
// @Success      200  {object}  globalKeyResponse
// @Failure      401  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /admin/global-key [get]
func (h *AdminHandler) GlobalKey(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	key, err := h.service.GlobalKey(c.Request().Context(), p)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, globalKeyResponse{Key: key})
}
