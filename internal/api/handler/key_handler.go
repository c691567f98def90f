package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wadesk/console-api/internal/api/metrics"
	"github.com/wadesk/console-api/internal/core/ports"
)

// KeyHandler handles HTTP requests for the credential lifecycle.
type KeyHandler struct {
	service ports.KeyService
}

func NewKeyHandler(service ports.KeyService) *KeyHandler {
	return &KeyHandler{service: service}
}

// List returns the caller's API keys — never another user's, not even for
// admins.
//
// @Summary      List the caller's API keys
// @Tags         keys
// @Produce      json
// @Success      200  {array}   keyResponse
// @Failure      401  {object}  map[string]interface{}
// @Router       /keys [get]
func (h *KeyHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	keys, err := h.service.List(c.Request().Context(), p)
	if err != nil {
		return err
	}

	resp := make([]keyResponse, 0, len(keys))
	for _, k := range keys {
		resp = append(resp, toKeyResponse(k, true))
	}
	return c.JSON(http.StatusOK, resp)
}

// Create mints a new API key owned by the caller. The secret is part of the
// response; there is no later endpoint that re-creates it.
//
// @Summary      Create an API key
// @Tags         keys
// @Accept       json
// @Produce      json
// @Param        body  body      createKeyRequest  true  "Key attributes"
// @Success      201   {object}  keyResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Router       /keys [post]
func (h *KeyHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createKeyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	key, err := h.service.Create(c.Request().Context(), p, ports.CreateKeyInput{
		Name:        req.Name,
		Permissions: req.Permissions,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		return err
	}

	metrics.KeyLifecycleTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toKeyResponse(key, true))
}

// Update renames a key or moves its expiry. Omitted fields keep their
// current value; the secret is not re-shown.
//
// @Summary      Update an API key
// @Tags         keys
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Key id"
// @Param        body  body      updateKeyRequest  true  "Fields to change"
// @Success      200   {object}  keyResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      403   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /keys/{id} [put]
func (h *KeyHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateKeyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	key, err := h.service.Update(c.Request().Context(), p, c.Param("id"), ports.KeyMetaPatch{
		Name:      req.Name,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		return err
	}

	metrics.KeyLifecycleTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toKeyResponse(key, false))
}

// Revoke permanently disables a key. A second revoke on the same key still
// succeeds.
//
// @Summary      Revoke an API key
// @Tags         keys
// @Produce      json
// @Param        id  path      string  true  "Key id"
// @Success      200  {object}  deleteKeyResponse
// @Failure      401  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /keys/{id} [delete]
func (h *KeyHandler) Revoke(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if err := h.service.Revoke(c.Request().Context(), p, id); err != nil {
		return err
	}

	metrics.KeyLifecycleTotal.WithLabelValues("revoke").Inc()
	return c.JSON(http.StatusOK, deleteKeyResponse{ID: id})
}

// Introspect describes the key that authenticated the request.
//
// @Summary      Describe the authenticated API key
// @Tags         keys
// @Produce      json
// @Success      200  {object}  introspectResponse
// @Failure      401  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /api/v1/me [get]
func (h *KeyHandler) Introspect(c echo.Context) error {
	key, err := ctxAPIKey(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, introspectResponse{
		KeyID:       key.ID,
		Name:        key.Name,
		OwnerUserID: key.OwnerUserID,
		Permissions: key.Permissions,
		ExpiresAt:   key.ExpiresAt,
		LastUsedAt:  key.LastUsedAt,
	})
}
