package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"campanario/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK        = "ok"
	statusSent      = "sent"
	statusCancelled = "cancelled"
	statusUnlocked  = "unlocked"
	statusLocked    = "locked"

	errGetState        = "failed to load state"
	errSendCommand     = "failed to send command"
	errInvalidBodyPref = "invalid body: "
	errNotConnected    = "device not connected"
	errNoReply         = "device did not reply"
	errProtected       = "bell triggers are locked"
	errNoUpdate        = "no update available"
	errNotFound        = "not found"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		if httpCode >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// fail maps a controller error to its HTTP status. internalMsg is shown only for
// errors without a more specific mapping.
func (h *Handler) fail(c *gin.Context, internalMsg, logKey string, err error, kv ...interface{}) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		if h.log != nil {
			h.log.Infow(logKey, append([]interface{}{"err", err}, kv...)...)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": ve.Field, "key": ve.Key})
		return
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), logKey, err, kv...)
	case errors.Is(err, service.ErrNotFound):
		h.logAndJSONError(c, http.StatusNotFound, errNotFound, logKey, err, kv...)
	case errors.Is(err, service.ErrProtected):
		h.logAndJSONError(c, http.StatusConflict, errProtected, logKey, err, kv...)
	case errors.Is(err, service.ErrNoUpdate):
		h.logAndJSONError(c, http.StatusPreconditionFailed, errNoUpdate, logKey, err, kv...)
	case errors.Is(err, service.ErrNotConnected):
		h.logAndJSONError(c, http.StatusServiceUnavailable, errNotConnected, logKey, err, kv...)
	case errors.Is(err, context.DeadlineExceeded):
		h.logAndJSONError(c, http.StatusGatewayTimeout, errNoReply, logKey, err, kv...)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, internalMsg, logKey, err, kv...)
	}
}

// Respond with a status and include current state if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, extra gin.H) {
	ctx := c.Request.Context()
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	if h.services.Monitoring != nil {
		if st, err := h.services.Monitoring.GetState(ctx); err == nil {
			resp["state"] = st
		}
	}
	c.JSON(http.StatusOK, resp)
}

// queryConfirmer answers a destructive-command prompt from ?confirm=true and
// remembers the prompt so a declined request can show it.
type queryConfirmer struct {
	ok     bool
	prompt string
}

func confirmation(c *gin.Context) *queryConfirmer {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return &queryConfirmer{ok: ok}
}

func (q *queryConfirmer) Confirm(prompt string) bool {
	q.prompt = prompt
	return q.ok
}

func respondCancelled(c *gin.Context, q *queryConfirmer) {
	c.JSON(http.StatusOK, gin.H{
		"status":    statusCancelled,
		"cancelled": true,
		"prompt":    q.prompt,
	})
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alarm id"})
		return 0, false
	}
	return id, true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
