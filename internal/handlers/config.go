package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"campanario/internal/models"
	"campanario/internal/service"

	"github.com/gin-gonic/gin"
)

// replyTimeout bounds how long a request waits for PIN_OK/PIN_ERROR or CONFIG_TELEGRAM.
const replyTimeout = 5 * time.Second

type pinRequest struct {
	PIN string `json:"pin" binding:"required" example:"1234"`
}

// @Summary      Configuration section state
// @Tags         config
// @Produce      json
// @Success      200  {object}  service.ConfigView
// @Router       /api/v1/config [get]
// @Security     BearerAuth
func (h *Handler) getConfig(c *gin.Context) {
	view := h.services.Config.View()
	if !view.Unlocked {
		// Telegram settings stay hidden until the PIN is accepted.
		view.Telegram = models.TelegramConfig{}
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Unlock configuration with the device PIN
// @Description  On PIN_OK returns a short-lived config token for the X-Config-Token header.
// @Tags         config
// @Accept       json
// @Produce      json
// @Param        body  body      pinRequest  true  "PIN"
// @Success      200   {object}  map[string]string  "status, config_token"
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string  "PIN_ERROR"
// @Failure      503   {object}  map[string]string
// @Failure      504   {object}  map[string]string
// @Router       /api/v1/config/pin [post]
// @Security     BearerAuth
func (h *Handler) verifyPIN(c *gin.Context) {
	var req pinRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), replyTimeout)
	defer cancel()

	ok, err := h.services.Config.VerifyPIN(ctx, req.PIN)
	if err != nil {
		h.fail(c, errSendCommand, "config_pin_failed", err)
		return
	}
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "incorrect PIN"})
		return
	}

	token, err := h.services.IssueConfigToken(c.GetInt(ctxUserID))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to issue config token", "config_token_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusUnlocked, "config_token": token})
}

// @Summary      Lock the configuration section
// @Tags         config
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/config/lock [post]
// @Security     BearerAuth
func (h *Handler) lockConfig(c *gin.Context) {
	h.services.Config.Lock()
	c.JSON(http.StatusOK, gin.H{"status": statusLocked})
}

// @Summary      Telegram notification settings
// @Description  Asks the device; when offline the local copy is returned with stale=true.
// @Tags         config
// @Produce      json
// @Param        X-Config-Token  header    string  true  "Config token"
// @Success      200             {object}  models.TelegramConfig
// @Failure      403             {object}  map[string]string
// @Failure      504             {object}  map[string]string
// @Router       /api/v1/config/telegram [get]
// @Security     BearerAuth
func (h *Handler) getTelegram(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), replyTimeout)
	defer cancel()

	cfg, err := h.services.Config.LoadTelegram(ctx)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, cfg)
	case errors.Is(err, service.ErrNotConnected):
		c.JSON(http.StatusOK, gin.H{"stale": true, "telegram": cfg})
	default:
		h.fail(c, errSendCommand, "config_telegram_load_failed", err)
	}
}

// @Summary      Save Telegram notification settings
// @Tags         config
// @Accept       json
// @Produce      json
// @Param        X-Config-Token  header    string                 true  "Config token"
// @Param        body            body      models.TelegramConfig  true  "Settings"
// @Success      200             {object}  map[string]interface{}
// @Failure      400             {object}  map[string]string
// @Failure      403             {object}  map[string]string
// @Failure      503             {object}  map[string]string
// @Router       /api/v1/config/telegram [put]
// @Security     BearerAuth
func (h *Handler) saveTelegram(c *gin.Context) {
	var cfg models.TelegramConfig
	if !h.bindJSONOrBadRequest(c, &cfg) {
		return
	}
	if err := h.services.Config.SaveTelegram(cfg); err != nil {
		h.fail(c, errSendCommand, "config_telegram_save_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSent, "config": h.services.Config.View()})
}

// @Summary      Reboot the device
// @Description  Requires confirm=true; otherwise nothing is sent and the prompt is returned.
// @Tags         config
// @Produce      json
// @Param        X-Config-Token  header    string  true   "Config token"
// @Param        confirm         query     bool    false  "Confirm the reboot"
// @Success      200             {object}  map[string]interface{}
// @Failure      403             {object}  map[string]string
// @Failure      503             {object}  map[string]string
// @Router       /api/v1/config/reset [post]
// @Security     BearerAuth
func (h *Handler) resetSystem(c *gin.Context) {
	q := confirmation(c)
	done, err := h.services.Config.ResetSystem(q)
	if err != nil {
		h.fail(c, errSendCommand, "config_reset_failed", err)
		return
	}
	if !done {
		respondCancelled(c, q)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSent})
}
