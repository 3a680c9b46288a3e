package handlers

import (
	"net/http"

	"campanario/internal/service"

	"github.com/gin-gonic/gin"
)

type installRequest struct {
	Kind string `json:"kind" binding:"required" example:"firmware" enums:"firmware,filesystem,both"`
}

// @Summary      Update session state
// @Tags         ota
// @Produce      json
// @Success      200  {object}  service.OTAView
// @Router       /api/v1/ota [get]
// @Security     BearerAuth
func (h *Handler) getOTA(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.OTA.View())
}

// @Summary      Start a fresh update session
// @Description  Resets the session and asks the device for its version.
// @Tags         ota
// @Produce      json
// @Success      200  {object}  service.OTAView
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/ota/open [post]
// @Security     BearerAuth
func (h *Handler) openOTA(c *gin.Context) {
	if err := h.services.OTA.Open(); err != nil {
		h.fail(c, errSendCommand, "ota_open_failed", err)
		return
	}
	c.JSON(http.StatusOK, h.services.OTA.View())
}

// @Summary      Check for updates
// @Tags         ota
// @Produce      json
// @Success      202  {object}  service.OTAView
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/ota/check [post]
// @Security     BearerAuth
func (h *Handler) checkOTA(c *gin.Context) {
	if err := h.services.OTA.Check(); err != nil {
		h.fail(c, errSendCommand, "ota_check_failed", err)
		return
	}
	c.JSON(http.StatusAccepted, h.services.OTA.View())
}

// @Summary      Install the available update
// @Description  Requires an UPDATE_AVAILABLE session and confirm=true.
// @Tags         ota
// @Accept       json
// @Produce      json
// @Param        confirm  query     bool            false  "Confirm the install"
// @Param        body     body      installRequest  true   "What to flash"
// @Success      202      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Failure      412      {object}  map[string]string  "no update available"
// @Failure      503      {object}  map[string]string
// @Router       /api/v1/ota/install [post]
// @Security     BearerAuth
func (h *Handler) installOTA(c *gin.Context) {
	var req installRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	q := confirmation(c)
	started, err := h.services.OTA.Install(service.UpdateKind(req.Kind), q)
	if err != nil {
		h.fail(c, errSendCommand, "ota_install_failed", err, "kind", req.Kind)
		return
	}
	if !started {
		respondCancelled(c, q)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": statusSent, "ota": h.services.OTA.View()})
}
