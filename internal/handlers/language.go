package handlers

import (
	"net/http"

	"campanario/internal/models"

	"github.com/gin-gonic/gin"
)

type languageRequest struct {
	Language string `json:"language" binding:"required" example:"es"`
}

// @Summary      Current language
// @Tags         language
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/language [get]
// @Security     BearerAuth
func (h *Handler) getLanguage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"language": h.services.Language.Current()})
}

// @Summary      Change language
// @Description  Applied locally and persisted; forwarded to the device when connected.
// @Tags         language
// @Accept       json
// @Produce      json
// @Param        body  body      languageRequest  true  "Language (ca, es)"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/language [put]
// @Security     BearerAuth
func (h *Handler) setLanguage(c *gin.Context) {
	var req languageRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if err := h.services.Language.Change(models.Language(req.Language)); err != nil {
		h.fail(c, errSendCommand, "language_change_failed", err, "language", req.Language)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "language": h.services.Language.Current()})
}
