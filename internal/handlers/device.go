package handlers

import (
	"net/http"

	"campanario/internal/service"

	"github.com/gin-gonic/gin"
)

type pageRequest struct {
	Path string `json:"path" binding:"required" example:"/Campanas.html"`
}

type triggerRequest struct {
	Sequence string `json:"sequence" binding:"required" example:"Misa"`
}

type heatingRequest struct {
	On *bool `json:"on" binding:"required"`
}

type minutesRequest struct {
	Minutes int `json:"minutes" example:"45"`
}

type pickerStepRequest struct {
	// 0 hundreds, 1 tens, 2 units
	Position int  `json:"position" example:"1"`
	Up       bool `json:"up" example:"true"`
}

// @Summary      Gateway snapshot
// @Description  Everything a freshly connected UI needs: connection, status word, heating, bells, alarms, config, OTA and status messages.
// @Tags         device
// @Produce      json
// @Success      200  {object}  service.Snapshot
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Report the page the UI shows
// @Description  Used to decide whether an active sequence navigates to the bells page.
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        body  body      pageRequest  true  "Page path"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/page [put]
// @Security     BearerAuth
func (h *Handler) setPage(c *gin.Context) {
	var req pageRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	h.services.Monitoring.SetPage(req.Path)
	h.respondWithStatusAndState(c, statusOK, gin.H{})
}

// @Summary      Bell state
// @Tags         bells
// @Produce      json
// @Success      200  {object}  service.BellsView
// @Router       /api/v1/bells [get]
// @Security     BearerAuth
func (h *Handler) getBells(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Bells.View())
}

// @Summary      Ring a manual sequence
// @Tags         bells
// @Accept       json
// @Produce      json
// @Param        body  body      triggerRequest  true  "Sequence (Misa, Difuntos, Fiesta)"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string  "protection lock is on"
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/bells/trigger [post]
// @Security     BearerAuth
func (h *Handler) triggerBells(c *gin.Context) {
	var req triggerRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if err := h.services.Bells.Trigger(service.Sequence(req.Sequence)); err != nil {
		h.fail(c, errSendCommand, "bells_trigger_failed", err, "sequence", req.Sequence)
		return
	}
	h.respondWithStatusAndState(c, statusSent, gin.H{"sequence": req.Sequence})
}

// @Summary      Stop the running sequence
// @Description  Requires confirm=true; otherwise nothing is sent and the prompt is returned.
// @Tags         bells
// @Produce      json
// @Param        confirm  query     bool  false  "Confirm the stop"
// @Success      200      {object}  map[string]interface{}
// @Failure      503      {object}  map[string]string
// @Router       /api/v1/bells/stop [post]
// @Security     BearerAuth
func (h *Handler) stopBells(c *gin.Context) {
	q := confirmation(c)
	done, err := h.services.Bells.Stop(q)
	if err != nil {
		h.fail(c, errSendCommand, "bells_stop_failed", err)
		return
	}
	if !done {
		respondCancelled(c, q)
		return
	}
	h.respondWithStatusAndState(c, statusSent, gin.H{})
}

// @Summary      Heating state
// @Tags         heating
// @Produce      json
// @Success      200  {object}  service.HeatingView
// @Router       /api/v1/heating [get]
// @Security     BearerAuth
func (h *Handler) getHeating(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Heating.View())
}

// @Summary      Toggle heating
// @Description  Optimistic; the next status word from the device corrects it.
// @Tags         heating
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/heating/toggle [post]
// @Security     BearerAuth
func (h *Handler) toggleHeating(c *gin.Context) {
	if err := h.services.Heating.Toggle(); err != nil {
		h.fail(c, errSendCommand, "heating_toggle_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSent, "heating": h.services.Heating.View()})
}

// @Summary      Switch heating on or off
// @Tags         heating
// @Accept       json
// @Produce      json
// @Param        body  body      heatingRequest  true  "Desired state"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/heating [put]
// @Security     BearerAuth
func (h *Handler) setHeating(c *gin.Context) {
	var req heatingRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if err := h.services.Heating.SetOn(*req.On); err != nil {
		h.fail(c, errSendCommand, "heating_set_failed", err, "on", *req.On)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSent, "heating": h.services.Heating.View()})
}

// @Summary      Set the configured heating minutes
// @Tags         heating
// @Accept       json
// @Produce      json
// @Param        body  body      minutesRequest  true  "Minutes (0-120)"
// @Success      200   {object}  service.HeatingView
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/heating/minutes [put]
// @Security     BearerAuth
func (h *Handler) setHeatingMinutes(c *gin.Context) {
	var req minutesRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	view, err := h.services.Heating.SetMinutes(req.Minutes)
	if err != nil {
		h.fail(c, errSendCommand, "heating_minutes_failed", err, "minutes", req.Minutes)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Minute picker state
// @Tags         heating
// @Produce      json
// @Success      200  {object}  service.PickerView
// @Router       /api/v1/heating/picker [get]
// @Security     BearerAuth
func (h *Handler) getPicker(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Heating.PickerView())
}

// @Summary      Open the minute picker
// @Tags         heating
// @Produce      json
// @Success      200  {object}  service.PickerView
// @Router       /api/v1/heating/picker/open [post]
// @Security     BearerAuth
func (h *Handler) openPicker(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Heating.OpenPicker())
}

// @Summary      Step one picker digit
// @Tags         heating
// @Accept       json
// @Produce      json
// @Param        body  body      pickerStepRequest  true  "Digit position and direction"
// @Success      200   {object}  service.PickerView
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/heating/picker/step [post]
// @Security     BearerAuth
func (h *Handler) stepPicker(c *gin.Context) {
	var req pickerStepRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	view, err := h.services.Heating.StepPicker(req.Position, req.Up)
	if err != nil {
		h.fail(c, errSendCommand, "heating_picker_step_failed", err, "position", req.Position)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Accept the picker value
// @Tags         heating
// @Produce      json
// @Success      200  {object}  service.HeatingView
// @Failure      400  {object}  map[string]string  "value above the device limit"
// @Router       /api/v1/heating/picker/accept [post]
// @Security     BearerAuth
func (h *Handler) acceptPicker(c *gin.Context) {
	view, err := h.services.Heating.AcceptPicker()
	if err != nil {
		h.fail(c, errSendCommand, "heating_picker_accept_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
