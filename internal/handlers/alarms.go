package handlers

import (
	"net/http"

	"campanario/internal/models"

	"github.com/gin-gonic/gin"
)

// AlarmRequest is the editable part of a device alarm.
type AlarmRequest struct {
	Name        string `json:"nombre" example:"Misa domingo"`
	Description string `json:"descripcion,omitempty" example:"Toque de misa"`
	// 0-7, 7 = every day
	Day    int    `json:"dia" example:"7"`
	Hour   int    `json:"hora" example:"11"`
	Minute int    `json:"minuto" example:"30"`
	Action string `json:"accion" example:"Misa"`
	// minutes, Calefaccion only
	Duration int `json:"duracion,omitempty" example:"0"`
}

func (r AlarmRequest) fields() models.AlarmFields {
	return models.AlarmFields{
		Name:        r.Name,
		Description: r.Description,
		Day:         r.Day,
		Hour:        r.Hour,
		Minute:      r.Minute,
		Action:      r.Action,
		Duration:    r.Duration,
	}
}

// @Summary      Cached alarm table
// @Description  The gateway mirrors the device table; it changes only when the device sends a snapshot.
// @Tags         alarms
// @Produce      json
// @Success      200  {object}  service.AlarmsView
// @Router       /api/v1/alarms [get]
// @Security     BearerAuth
func (h *Handler) listAlarms(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Alarms.View())
}

// @Summary      Ask the device for the alarm table and stats
// @Tags         alarms
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/alarms/refresh [post]
// @Security     BearerAuth
func (h *Handler) refreshAlarms(c *gin.Context) {
	if err := h.services.Alarms.RequestSnapshot(); err != nil {
		h.fail(c, errSendCommand, "alarms_refresh_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSent})
}

// @Summary      Create an alarm
// @Description  Sent to the device; the table refreshes after its acknowledgement.
// @Tags         alarms
// @Accept       json
// @Produce      json
// @Param        body  body      AlarmRequest  true  "Alarm"
// @Success      202   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/alarms [post]
// @Security     BearerAuth
func (h *Handler) createAlarm(c *gin.Context) {
	var req AlarmRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if err := h.services.Alarms.Create(req.fields()); err != nil {
		h.fail(c, errSendCommand, "alarm_create_failed", err, "name", req.Name)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": statusSent})
}

// @Summary      Update an alarm
// @Tags         alarms
// @Accept       json
// @Produce      json
// @Param        id    path      int           true  "Alarm id"
// @Param        body  body      AlarmRequest  true  "Alarm"
// @Success      202   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/alarms/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateAlarm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req AlarmRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if err := h.services.Alarms.Update(id, req.fields()); err != nil {
		h.fail(c, errSendCommand, "alarm_update_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": statusSent, "id": id})
}

// @Summary      Enable or disable an alarm
// @Description  Sends the inverse of the cached enabled flag.
// @Tags         alarms
// @Produce      json
// @Param        id   path      int  true  "Alarm id"
// @Success      202  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/alarms/{id}/toggle [post]
// @Security     BearerAuth
func (h *Handler) toggleAlarm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.services.Alarms.Toggle(id); err != nil {
		h.fail(c, errSendCommand, "alarm_toggle_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": statusSent, "id": id})
}

// @Summary      Delete an alarm
// @Description  Requires confirm=true; otherwise nothing is sent and the prompt is returned.
// @Tags         alarms
// @Produce      json
// @Param        id       path      int   true   "Alarm id"
// @Param        confirm  query     bool  false  "Confirm the deletion"
// @Success      200      {object}  map[string]interface{}
// @Failure      503      {object}  map[string]string
// @Router       /api/v1/alarms/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteAlarm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	q := confirmation(c)
	done, err := h.services.Alarms.Delete(id, q)
	if err != nil {
		h.fail(c, errSendCommand, "alarm_delete_failed", err, "id", id)
		return
	}
	if !done {
		respondCancelled(c, q)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSent, "id": id})
}

// @Summary      Load an alarm into the edit form
// @Tags         alarms
// @Produce      json
// @Param        id   path      int  true  "Alarm id"
// @Success      200  {object}  models.AlarmFields
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/alarms/{id}/edit [post]
// @Security     BearerAuth
func (h *Handler) beginAlarmEdit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	fields, err := h.services.Alarms.BeginEdit(id)
	if err != nil {
		h.fail(c, errSendCommand, "alarm_edit_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, fields)
}

// @Summary      Leave edit mode and reset the form
// @Tags         alarms
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/alarm-form [delete]
// @Security     BearerAuth
func (h *Handler) cancelAlarmEdit(c *gin.Context) {
	h.services.Alarms.CancelEdit()
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
