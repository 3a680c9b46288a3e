package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"campanario/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errRangeOrder  = "'from' must be <= 'to'"
	errTypeUnknown = "unknown 'type'; see the journal entry types"
	errLoadLogs    = "failed to load journal"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// @Summary      List device journal entries
// @Description  Journal of significant device frames. Filter by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD') and entry type. A date-only 'to' covers the whole day.
// @Tags         logs
// @Produce      json
// @Param        from  query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2026-03-01)
// @Param        to    query   string  false  "End of range. Date-only means end of that day."  example(2026-03-31)
// @Param        type  query   string  false  "Entry type, case-insensitive"  Enums(HEATING,PROTECTION,ALARM,OTA,LANGUAGE,NAVIGATION,STATUS,ERROR)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	filter, msg := journalFilter(c.Query("from"), c.Query("to"), c.Query("type"))
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	events, err := h.services.EventLog.List(c.Request.Context(), filter)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("logs_list_failed", "err", err, "from", filter.From, "to", filter.To, "type", filter.Type)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errLoadLogs})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// journalFilter builds the list filter from raw query values. A non-empty
// message means the request is rejected with 400.
func journalFilter(fromQ, toQ, typeQ string) (service.LogFilter, string) {
	var f service.LogFilter
	var err error
	if fromQ != "" {
		if f.From, err = parseQueryTime(fromQ); err != nil {
			return f, errFromInvalid
		}
	}
	if toQ != "" {
		if f.To, err = parseQueryTime(toQ); err != nil {
			return f, errToInvalid
		}
		if !strings.ContainsAny(toQ, "T ") {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return f, errRangeOrder
	}
	if typ := strings.ToUpper(strings.TrimSpace(typeQ)); typ != "" {
		if !service.IsJournalType(typ) {
			return f, errTypeUnknown
		}
		f.Type = typ
	}
	return f, ""
}

// parseQueryTime accepts RFC3339, date-time and date-only strings, normalized to UTC.
func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: want RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'", s)
}
