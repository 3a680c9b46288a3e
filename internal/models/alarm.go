package models

// Alarm actions understood by the device scheduler.
const (
	ActionMisa        = "Misa"
	ActionDifuntos    = "Difuntos"
	ActionFiesta      = "Fiesta"
	ActionCalefaccion = "Calefaccion"
)

// EveryDay is the day value that schedules an alarm on all weekdays.
const EveryDay = 7

// Alarm is a device-owned scheduled action mirrored read-only by the client.
type Alarm struct {
	ID          int    `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
	Day         int    `json:"dia"`    // 0-7, 7 = every day
	Hour        int    `json:"hora"`   // 0-23
	Minute      int    `json:"minuto"` // 0-59
	Second      int    `json:"segundo"`
	Action      string `json:"accion"`
	Param       int    `json:"parametro"`
	Duration    int    `json:"duracion,omitempty"` // minutes, Calefaccion only
	Enabled     bool   `json:"habilitada"`

	// display helpers filled in by the device
	DayName  string `json:"diaNombre,omitempty"`
	TimeText string `json:"horaTexto,omitempty"`
}

// AlarmFields is the user-editable part of an alarm.
type AlarmFields struct {
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Day         int    `json:"dia"`
	Hour        int    `json:"hora"`
	Minute      int    `json:"minuto"`
	Action      string `json:"accion"`
	Duration    int    `json:"duracion"`
}

// FieldsOf returns the editable fields of a cached alarm.
func FieldsOf(a Alarm) AlarmFields {
	return AlarmFields{
		Name:        a.Name,
		Description: a.Description,
		Day:         a.Day,
		Hour:        a.Hour,
		Minute:      a.Minute,
		Action:      a.Action,
		Duration:    a.Duration,
	}
}

// AlarmStats summarizes the device alarm table.
type AlarmStats struct {
	Total     int  `json:"totalAlarmas"`
	Enabled   int  `json:"habilitadas"`
	Disabled  int  `json:"deshabilitadas"`
	FreeSlots int  `json:"espacioLibre"` // -1 when unknown
	MaxAlarms int  `json:"maxAlarmas,omitempty"`
	Computed  bool `json:"computed"` // derived from the cached list, not sent by the device
}
