package models

// TelegramConfig is the device identity and notification settings.
type TelegramConfig struct {
	Name          string        `json:"nombre"`
	Location      string        `json:"ubicacion"`
	Notifications Notifications `json:"notificaciones"`
}

// Notifications toggles which device events are forwarded to Telegram.
type Notifications struct {
	Startup    bool `json:"inicio"`
	Misa       bool `json:"misa"`
	Difuntos   bool `json:"difuntos"`
	Fiesta     bool `json:"fiesta"`
	Stop       bool `json:"stop"`
	HeatingOn  bool `json:"calefaccion"`
	HeatingOff bool `json:"calefaccion_off"`
	Alarm      bool `json:"alarma"`
	Errors     bool `json:"errores"`
	Internet   bool `json:"internet"`
	Hour       bool `json:"hora"`
	HalfHour   bool `json:"mediahora"`
}

// DefaultTelegramConfig mirrors the device factory settings.
func DefaultTelegramConfig() TelegramConfig {
	return TelegramConfig{
		Notifications: Notifications{
			Startup:   true,
			Misa:      true,
			Difuntos:  true,
			Fiesta:    true,
			HeatingOn: true,
			Alarm:     true,
		},
	}
}
