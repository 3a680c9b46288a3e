package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"campanario/internal/models"
)

// ErrMalformed marks a frame whose prefix was recognized but whose payload could not be parsed.
var ErrMalformed = errors.New("malformed payload")

// Kind identifies an inbound frame type.
type Kind int

const (
	KindUnknown Kind = iota
	KindStatus
	KindRedirect
	KindBellStrike
	KindActiveSequence
	KindProtectionOn
	KindProtectionOff
	KindAlarms
	KindAlarmStats
	KindAlarmCreated
	KindAlarmModified
	KindAlarmDeleted
	KindAlarmToggled
	KindAlarmError
	KindHeatingOn
	KindHeatingOff
	KindHeatingError
	KindHeatingTime
	KindPinOK
	KindPinError
	KindTelegramConfig
	KindLanguageCurrent
	KindLanguageChanged
	KindLanguageServer
	KindLanguageError
	KindOTAVersion
	KindUpdateAvailable
	KindNoUpdate
	KindOTAProgress
	KindOTASuccess
	KindOTAError
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindStatus:          "status",
	KindRedirect:        "redirect",
	KindBellStrike:      "bell_strike",
	KindActiveSequence:  "active_sequence",
	KindProtectionOn:    "protection_on",
	KindProtectionOff:   "protection_off",
	KindAlarms:          "alarms",
	KindAlarmStats:      "alarm_stats",
	KindAlarmCreated:    "alarm_created",
	KindAlarmModified:   "alarm_modified",
	KindAlarmDeleted:    "alarm_deleted",
	KindAlarmToggled:    "alarm_toggled",
	KindAlarmError:      "alarm_error",
	KindHeatingOn:       "heating_on",
	KindHeatingOff:      "heating_off",
	KindHeatingError:    "heating_error",
	KindHeatingTime:     "heating_time",
	KindPinOK:           "pin_ok",
	KindPinError:        "pin_error",
	KindTelegramConfig:  "telegram_config",
	KindLanguageCurrent: "language_current",
	KindLanguageChanged: "language_changed",
	KindLanguageServer:  "language_server",
	KindLanguageError:   "language_error",
	KindOTAVersion:      "ota_version",
	KindUpdateAvailable: "update_available",
	KindNoUpdate:        "no_update",
	KindOTAProgress:     "ota_progress",
	KindOTASuccess:      "ota_success",
	KindOTAError:        "ota_error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// UpdateInfo is the payload of UPDATE_AVAILABLE.
type UpdateInfo struct {
	Version     string `json:"version"`
	FirmwareURL string `json:"firmware_url,omitempty"`
	DataURL     string `json:"data_url,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Message is one inbound frame decoded once at the transport boundary.
// Only the payload fields relevant to Kind are populated.
type Message struct {
	Kind Kind
	Raw  string
	Body string // text after the prefix
	Err  error  // payload parse failure, Kind is still set

	Status   StatusWord
	Int      int  // seconds, minutes, alarm id, bell number or percent
	HasInt   bool // Int was present in the frame
	Bool     bool
	HasBool  bool // Bool was present in the frame
	Text     string
	Language models.Language
	Alarms   []models.Alarm
	Stats    models.AlarmStats
	Telegram models.TelegramConfig
	Update   UpdateInfo
}

type decoder func(m *Message) error

type prefixRule struct {
	prefix string
	kind   Kind
	decode decoder
}

// exact tokens carry no payload.
var exactTokens = map[string]Kind{
	"PIN_OK":    KindPinOK,
	"PIN_ERROR": KindPinError,
	"NO_UPDATE": KindNoUpdate,
}

// prefixRules are tested in order; the first match wins.
var prefixRules = []prefixRule{
	{"ESTADO_CAMPANARIO:", KindStatus, decodeStatus},
	{"REDIRECT:", KindRedirect, decodeText},
	{"CAMPANA:", KindBellStrike, decodeInt},
	{"SECUENCIAACTIVA:", KindActiveSequence, decodeInt},
	{"PROTECCION:ON", KindProtectionOn, nil},
	{"PROTECCION:OFF", KindProtectionOff, nil},
	{"ALARMAS_WEB:", KindAlarms, decodeAlarms},
	{"STATS_ALARMAS_WEB:", KindAlarmStats, decodeStats},
	{"ALARMA_CREADA_WEB:", KindAlarmCreated, decodeInt},
	{"ALARMA_MODIFICADA_WEB:", KindAlarmModified, decodeInt},
	{"ALARMA_ELIMINADA_WEB:", KindAlarmDeleted, decodeInt},
	{"ALARMA_TOGGLED_WEB:", KindAlarmToggled, decodeToggle},
	{"ERROR_ALARMA_WEB:", KindAlarmError, decodeText},
	{"CALEFACCION:ON", KindHeatingOn, decodeOptionalMinutes},
	{"CALEFACCION:OFF", KindHeatingOff, nil},
	{"CALEFACCION:ERROR", KindHeatingError, decodeErrorText},
	{"ESTADO_CALEFACCION:", KindHeatingOff, decodeLegacyHeating},
	{"TIEMPO_CALEFACCION:", KindHeatingTime, decodeInt},
	{"CONFIG_TELEGRAM:", KindTelegramConfig, decodeTelegram},
	{"IDIOMA_ACTUAL:", KindLanguageCurrent, decodeLanguage},
	{"IDIOMA_CAMBIADO:", KindLanguageChanged, decodeLanguage},
	{"IDIOMA_SERVIDOR:", KindLanguageServer, decodeLanguage},
	{"ERROR_IDIOMA:", KindLanguageError, decodeText},
	{"VERSION_OTA:", KindOTAVersion, decodeText},
	{"UPDATE_AVAILABLE:", KindUpdateAvailable, decodeUpdate},
	{"OTA_PROGRESS:", KindOTAProgress, decodeProgress},
	{"OTA_SUCCESS:", KindOTASuccess, decodeText},
	{"OTA_ERROR:", KindOTAError, decodeText},
}

// Decode classifies a raw text frame. It never fails: unrecognized frames
// come back as KindUnknown and bad payloads set Err.
func Decode(raw string) Message {
	m := Message{Raw: raw}
	frame := strings.TrimRight(raw, "\r\n")
	if kind, ok := exactTokens[frame]; ok {
		m.Kind = kind
		return m
	}
	for _, rule := range prefixRules {
		if !strings.HasPrefix(frame, rule.prefix) {
			continue
		}
		m.Kind = rule.kind
		m.Body = frame[len(rule.prefix):]
		if rule.decode != nil {
			if err := rule.decode(&m); err != nil {
				m.Err = fmt.Errorf("%s %q: %w", rule.kind, m.Body, err)
			}
		}
		return m
	}
	return m
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrMalformed
	}
	return n, nil
}

func decodeStatus(m *Message) error {
	n, err := parseInt(m.Body)
	if err != nil {
		return err
	}
	m.Status = StatusWord(n)
	m.Int, m.HasInt = n, true
	return nil
}

func decodeInt(m *Message) error {
	n, err := parseInt(m.Body)
	if err != nil {
		return err
	}
	m.Int, m.HasInt = n, true
	return nil
}

func decodeText(m *Message) error {
	m.Text = m.Body
	return nil
}

// decodeErrorText handles "CALEFACCION:ERROR" with an optional ":reason".
func decodeErrorText(m *Message) error {
	m.Text = strings.TrimPrefix(m.Body, ":")
	return nil
}

// decodeOptionalMinutes handles "CALEFACCION:ON" and "CALEFACCION:ON:<minutes>".
func decodeOptionalMinutes(m *Message) error {
	rest := m.Body
	if rest == "" {
		return nil
	}
	if !strings.HasPrefix(rest, ":") {
		return ErrMalformed
	}
	n, err := parseInt(rest[1:])
	if err != nil {
		return err
	}
	m.Int, m.HasInt = n, true
	return nil
}

// legacy ESTADO_CALEFACCION:ON|OFF maps onto the current heating kinds.
func decodeLegacyHeating(m *Message) error {
	switch strings.TrimSpace(m.Body) {
	case "ON":
		m.Kind = KindHeatingOn
	case "OFF":
		m.Kind = KindHeatingOff
	default:
		return ErrMalformed
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE", "ON", "1":
		return true, nil
	case "FALSE", "OFF", "0":
		return false, nil
	}
	return false, ErrMalformed
}

// decodeToggle handles "<id>[:<true|false|ON|OFF>]".
func decodeToggle(m *Message) error {
	id, state, ok := strings.Cut(m.Body, ":")
	n, err := parseInt(id)
	if err != nil {
		return err
	}
	m.Int, m.HasInt = n, true
	if !ok {
		return nil
	}
	b, err := parseBool(state)
	if err != nil {
		return err
	}
	m.Bool, m.HasBool = b, true
	return nil
}

func decodeLanguage(m *Message) error {
	lang := models.Language(strings.ToLower(strings.TrimSpace(m.Body)))
	if !lang.Valid() {
		return ErrMalformed
	}
	m.Language = lang
	m.Text = string(lang)
	return nil
}

type alarmsEnvelope struct {
	Alarms []models.Alarm `json:"alarmas"`
}

func decodeAlarms(m *Message) error {
	var env alarmsEnvelope
	if err := json.Unmarshal([]byte(m.Body), &env); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Alarms == nil {
		env.Alarms = []models.Alarm{}
	}
	m.Alarms = env.Alarms
	return nil
}

func decodeStats(m *Message) error {
	stats := models.AlarmStats{FreeSlots: -1}
	if err := json.Unmarshal([]byte(m.Body), &stats); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	m.Stats = stats
	return nil
}

func decodeTelegram(m *Message) error {
	cfg := models.DefaultTelegramConfig()
	if err := json.Unmarshal([]byte(m.Body), &cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	m.Telegram = cfg
	return nil
}

// decodeUpdate handles "<version>:<fwUrl>:<fsUrl>:<notes>". URL schemes
// split on ':' are rejoined so "https://host/fw.bin" survives intact.
func decodeUpdate(m *Message) error {
	parts := joinSchemes(strings.Split(m.Body, ":"))
	if len(parts) == 0 || strings.TrimSpace(parts[0]) == "" {
		return ErrMalformed
	}
	info := UpdateInfo{Version: parts[0]}
	if len(parts) > 1 {
		info.FirmwareURL = parts[1]
	}
	if len(parts) > 2 {
		info.DataURL = parts[2]
	}
	if len(parts) > 3 {
		info.Notes = strings.Join(parts[3:], ":")
	}
	m.Update = info
	m.Text = info.Version
	return nil
}

func joinSchemes(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	// set while the last token is "scheme://host" with no path yet, so a port may follow
	hostOnly := false
	for _, tok := range tokens {
		switch {
		case strings.HasPrefix(tok, "//") && len(out) > 0:
			out[len(out)-1] += ":" + tok
			hostOnly = !strings.Contains(tok[2:], "/")
			continue
		case hostOnly && startsWithDigit(tok):
			out[len(out)-1] += ":" + tok
			hostOnly = false
			continue
		}
		hostOnly = false
		out = append(out, tok)
	}
	return out
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// decodeProgress handles "<pct>[:<message>]".
func decodeProgress(m *Message) error {
	pct, text, _ := strings.Cut(m.Body, ":")
	n, err := parseInt(pct)
	if err != nil {
		return err
	}
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	m.Int, m.HasInt = n, true
	m.Text = text
	return nil
}
