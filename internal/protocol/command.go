package protocol

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// Outbound command tokens.
const (
	CmdGetStatus = "GET_CAMPANARIO"
	CmdMisa      = "Misa"
	CmdDifuntos  = "Difuntos"
	CmdFiesta    = "Fiesta"
	CmdStop      = "PARAR"

	CmdGetAlarms      = "GET_ALARMAS_WEB"
	CmdGetAlarmStats  = "GET_STATS_ALARMAS_WEB"
	PrefixAddAlarm    = "ADD_ALARMA_WEB"
	PrefixEditAlarm   = "EDIT_ALARMA_WEB"
	PrefixToggleAlarm = "TOGGLE_ALARMA_WEB"
	PrefixDeleteAlarm = "DELETE_ALARMA_WEB"

	PrefixHeatingOn   = "CALEFACCION_ON"
	CmdHeatingOff     = "CALEFACCION_OFF"
	CmdHeatingTimeout = "CALEFACCION_TIMEOUT"
	CmdGetHeatingTime = "GET_TIEMPOCALEFACCION"

	PrefixVerifyPIN    = "VERIFY_PIN"
	CmdGetTelegram     = "GET_CONFIG_TELEGRAM"
	PrefixSaveTelegram = "SAVE_CONFIG_TELEGRAM"
	CmdResetSystem     = "RESET_SYSTEM"

	CmdGetLanguage    = "GET_IDIOMA"
	PrefixSetLanguage = "SET_IDIOMA"

	CmdGetOTAVersion     = "GET_VERSION_OTA"
	CmdCheckUpdate       = "CHECK_UPDATE_OTA"
	CmdUpdateFirmware    = "START_UPDATE_FIRMWARE"
	CmdUpdateFilesystem  = "START_UPDATE_SPIFFS"
	CmdUpdateComplete    = "START_UPDATE_COMPLETE"
	CmdGetActiveSequence = "GET_SECUENCIA_ACTIVA"
)

// AlarmPayload is the JSON body of ADD_ALARMA_WEB and EDIT_ALARMA_WEB.
type AlarmPayload struct {
	ID          int    `json:"id,omitempty"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Day         int    `json:"dia"`
	Hour        int    `json:"hora"`
	Minute      int    `json:"minuto"`
	Second      int    `json:"segundo"`
	Action      string `json:"accion"`
	Param       int    `json:"parametro"`
	Duration    int    `json:"duracion"`
	Enabled     bool   `json:"habilitada"`
}

// AlarmToggle is the JSON body of TOGGLE_ALARMA_WEB.
type AlarmToggle struct {
	ID      int  `json:"id"`
	Enabled bool `json:"habilitada"`
}

// AlarmRef is the JSON body of DELETE_ALARMA_WEB.
type AlarmRef struct {
	ID int `json:"id"`
}

// Plain returns a bare token frame.
func Plain(token string) string {
	return token
}

// WithValue returns "PREFIX:value".
func WithValue(prefix string, v any) string {
	return fmt.Sprintf("%s:%v", prefix, v)
}

// Encoder builds structured frames. With request ids enabled every JSON
// payload carries an extra monotonic "rid" member that the device ignores.
type Encoder struct {
	requestIDs bool
	next       atomic.Uint64
}

// NewEncoder returns an encoder; requestIDs toggles the "rid" extension.
func NewEncoder(requestIDs bool) *Encoder {
	return &Encoder{requestIDs: requestIDs}
}

// WithJSON returns "PREFIX:<json>".
func (e *Encoder) WithJSON(prefix string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", prefix, err)
	}
	if e != nil && e.requestIDs {
		body, err = e.stamp(body)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", prefix, err)
		}
	}
	return prefix + ":" + string(body), nil
}

func (e *Encoder) stamp(body []byte) ([]byte, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, err
	}
	rid, _ := json.Marshal(e.next.Add(1))
	obj["rid"] = rid
	return json.Marshal(obj)
}
