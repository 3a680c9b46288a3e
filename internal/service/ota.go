package service

import (
	"math/rand/v2"
	"sync"
	"time"

	"campanario/internal/logger"
	"campanario/internal/protocol"
)

const (
	simulationStep     = time.Second
	simulationCeiling  = 90
	simulationMaxSteps = 5
	simulationTimeout  = 5 * time.Minute
	reloadDelay        = 3 * time.Second
)

// OTAState is the update session state.
type OTAState string

const (
	OTAIdle            OTAState = "IDLE"
	OTAChecking        OTAState = "CHECKING"
	OTAUpdateAvailable OTAState = "UPDATE_AVAILABLE"
	OTANoUpdate        OTAState = "NO_UPDATE"
	OTAInstalling      OTAState = "INSTALLING"
	OTASuccess         OTAState = "SUCCESS"
	OTAError           OTAState = "ERROR"
)

// UpdateKind selects what gets flashed.
type UpdateKind string

const (
	UpdateFirmware   UpdateKind = "firmware"
	UpdateFilesystem UpdateKind = "filesystem"
	UpdateBoth       UpdateKind = "both"
)

var updateCommands = map[UpdateKind]string{
	UpdateFirmware:   protocol.CmdUpdateFirmware,
	UpdateFilesystem: protocol.CmdUpdateFilesystem,
	UpdateBoth:       protocol.CmdUpdateComplete,
}

// OTAView is the published update session.
type OTAView struct {
	State            OTAState   `json:"state"`
	CurrentVersion   string     `json:"current_version,omitempty"`
	AvailableVersion string     `json:"available_version,omitempty"`
	FirmwareURL      string     `json:"firmware_url,omitempty"`
	DataURL          string     `json:"data_url,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	Updating         bool       `json:"updating"`
	Kind             UpdateKind `json:"kind,omitempty"`
	Progress         int        `json:"progress"`
	Message          string     `json:"message,omitempty"`
	Error            string     `json:"error,omitempty"`
}

type simulation struct {
	ticker  Ticker
	done    chan struct{}
	started time.Time
}

// OTA drives the update flow. While flashing, the device socket usually
// drops, so progress is simulated until an authoritative frame arrives.
type OTA struct {
	mu sync.Mutex

	sender Sender
	pub    Publisher
	board  *StatusBoard
	tr     *Translator
	clock  Clock
	log    *logger.Logger
	// step returns the next simulated increment, 1 to simulationMaxSteps.
	step func() int

	view   OTAView
	sim    *simulation
	reload Timer

	// settling: the next VERSION_OTA decides how an interrupted install ended.
	settling bool
}

func NewOTA(sender Sender, pub Publisher, board *StatusBoard, tr *Translator, clock Clock, log *logger.Logger) *OTA {
	return &OTA{
		sender: sender,
		pub:    pub,
		board:  board,
		tr:     tr,
		clock:  clock,
		log:    log,
		step:   func() int { return 1 + rand.IntN(simulationMaxSteps) },
		view:   OTAView{State: OTAIdle},
	}
}

func (o *OTA) View() OTAView {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.view
}

func (o *OTA) publish(v OTAView) {
	o.pub.Publish(Event{Type: EventOTA, Data: v})
}

// Open resets the session and asks for the installed version.
// An update in progress is left untouched.
func (o *OTA) Open() error {
	o.mu.Lock()
	if !o.view.Updating {
		o.view = OTAView{State: OTAIdle, CurrentVersion: o.view.CurrentVersion}
	}
	v := o.view
	o.mu.Unlock()
	o.publish(v)
	if v.Updating || !o.sender.Connected() {
		return nil
	}
	return o.RequestVersion()
}

// RequestVersion asks the device for its firmware version.
func (o *OTA) RequestVersion() error {
	return o.sender.Send(protocol.Plain(protocol.CmdGetOTAVersion))
}

// Check asks the device whether an update exists.
func (o *OTA) Check() error {
	if !o.sender.Connected() {
		o.fail(o.tr.T("sin_conexion"))
		return ErrNotConnected
	}
	o.mu.Lock()
	if o.view.Updating {
		o.mu.Unlock()
		return invalid("ota", "actualizando")
	}
	o.view.State = OTAChecking
	o.view.Error = ""
	o.view.Message = o.tr.T("buscando_actualizacion")
	v := o.view
	o.mu.Unlock()

	o.publish(v)
	return o.sender.Send(protocol.Plain(protocol.CmdCheckUpdate))
}

// Install starts flashing after confirmation. A declined prompt returns (false, nil).
func (o *OTA) Install(kind UpdateKind, c Confirmer) (bool, error) {
	cmd, ok := updateCommands[kind]
	if !ok {
		return false, invalid("kind", "tipo_actualizacion")
	}
	o.mu.Lock()
	state, updating := o.view.State, o.view.Updating
	o.mu.Unlock()
	if updating {
		return false, invalid("ota", "actualizando")
	}
	if state != OTAUpdateAvailable {
		return false, ErrNoUpdate
	}
	if !c.Confirm(o.tr.T("confirmar_actualizar")) {
		return false, nil
	}
	if !o.sender.Connected() {
		o.fail(o.tr.T("sin_conexion"))
		return true, ErrNotConnected
	}
	if err := o.sender.Send(protocol.Plain(cmd)); err != nil {
		o.fail(err.Error())
		return true, err
	}

	o.mu.Lock()
	o.view.State = OTAInstalling
	o.view.Updating = true
	o.view.Kind = kind
	o.view.Progress = 0
	o.view.Error = ""
	o.view.Message = o.tr.T("actualizando")
	o.settling = false
	o.startSimulationLocked()
	v := o.view
	o.mu.Unlock()

	o.log.Infow("ota_install_started", "kind", string(kind), "version", v.AvailableVersion)
	o.publish(v)
	return true, nil
}

func (o *OTA) fail(reason string) {
	o.mu.Lock()
	o.stopSimulationLocked()
	o.settling = false
	o.view.State = OTAError
	o.view.Updating = false
	o.view.Error = reason
	v := o.view
	o.mu.Unlock()
	o.board.Post(LevelError, reason)
	o.publish(v)
}

func (o *OTA) startSimulationLocked() {
	o.stopSimulationLocked()
	sim := &simulation{
		ticker:  o.clock.NewTicker(simulationStep),
		done:    make(chan struct{}),
		started: o.clock.Now(),
	}
	o.sim = sim
	go func() {
		for {
			select {
			case <-sim.done:
				return
			case <-sim.ticker.C():
				if !o.advance(sim) {
					return
				}
			}
		}
	}()
}

func (o *OTA) stopSimulationLocked() {
	if o.sim == nil {
		return
	}
	o.sim.ticker.Stop()
	close(o.sim.done)
	o.sim = nil
}

// advance moves simulated progress one step; false once the simulation ended.
func (o *OTA) advance(sim *simulation) bool {
	o.mu.Lock()
	if o.sim != sim {
		o.mu.Unlock()
		return false
	}
	if o.clock.Now().Sub(sim.started) >= simulationTimeout {
		o.stopSimulationLocked()
		o.settling = true
		o.mu.Unlock()
		o.log.Warnw("ota_simulation_timeout")
		if o.sender.Connected() {
			if err := o.RequestVersion(); err != nil {
				o.log.Warnw("ota_version_request_failed", "err", err)
			}
		}
		return false
	}
	if o.view.Progress < simulationCeiling {
		o.view.Progress = min(simulationCeiling, o.view.Progress+o.step())
	}
	v := o.view
	o.mu.Unlock()
	o.publish(v)
	return true
}

// OnConnected marks an install that outlived the socket as settling: the
// version reported after the reconnect tells whether it took.
func (o *OTA) OnConnected() {
	o.mu.Lock()
	if o.view.Updating {
		o.settling = true
	}
	o.mu.Unlock()
}

// succeedLocked ends the install and schedules the page reload.
func (o *OTA) succeedLocked(version string) string {
	o.stopSimulationLocked()
	o.settling = false
	o.view.State = OTASuccess
	o.view.Updating = false
	o.view.Progress = 100
	if version != "" {
		o.view.CurrentVersion = version
	}
	o.view.Message = o.tr.T("actualizacion_ok")
	if o.reload != nil {
		o.reload.Stop()
	}
	o.reload = o.clock.AfterFunc(reloadDelay, func() {
		o.pub.Publish(Event{Type: EventReload})
	})
	return o.view.Message
}

func (o *OTA) HandleMessage(msg protocol.Message) {
	o.mu.Lock()
	var posted string
	switch msg.Kind {
	case protocol.KindOTAVersion:
		o.view.CurrentVersion = msg.Text
		if o.settling && o.view.Updating {
			if msg.Text == "" || msg.Text != o.view.AvailableVersion {
				want := o.view.AvailableVersion
				o.mu.Unlock()
				o.log.Warnw("ota_install_not_applied", "version", msg.Text, "expected", want)
				o.fail(o.tr.T("actualizacion_fallida"))
				return
			}
			posted = o.succeedLocked(msg.Text)
		}
	case protocol.KindUpdateAvailable:
		if msg.Err != nil {
			o.mu.Unlock()
			o.log.Warnw("ota_update_frame_invalid", "frame", msg.Raw, "err", msg.Err)
			return
		}
		if o.view.Updating {
			o.mu.Unlock()
			o.log.Infow("ota_update_frame_ignored", "version", msg.Update.Version)
			return
		}
		o.view.State = OTAUpdateAvailable
		o.view.AvailableVersion = msg.Update.Version
		o.view.FirmwareURL = msg.Update.FirmwareURL
		o.view.DataURL = msg.Update.DataURL
		o.view.Notes = msg.Update.Notes
		o.view.Message = ""
	case protocol.KindNoUpdate:
		o.view.State = OTANoUpdate
		o.view.AvailableVersion = ""
		o.view.Message = ""
	case protocol.KindOTAProgress:
		if msg.Err != nil {
			o.mu.Unlock()
			o.log.Warnw("ota_progress_invalid", "frame", msg.Raw, "err", msg.Err)
			return
		}
		o.view.Progress = msg.Int
		if msg.Text != "" {
			o.view.Message = msg.Text
		}
	case protocol.KindOTASuccess:
		posted = o.succeedLocked(msg.Text)
	case protocol.KindOTAError:
		o.mu.Unlock()
		o.log.Warnw("ota_device_error", "message", msg.Text)
		o.fail(msg.Text)
		return
	default:
		o.mu.Unlock()
		return
	}
	v := o.view
	o.mu.Unlock()

	if posted != "" {
		o.board.Post(LevelSuccess, posted)
	}
	o.publish(v)
}
