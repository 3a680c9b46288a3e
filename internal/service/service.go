package service

import (
	"context"
	"time"

	"campanario/internal/logger"
	"campanario/internal/models"
	"campanario/internal/protocol"
	"campanario/internal/repository"
	"campanario/internal/router"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
	IssueConfigToken(userID int) (string, error)
	ParseConfigToken(token string) (int, error)
}

// Monitoring exposes the read-only gateway snapshot and the UI page.
type Monitoring interface {
	GetState(ctx context.Context) (Snapshot, error)
	SetPage(path string)
}

// BellControl triggers and stops manual sequences.
type BellControl interface {
	View() BellsView
	Trigger(seq Sequence) error
	Stop(c Confirmer) (bool, error)
}

// HeatingControl drives heating and its minute picker.
type HeatingControl interface {
	View() HeatingView
	Toggle() error
	SetOn(on bool) error
	SetMinutes(minutes int) (HeatingView, error)
	OpenPicker() PickerView
	StepPicker(pos int, up bool) (PickerView, error)
	AcceptPicker() (HeatingView, error)
	PickerView() PickerView
}

// AlarmControl mirrors and edits the device alarm table.
type AlarmControl interface {
	View() AlarmsView
	RequestSnapshot() error
	Create(f models.AlarmFields) error
	Update(id int, f models.AlarmFields) error
	Toggle(id int) error
	Delete(id int, c Confirmer) (bool, error)
	BeginEdit(id int) (models.AlarmFields, error)
	CancelEdit()
}

// ConfigControl is the PIN gated configuration section.
type ConfigControl interface {
	View() ConfigView
	VerifyPIN(ctx context.Context, pin string) (bool, error)
	LoadTelegram(ctx context.Context) (models.TelegramConfig, error)
	SaveTelegram(cfg models.TelegramConfig) error
	ResetSystem(c Confirmer) (bool, error)
	Lock()
}

// UpdateControl drives firmware updates.
type UpdateControl interface {
	View() OTAView
	Open() error
	Check() error
	Install(kind UpdateKind, c Confirmer) (bool, error)
}

// LanguageControl reads and changes the UI/device language.
type LanguageControl interface {
	Current() models.Language
	Change(lang models.Language) error
}

// EventLog exposes the device journal with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.DeviceEvent, error)
}

// Service aggregates everything the HTTP layer talks to.
type Service struct {
	Monitoring
	Bells    BellControl
	Heating  HeatingControl
	Alarms   AlarmControl
	Config   ConfigControl
	OTA      UpdateControl
	Language LanguageControl
	EventLog
	Authorization
}

// Deps are the collaborators the controllers share.
type Deps struct {
	Sender      Sender
	Publisher   Publisher
	Preferences PreferenceStore
	Journal     *EventLogService // optional
	Encoder     *protocol.Encoder
	Clock       Clock
	Log         *logger.Logger
}

// Core owns one instance of every controller. It replaces the page-level
// globals of a browser client: one Core per device connection.
type Core struct {
	Board    *StatusBoard
	Tr       *Translator
	Sync     *Synchronizer
	Bells    *Bells
	Heating  *Heating
	Alarms   *Alarms
	Config   *Configuration
	OTA      *OTA
	Language *Language

	sender  Sender
	pub     Publisher
	journal *EventLogService
	clock   Clock
	log     *logger.Logger
}

func NewCore(d Deps) *Core {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Clock == nil {
		d.Clock = SystemClock()
	}
	if d.Encoder == nil {
		d.Encoder = protocol.NewEncoder(false)
	}
	if d.Publisher == nil {
		d.Publisher = Fanout()
	}

	tr := NewTranslator(models.DefaultLanguage)
	board := NewStatusBoard(d.Clock, d.Publisher)
	heating := NewHeating(d.Sender, d.Publisher, board, tr, d.Clock, d.Log.Named("heating"))
	bells := NewBells(d.Sender, d.Publisher, board, tr, d.Clock, d.Log.Named("bells"))

	c := &Core{
		Board:    board,
		Tr:       tr,
		Heating:  heating,
		Bells:    bells,
		Sync:     NewSynchronizer(d.Sender, d.Publisher, heating, bells, d.Log.Named("sync")),
		Alarms:   NewAlarms(d.Sender, d.Encoder, d.Publisher, board, tr, d.Clock, d.Log.Named("alarms")),
		Config:   NewConfiguration(d.Sender, d.Encoder, d.Publisher, board, tr, d.Log.Named("config")),
		OTA:      NewOTA(d.Sender, d.Publisher, board, tr, d.Clock, d.Log.Named("ota")),
		Language: NewLanguage(d.Preferences, d.Sender, d.Publisher, board, tr, d.Log.Named("language")),
		sender:   d.Sender,
		pub:      d.Publisher,
		journal:  d.Journal,
		clock:    d.Clock,
		log:      d.Log,
	}
	if c.journal != nil {
		heating.OnTimeout(c.journal.RecordHeatingTimeout)
	}
	return c
}

// Routes registers every controller on r. Several controllers may see the
// same frame; VERSION_OTA feeds both the OTA and configuration views.
func (c *Core) Routes(r *router.Router) {
	r.On("sync", router.Kinds(protocol.KindStatus, protocol.KindRedirect, protocol.KindActiveSequence), c.Sync.HandleMessage)
	r.On("bells", router.Kinds(protocol.KindProtectionOn, protocol.KindProtectionOff, protocol.KindBellStrike), c.Bells.HandleMessage)
	r.On("heating", router.Kinds(
		protocol.KindHeatingOn, protocol.KindHeatingOff, protocol.KindHeatingError, protocol.KindHeatingTime,
	), c.Heating.HandleMessage)
	r.On("alarms", router.Kinds(
		protocol.KindAlarms, protocol.KindAlarmStats, protocol.KindAlarmCreated, protocol.KindAlarmModified,
		protocol.KindAlarmDeleted, protocol.KindAlarmToggled, protocol.KindAlarmError,
	), c.Alarms.HandleMessage)
	r.On("config", router.Kinds(
		protocol.KindPinOK, protocol.KindPinError, protocol.KindTelegramConfig, protocol.KindOTAVersion,
	), c.Config.HandleMessage)
	r.On("ota", router.Kinds(
		protocol.KindOTAVersion, protocol.KindUpdateAvailable, protocol.KindNoUpdate,
		protocol.KindOTAProgress, protocol.KindOTASuccess, protocol.KindOTAError,
	), c.OTA.HandleMessage)
	r.On("language", router.Kinds(
		protocol.KindLanguageCurrent, protocol.KindLanguageChanged, protocol.KindLanguageServer, protocol.KindLanguageError,
	), c.Language.HandleMessage)
	if c.journal != nil {
		r.On("journal", router.Any(), c.journal.Record)
	}
}

// OnConnected runs once per successful dial.
func (c *Core) OnConnected() {
	c.OTA.OnConnected()
	c.Board.Post(LevelSuccess, c.Tr.T("conectado"))
	c.pub.Publish(Event{Type: EventConnection, Data: true})
	requests := []struct {
		name string
		send func() error
	}{
		{"status", c.Sync.RequestStatus},
		{"language", c.Language.RequestCurrent},
		{"alarms", c.Alarms.RequestSnapshot},
		{"version", c.OTA.RequestVersion},
	}
	for _, req := range requests {
		if err := req.send(); err != nil {
			c.log.Warnw("initial_request_failed", "request", req.name, "err", err)
		}
	}
}

// OnDisconnected runs after every close or failed dial.
func (c *Core) OnDisconnected(err error) {
	if err != nil {
		c.log.Debugw("device_disconnected", "err", err)
	}
	c.Heating.OnDisconnected()
	c.Board.Post(LevelError, c.Tr.T("conexion_perdida"))
	c.pub.Publish(Event{Type: EventConnection, Data: false})
}

// Snapshot is everything a freshly connected UI needs to render.
type Snapshot struct {
	Connected bool                  `json:"connected"`
	Page      string                `json:"page"`
	Status    *protocol.StatusFlags `json:"status,omitempty"`
	Language  models.Language       `json:"language"`
	Heating   HeatingView           `json:"heating"`
	Picker    PickerView            `json:"picker"`
	Bells     BellsView             `json:"bells"`
	Alarms    AlarmsView            `json:"alarms"`
	Config    ConfigView            `json:"config"`
	OTA       OTAView               `json:"ota"`
	Messages  []StatusMessage       `json:"messages"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func (c *Core) Snapshot() Snapshot {
	s := Snapshot{
		Connected: c.sender.Connected(),
		Page:      c.Sync.Page(),
		Language:  c.Language.Current(),
		Heating:   c.Heating.View(),
		Picker:    c.Heating.PickerView(),
		Bells:     c.Bells.View(),
		Alarms:    c.Alarms.View(),
		Config:    c.Config.View(),
		OTA:       c.OTA.View(),
		Messages:  c.Board.Messages(),
		UpdatedAt: c.clock.Now().UTC(),
	}
	if w, ok := c.Sync.Status(); ok {
		flags := w.Flags()
		s.Status = &flags
	}
	return s
}

// NewService wires the controllers of core and the repositories into the
// aggregate the handlers use.
func NewService(core *Core, repos *repository.Repository, journal *EventLogService, auth AuthConfig) *Service {
	return &Service{
		Monitoring:    NewMonitoringService(core),
		Bells:         core.Bells,
		Heating:       core.Heating,
		Alarms:        core.Alarms,
		Config:        core.Config,
		OTA:           core.OTA,
		Language:      core.Language,
		EventLog:      journal,
		Authorization: NewAuthService(repos.Auth, auth),
	}
}
