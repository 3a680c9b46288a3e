package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"campanario/internal/logger"
	"campanario/internal/models"
	"campanario/internal/protocol"
	"campanario/internal/repository"

	"github.com/google/uuid"
)

// Journal entry types.
const (
	JournalHeating    = "HEATING"
	JournalProtection = "PROTECTION"
	JournalAlarm      = "ALARM"
	JournalOTA        = "OTA"
	JournalLanguage   = "LANGUAGE"
	JournalNavigation = "NAVIGATION"
	JournalStatus     = "STATUS"
	JournalError      = "ERROR"
)

var journalTypes = map[string]struct{}{
	JournalHeating:    {},
	JournalProtection: {},
	JournalAlarm:      {},
	JournalOTA:        {},
	JournalLanguage:   {},
	JournalNavigation: {},
	JournalStatus:     {},
	JournalError:      {},
}

// IsJournalType reports whether typ names an entry type the journal writes.
// Case and surrounding spaces are ignored.
func IsJournalType(typ string) bool {
	_, ok := journalTypes[normalizeEventType(typ)]
	return ok
}

const journalWriteTimeout = 2 * time.Second

// LogFilter selects journal entries by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", HEATING, PROTECTION, ALARM, OTA, LANGUAGE, NAVIGATION, STATUS, ERROR
}

// EventLogService journals significant device frames and lists them back.
type EventLogService struct {
	eventRepo repository.EventRepo
	log       *logger.Logger
	now       func() time.Time

	mu         sync.Mutex
	lastStatus protocol.StatusWord
	haveStatus bool
}

func NewEventLogService(eventRepo repository.EventRepo, log *logger.Logger) *EventLogService {
	if log == nil {
		log = logger.Nop()
	}
	return &EventLogService{eventRepo: eventRepo, log: log, now: time.Now}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from, to := normalizeToUTC(f.From), normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}
	return from, to, normalizeEventType(f.Type), nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.DeviceEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, typ)
}

// Append writes one entry, filling id and timestamp.
func (s *EventLogService) Append(typ, description string, meta any) {
	ev := models.DeviceEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  s.now().UTC(),
		Type:        typ,
		Description: description,
		Metadata:    meta,
	}
	ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
	defer cancel()
	if err := s.eventRepo.Append(ctx, ev); err != nil {
		s.log.Warnw("journal_append_failed", "type", typ, "err", err)
	}
}

// Record journals a decoded frame if it is worth keeping.
func (s *EventLogService) Record(msg protocol.Message) {
	if msg.Err != nil {
		return
	}
	switch msg.Kind {
	case protocol.KindStatus:
		s.mu.Lock()
		changed := !s.haveStatus || s.lastStatus != msg.Status
		s.lastStatus, s.haveStatus = msg.Status, true
		s.mu.Unlock()
		if changed {
			s.Append(JournalStatus, fmt.Sprintf("Status word %#02x", int(msg.Status)), msg.Status.Flags())
		}
	case protocol.KindHeatingOn:
		var meta any
		if msg.HasInt {
			meta = map[string]any{"minutes": msg.Int}
		}
		s.Append(JournalHeating, "Heating on", meta)
	case protocol.KindHeatingOff:
		s.Append(JournalHeating, "Heating off", nil)
	case protocol.KindHeatingError:
		s.Append(JournalError, "Heating could not start: "+msg.Text, nil)
	case protocol.KindProtectionOn:
		s.Append(JournalProtection, "Bell protection on", nil)
	case protocol.KindProtectionOff:
		s.Append(JournalProtection, "Bell protection off", nil)
	case protocol.KindAlarmCreated:
		s.Append(JournalAlarm, "Alarm created", map[string]any{"id": msg.Int})
	case protocol.KindAlarmModified:
		s.Append(JournalAlarm, "Alarm modified", map[string]any{"id": msg.Int})
	case protocol.KindAlarmDeleted:
		s.Append(JournalAlarm, "Alarm deleted", map[string]any{"id": msg.Int})
	case protocol.KindAlarmToggled:
		meta := map[string]any{"id": msg.Int}
		if msg.HasBool {
			meta["enabled"] = msg.Bool
		}
		s.Append(JournalAlarm, "Alarm toggled", meta)
	case protocol.KindAlarmError:
		s.Append(JournalError, "Alarm error: "+msg.Text, nil)
	case protocol.KindOTASuccess:
		s.Append(JournalOTA, "Update installed", map[string]any{"version": msg.Text})
	case protocol.KindOTAError:
		s.Append(JournalOTA, "Update failed: "+msg.Text, nil)
	case protocol.KindLanguageChanged:
		s.Append(JournalLanguage, "Language changed", map[string]any{"language": msg.Text})
	case protocol.KindRedirect:
		s.Append(JournalNavigation, "Redirect to "+msg.Text, nil)
	}
}

// RecordHeatingTimeout journals a countdown that ran out locally.
func (s *EventLogService) RecordHeatingTimeout() {
	s.Append(JournalHeating, "Heating countdown finished", nil)
}
