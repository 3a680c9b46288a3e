package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"campanario/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newEventMock(t *testing.T) (*EventSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("mock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewEventSQLite(db), mock
}

func TestEventSQLite_Append_FillsDefaults(t *testing.T) {
	t.Parallel()
	repo, mock := newEventMock(t)

	mock.ExpectExec(regexp.QuoteMeta(insertDeviceEventSQL)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "HEATING", "Calefacción encendida", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(testCtx(t), models.DeviceEvent{
		Type:        " heating ",
		Description: "Calefacción encendida",
		Metadata:    map[string]any{"minutes": 30},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestEventSQLite_Append_DBError(t *testing.T) {
	t.Parallel()
	repo, mock := newEventMock(t)

	mock.ExpectExec("INSERT INTO device_events").WillReturnError(errors.New("database is locked"))

	err := repo.Append(testCtx(t), models.DeviceEvent{Type: "ota", Description: "x"})
	if err == nil || !strings.Contains(err.Error(), "database is locked") {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestEventSQLite_List_NoFilters(t *testing.T) {
	t.Parallel()
	repo, mock := newEventMock(t)

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	meta, _ := json.Marshal(map[string]any{"alarm_id": float64(7)})
	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("a", at, "ALARM", "Alarma creada", string(meta)).
		AddRow("b", at.Add(time.Minute), "PROTECTION", "Protección activada", nil).
		AddRow("c", at.Add(2*time.Minute), "OTA", "raw", "{not json")

	mock.ExpectQuery(regexp.QuoteMeta(selectDeviceEventsSQL + " ORDER BY occurred_at ASC")).WillReturnRows(rows)

	got, err := repo.List(testCtx(t), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 events, got %d", len(got))
	}
	b, _ := json.Marshal(got[0].Metadata)
	if string(b) != string(meta) {
		t.Fatalf("metadata = %s, want %s", b, meta)
	}
	if got[1].Metadata != nil {
		t.Fatalf("nil meta should stay nil, got %#v", got[1].Metadata)
	}
	if got[2].Metadata != "{not json" {
		t.Fatalf("malformed meta should be kept raw, got %#v", got[2].Metadata)
	}
}

func TestEventSQLite_List_Filters(t *testing.T) {
	t.Parallel()
	repo, mock := newEventMock(t)

	from := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	to := from.Add(4 * time.Hour)
	q := selectDeviceEventsSQL + " WHERE occurred_at >= ? AND occurred_at <= ? AND type = ? ORDER BY occurred_at ASC"

	mock.ExpectQuery(regexp.QuoteMeta(q)).
		WithArgs("2026-03-01 08:00:00", "2026-03-01 12:00:00", "HEATING").
		WillReturnRows(sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
			AddRow("h1", from.Add(time.Hour), "HEATING", "on", nil))

	got, err := repo.List(testCtx(t), from, to, " heating")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].EventID != "h1" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestEventSQLite_List_ScanError(t *testing.T) {
	t.Parallel()
	repo, mock := newEventMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectDeviceEventsSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
			AddRow("x", 123, "OTA", "msg", nil))

	if _, err := repo.List(testCtx(t), time.Time{}, time.Time{}, ""); err == nil {
		t.Fatalf("expected scan error")
	}
}
