// Package metrics exports the gateway and device state to Prometheus.
package metrics

import (
	"net/http"

	"campanario/internal/models"
	"campanario/internal/protocol"
	"campanario/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metrics.
var (
	framesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campanario_frames_received_total",
			Help: "Inbound device frames by decoded kind",
		},
		[]string{"kind"},
	)

	framesMalformed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campanario_frames_malformed_total",
			Help: "Inbound device frames whose payload failed to decode",
		},
		[]string{"kind"},
	)

	framesUnmatched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campanario_frames_unmatched_total",
			Help: "Inbound device frames no subsystem consumed",
		},
	)

	lastFrameTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "campanario_last_frame_timestamp_seconds",
			Help: "Unix timestamp of the last inbound device frame",
		},
	)

	deviceConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "campanario_device_connected",
			Help: "1 while the device WebSocket is open, 0 otherwise",
		},
	)

	disconnects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campanario_device_disconnects_total",
			Help: "Closed or failed device connections",
		},
	)

	statusWord = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "campanario_status_word",
			Help: "Raw value of the last ESTADO_CAMPANARIO word",
		},
	)

	statusFlag = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "campanario_status_flag",
			Help: "Decoded status word bits, 1 when set",
		},
		[]string{"flag"},
	)

	heatingOn = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "campanario_heating_on",
			Help: "1 if heating is on",
		},
	)

	heatingRemaining = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "campanario_heating_remaining_seconds",
			Help: "Seconds left on the local heating countdown",
		},
	)

	bellProtection = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "campanario_bell_protection",
			Help: "1 while manual bell triggers are locked",
		},
	)

	alarms = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "campanario_alarms",
			Help: "Device alarms by state",
		},
		[]string{"state"},
	)

	otaProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "campanario_ota_progress_percent",
			Help: "Progress of the running firmware update",
		},
	)

	uiEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campanario_ui_events_total",
			Help: "UI events published by the controllers",
		},
		[]string{"type"},
	)
)

// NewRegistry returns a registry holding every campanario metric.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(framesReceived)
	registry.MustRegister(framesMalformed)
	registry.MustRegister(framesUnmatched)
	registry.MustRegister(lastFrameTimestamp)
	registry.MustRegister(deviceConnected)
	registry.MustRegister(disconnects)
	registry.MustRegister(statusWord)
	registry.MustRegister(statusFlag)
	registry.MustRegister(heatingOn)
	registry.MustRegister(heatingRemaining)
	registry.MustRegister(bellProtection)
	registry.MustRegister(alarms)
	registry.MustRegister(otaProgress)
	registry.MustRegister(uiEvents)
	return registry
}

// Handler serves registry in the Prometheus text format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveFrame counts a dispatched frame. It has the router.Observer signature.
func ObserveFrame(msg protocol.Message, matched int) {
	kind := msg.Kind.String()
	framesReceived.WithLabelValues(kind).Inc()
	if msg.Err != nil {
		framesMalformed.WithLabelValues(kind).Inc()
	}
	if matched == 0 {
		framesUnmatched.Inc()
	}
	lastFrameTimestamp.SetToCurrentTime()
}

// Disconnected counts a closed or failed device connection.
func Disconnected() {
	disconnects.Inc()
	deviceConnected.Set(0)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func setStatus(f protocol.StatusFlags) {
	statusWord.Set(float64(f.Raw))
	statusFlag.WithLabelValues("secuencia").Set(boolToFloat(f.SequenceActive))
	statusFlag.WithLabelValues("hora").Set(boolToFloat(f.HourChime))
	statusFlag.WithLabelValues("cuartos").Set(boolToFloat(f.QuarterChime))
	statusFlag.WithLabelValues("calefaccion").Set(boolToFloat(f.Heating))
	statusFlag.WithLabelValues("sin_internet").Set(boolToFloat(f.NoInternet))
	statusFlag.WithLabelValues("proteccion_campanadas").Set(boolToFloat(f.Protection))
}

func setAlarmStats(s models.AlarmStats) {
	alarms.WithLabelValues("enabled").Set(float64(s.Enabled))
	alarms.WithLabelValues("disabled").Set(float64(s.Disabled))
}

// Publisher mirrors controller events into gauges.
func Publisher() service.Publisher {
	return service.PublisherFunc(func(ev service.Event) {
		uiEvents.WithLabelValues(ev.Type).Inc()
		switch data := ev.Data.(type) {
		case bool:
			if ev.Type == service.EventConnection {
				deviceConnected.Set(boolToFloat(data))
			}
		case protocol.StatusFlags:
			setStatus(data)
		case service.HeatingView:
			heatingOn.Set(boolToFloat(data.On))
			heatingRemaining.Set(float64(data.RemainingSeconds))
		case service.BellsView:
			bellProtection.Set(boolToFloat(data.Protected))
		case models.AlarmStats:
			setAlarmStats(data)
		case service.AlarmsView:
			setAlarmStats(data.Stats)
		case service.OTAView:
			otaProgress.Set(float64(data.Progress))
		}
	})
}
