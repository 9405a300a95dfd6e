// Package metrics exposes the controller's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GeekMada/hydropi/internal/logic"
)

// Metrics holds the registered collectors. A nil *Metrics is valid and
// records nothing, so callers never need to guard.
type Metrics struct {
	temperature  prometheus.Gauge
	tempValid    prometheus.Gauge
	dayPeriod    prometheus.Gauge
	growthStage  *prometheus.GaugeVec
	actuators    *prometheus.GaugeVec
	mqttUp       prometheus.Gauge
	ticks        prometheus.Counter
	sensorErrors prometheus.Counter
	transitions  *prometheus.CounterVec
	controlReqs  prometheus.Counter
}

// New creates and registers the collectors with the given registerer.
// Production passes prometheus.DefaultRegisterer; tests pass their own
// registry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hydropi_temperature_celsius",
			Help: "Last adopted enclosure temperature in degrees Celsius.",
		}),
		tempValid: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hydropi_temperature_valid",
			Help: "Whether the controller holds a temperature reading (1) or is still waiting for the probe (0).",
		}),
		dayPeriod: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hydropi_day_period",
			Help: "Current period: 1 during day hours, 0 at night.",
		}),
		growthStage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hydropi_growth_stage",
			Help: "Active growth stage (1 for the current stage, 0 otherwise).",
		}, []string{"stage"}),
		actuators: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hydropi_actuator_state",
			Help: "Actuator relay state (1 on, 0 off).",
		}, []string{"actuator"}),
		mqttUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hydropi_mqtt_connected",
			Help: "Whether the MQTT broker connection is up.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hydropi_control_ticks_total",
			Help: "Total control ticks executed.",
		}),
		sensorErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hydropi_sensor_read_errors_total",
			Help: "Total failed probe reads.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hydropi_transitions_total",
			Help: "Total state transitions by event type.",
		}, []string{"event"}),
		controlReqs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hydropi_control_requests_total",
			Help: "Total accepted control endpoint requests.",
		}),
	}

	reg.MustRegister(
		m.temperature,
		m.tempValid,
		m.dayPeriod,
		m.growthStage,
		m.actuators,
		m.mqttUp,
		m.ticks,
		m.sensorErrors,
		m.transitions,
		m.controlReqs,
	)

	return m
}

// ObserveTick updates the per-tick gauges and the tick counter.
func (m *Metrics) ObserveTick(phase logic.Phase, day bool, tempC float64, tempValid bool, cmds logic.Commands) {
	if m == nil {
		return
	}

	m.ticks.Inc()

	if tempValid {
		m.temperature.Set(tempC)
	}
	m.tempValid.Set(boolGauge(tempValid))
	m.dayPeriod.Set(boolGauge(day))

	for _, p := range []logic.Phase{logic.PhaseGermination, logic.PhaseGrowth, logic.PhaseFlowering} {
		m.growthStage.WithLabelValues(p.Label()).Set(boolGauge(p == phase))
	}

	m.actuators.WithLabelValues("fan").Set(boolGauge(cmds.Fan))
	m.actuators.WithLabelValues("heater").Set(boolGauge(cmds.Heater))
	m.actuators.WithLabelValues("light").Set(boolGauge(cmds.Light))
}

// ObserveEvents counts published transitions.
func (m *Metrics) ObserveEvents(events []logic.Event) {
	if m == nil {
		return
	}
	for _, e := range events {
		m.transitions.WithLabelValues(string(e.Type)).Inc()
	}
}

// SensorError counts one failed probe read.
func (m *Metrics) SensorError() {
	if m == nil {
		return
	}
	m.sensorErrors.Inc()
}

// SetMQTTConnected records the broker connection state.
func (m *Metrics) SetMQTTConnected(up bool) {
	if m == nil {
		return
	}
	m.mqttUp.Set(boolGauge(up))
}

// ControlRequest counts one accepted control endpoint request.
func (m *Metrics) ControlRequest() {
	if m == nil {
		return
	}
	m.controlReqs.Inc()
}

// Handler returns the scrape endpoint handler for the default registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
