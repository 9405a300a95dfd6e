// Command hydropi drives a hydroponic growing enclosure: it schedules
// the growth stages, switches the light over the day/night cycle and
// holds the enclosure temperature inside the stage's band with a fan
// and a heater. State changes are published to MQTT and exposed over
// HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/GeekMada/hydropi/internal/config"
	"github.com/GeekMada/hydropi/internal/logic"
	"github.com/GeekMada/hydropi/internal/metrics"
	"github.com/GeekMada/hydropi/internal/mqtt"
	"github.com/GeekMada/hydropi/internal/relay"
	"github.com/GeekMada/hydropi/internal/sensor"
	"github.com/GeekMada/hydropi/internal/status"
	"github.com/GeekMada/hydropi/internal/web"
)

const defaultConfigPath = "/etc/hydropi/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Configuration file")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	httpAddr := flag.String("http", "", "HTTP status address (overrides config)")
	printState := flag.Bool("print-state", false, "Print the probe temperature and exit")

	flag.Parse()

	configSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configSet = true
		}
	})

	cfg, err := loadConfig(*configPath, configSet)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}
	if *httpAddr != "" {
		cfg.HTTP = *httpAddr
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// loadConfig reads the configuration file. A missing file at the stock
// path is fine (fresh install, defaults apply); a missing file at an
// explicitly given path is an error.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if os.IsNotExist(err) && !explicit {
		log.Printf("config file %s not found, using defaults", path)
		def := config.Default()
		return &def, nil
	}
	return nil, fmt.Errorf("load config: %w", err)
}

func run(cfg *config.Config, printState bool) error {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	// Initialize the temperature probe
	probe, err := sensor.NewRealReader(cfg.Sensor.Device)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer probe.Close()

	// Print state mode
	if printState {
		tempC, err := probe.Read()
		if err != nil {
			return fmt.Errorf("read sensor: %w", err)
		}
		fmt.Printf("Temperature: %.2f°C\n", tempC)
		return nil
	}

	// A probe that cannot deliver at boot is a wiring problem, not a
	// transient fault. Fail fast.
	tempC, err := probe.Read()
	if err != nil {
		return fmt.Errorf("startup probe read: %w", err)
	}
	log.Printf("sensor ok: %.2f°C", tempC)

	// Initialize the relay board
	relays, err := relay.NewRealWriter(relay.Pins{
		Fan:    cfg.Relays.Fan,
		Heater: cfg.Relays.Heater,
		Light:  cfg.Relays.Light,
	}, cfg.Relays.ActiveLow)
	if err != nil {
		return fmt.Errorf("init relays: %w", err)
	}
	defer relays.Close()
	bank := relay.NewBank(relays)

	// Initialize MQTT
	publisher := mqtt.NewRealPublisher(cfg.MQTT.Broker)
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), cfg.StatusConfig())
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	srv := web.New(cfg.HTTP, tracker, m)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http server error: %v", err)
		}
	}()
	defer srv.Shutdown(context.Background())
	log.Printf("http status server listening on %s", cfg.HTTP)

	log.Printf("started: poll=%v tick=%v broker=%s heartbeat=%v timezone=%s",
		cfg.Poll, cfg.Tick, cfg.MQTT.Broker, cfg.Heartbeat, cfg.Timezone)

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ctrl := logic.NewController(cfg.ControlSettings(), time.Now())
	gate := logic.NewTickGate(cfg.Tick)

	return runLoop(ctrl, gate, probe, bank, publisher, publisher, tracker, m, loc, cfg.Heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(ctrl *logic.Controller, gate *logic.TickGate, probe sensor.Reader, relays *relay.Bank, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, m *metrics.Metrics, loc *time.Location, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			if !gate.Due(t) {
				continue
			}

			tempC, err := probe.Read()
			tempOK := err == nil
			if err != nil {
				log.Printf("sensor read error: %v", err)
				m.SensorError()
			}

			res := ctrl.Tick(logic.Input{
				Now:    t,
				Hour:   t.In(loc).Hour(),
				TempC:  tempC,
				TempOK: tempOK,
			})

			applyCommands(relays, res.Commands)

			for _, event := range res.Events {
				log.Printf("event: %s (stage=%s fan=%v heater=%v light=%v)",
					event.Type, event.Phase, event.Commands.Fan, event.Commands.Heater, event.Commands.Light)
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}
			m.ObserveEvents(res.Events)

			// Check for heartbeat
			if hbData := ctrl.CheckHeartbeat(t, heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v fan_on=%d heater_on=%d light_on=%d stage_changes=%d",
					hbData.Uptime, hbData.Counts.FanOn, hbData.Counts.HeaterOn, hbData.Counts.LightOn, hbData.Counts.PhaseChanges)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					tracker.Update(controlState(ctrl))
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			// Update status tracker for HTTP consumers
			if tracker != nil {
				tracker.Update(controlState(ctrl))
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			day, _ := ctrl.Day()
			tempNow, tempHave := ctrl.Temperature()
			m.ObserveTick(ctrl.Phase(), day, tempNow, tempHave, res.Commands)
			if mqttStatus != nil {
				m.SetMQTTConnected(mqttStatus.IsConnected())
			}
		}
	}
}

// applyCommands drives the relay bank. Loads are dropped before any is
// raised, so a band swing never has the fan and heater energized
// together between writes.
func applyCommands(relays *relay.Bank, cmds logic.Commands) {
	states := []struct {
		line relay.Line
		on   bool
	}{
		{relay.Fan, cmds.Fan},
		{relay.Heater, cmds.Heater},
		{relay.Light, cmds.Light},
	}
	for _, s := range states {
		if !s.on {
			if err := relays.Set(s.line, s.on); err != nil {
				log.Printf("%s relay: %v", s.line, err)
			}
		}
	}
	for _, s := range states {
		if s.on {
			if err := relays.Set(s.line, s.on); err != nil {
				log.Printf("%s relay: %v", s.line, err)
			}
		}
	}
}

func controlState(ctrl *logic.Controller) status.ControlState {
	day, dayKnown := ctrl.Day()
	tempC, tempValid := ctrl.Temperature()
	cmds := ctrl.Commands()
	return status.ControlState{
		Phase:      ctrl.Phase(),
		Day:        day,
		DayKnown:   dayKnown,
		TempC:      tempC,
		TempValid:  tempValid,
		Fan:        cmds.Fan,
		Heater:     cmds.Heater,
		Light:      cmds.Light,
		CycleStart: ctrl.CycleStart(),
		Counts:     ctrl.Counts(),
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
