// Command noise-meter converts the PWM duty-cycle output of a sound level
// meter into periodic decibel readings. Readings go to a serial channel,
// window peaks to MQTT, loud events to a local SQLite store, and live
// state to an HTTP status page.
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

	"github.com/sweeney/noise-meter/internal/gpio"
	"github.com/sweeney/noise-meter/internal/logic"
	"github.com/sweeney/noise-meter/internal/mqtt"
	"github.com/sweeney/noise-meter/internal/serial"
	"github.com/sweeney/noise-meter/internal/status"
	"github.com/sweeney/noise-meter/internal/store"
	"github.com/sweeney/noise-meter/internal/web"
)

// pollInterval is how often the loop re-checks the report cadence. It only
// needs to be comfortably shorter than the cadence; edge capture is
// event-driven and unaffected.
const pollInterval = 25 * time.Millisecond

func main() {
	pin := flag.Int("pin", gpio.DefaultPin, "BCM pin number carrying the PWM signal")
	cadence := flag.Duration("cadence", logic.DefaultCadence, "Reporting cadence")
	window := flag.Duration("window", logic.DefaultWindow, "Peak publishing window")
	minLevel := flag.Float64("min-level", logic.DefaultMinLevel, "Minimum dB for stored noise events")
	serialPort := flag.String("serial", "", "Serial device for readings (empty writes to stdout)")
	baud := flag.Int("baud", serial.DefaultBaud, "Serial baud rate")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", `MQTT broker address ("off" disables)`)
	dbPath := flag.String("db", "noise-meter.db", "SQLite event database path (empty disables)")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	listPorts := flag.Bool("list-ports", false, "List available serial ports and exit")

	flag.Parse()

	if *listPorts {
		if err := printPorts(); err != nil {
			log.Fatalf("fatal: %v", err)
		}
		return
	}

	if err := run(*pin, *cadence, *window, *minLevel, *serialPort, *baud, *broker, *dbPath, *heartbeat, *httpAddr); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func printPorts() error {
	ports, err := serial.Ports()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("no serial ports found")
		return nil
	}
	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}

func run(pin int, cadence, window time.Duration, minLevel float64, serialPort string, baud int, broker, dbPath string, heartbeat time.Duration, httpAddr string) error {
	// Initialize GPIO
	watcher, err := gpio.NewRealWatcher(pin)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer watcher.Close()

	// Initialize serial output
	var out serial.Writer
	if serialPort == "" {
		out = serial.NewStreamWriter(os.Stdout)
	} else {
		out, err = serial.NewRealWriter(serialPort, baud)
		if err != nil {
			return fmt.Errorf("init serial: %w", err)
		}
	}
	defer out.Close()

	// Initialize MQTT
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if broker != "off" {
		real, err := mqtt.NewRealPublisher(broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		publisher = real
		mqttStatus = real
		defer real.Close()
	}

	// Initialize event store
	var events *store.Store
	if dbPath != "" {
		events, err = store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("init store: %w", err)
		}
		defer events.Close()
	}

	startTime := time.Now()
	tracker := status.NewTracker(startTime, status.Config{
		Pin:         pin,
		CadenceMs:   cadence.Milliseconds(),
		WindowMs:    window.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		Scale:       logic.DefaultScale,
		MinLevel:    minLevel,
		Broker:      broker,
		SerialPort:  serialPort,
		Baud:        baud,
		DBPath:      dbPath,
		HTTPAddr:    httpAddr,
	})

	acc := logic.NewAccumulator()
	if err := watcher.Watch(func(e gpio.Edge) {
		// Runs on the GPIO event goroutine; keep it to the accumulation.
		acc.Record(e.Rising, e.Micros)
	}); err != nil {
		return fmt.Errorf("watch pin: %w", err)
	}

	// Publish startup event with full status snapshot
	if publisher != nil {
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
	}

	// Start HTTP status server
	if httpAddr != "" {
		var es web.EventSource
		if events != nil {
			es = events
		}
		srv := web.New(httpAddr, tracker, es)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: pin=%d cadence=%v window=%v min-level=%.1f broker=%s heartbeat=%v", pin, cadence, window, minLevel, broker, heartbeat)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	rep := logic.NewReporter(cadence, logic.DefaultScale, startTime)
	peaks := logic.NewPeakTracker(window, startTime)

	return runLoop(acc, rep, peaks, out, publisher, mqttStatus, events, tracker, minLevel, heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(acc *logic.Accumulator, rep *logic.Reporter, peaks *logic.PeakTracker, out serial.Writer, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, events *store.Store, tracker *status.Tracker, minLevel float64, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
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
			if publisher != nil {
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
			}
			return nil

		case <-tick:
			t := now()

			reading, ok := rep.Tick(t, acc)
			if ok {
				if err := out.WriteReading(reading); err != nil {
					log.Printf("serial write error: %v", err)
					// Don't crash on write failure
				}
				peaks.Observe(reading)
				if tracker != nil {
					tracker.UpdateReading(reading)
				}
			}

			if peak, done := peaks.Roll(t); done {
				log.Printf("window elapsed: peak %.1f dB", peak.Decibels)
				if tracker != nil {
					tracker.SetWindowPeak(peak.Decibels)
				}
				if publisher != nil {
					if err := publisher.PublishPeak(peak); err != nil {
						log.Printf("publish error: %v", err)
					}
				}
				if events != nil && peak.Decibels >= minLevel {
					if err := events.Insert(peak); err != nil {
						log.Printf("store error: %v", err)
					} else if tracker != nil {
						tracker.AddStoredEvent()
					}
				}
			}

			counts := logic.Counts{
				Edges:      acc.Edges(),
				Readings:   rep.Readings(),
				Suppressed: rep.Suppressed(),
				Windows:    peaks.Windows(),
			}
			if tracker != nil {
				tracker.SetCounts(counts)
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if hb := rep.CheckHeartbeat(t, heartbeat, counts); hb != nil {
				log.Printf("heartbeat: uptime=%v edges=%d readings=%d suppressed=%d windows=%d",
					hb.Uptime, hb.Counts.Edges, hb.Counts.Readings, hb.Counts.Suppressed, hb.Counts.Windows)

				if publisher != nil {
					hbEvent := mqtt.SystemEvent{
						Timestamp: hb.Timestamp,
						Event:     "HEARTBEAT",
					}
					if tracker != nil {
						snap := tracker.Snapshot()
						hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
					}
					if err := publisher.PublishSystem(hbEvent); err != nil {
						log.Printf("heartbeat publish error: %v", err)
					}
				}
			}
		}
	}
}
