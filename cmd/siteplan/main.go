// Command siteplan runs a headless planning session: it can replay a share
// link into a fresh session, apply a small demo plan, and export the
// resulting site-plan document. The interactive map UI drives the same
// packages through the store API; this binary is the reference wiring.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pyroplan/siteplan/internal/api"
	"github.com/pyroplan/siteplan/internal/config"
	"github.com/pyroplan/siteplan/internal/dispatcher"
	"github.com/pyroplan/siteplan/internal/export"
	"github.com/pyroplan/siteplan/internal/ident"
	"github.com/pyroplan/siteplan/internal/influx"
	"github.com/pyroplan/siteplan/internal/logging"
	"github.com/pyroplan/siteplan/internal/monitor"
	intOtel "github.com/pyroplan/siteplan/internal/otel"
	"github.com/pyroplan/siteplan/internal/overlay"
	"github.com/pyroplan/siteplan/internal/project"
	"github.com/pyroplan/siteplan/internal/sharelink"
	"github.com/pyroplan/siteplan/internal/store"
	"github.com/pyroplan/siteplan/pkg/core"
)

var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

const appName = "siteplan"

func main() {
	configDir := flag.String("config", ".", "directory containing siteplan.cfg.json")
	planName := flag.String("plan", "siteplan", "plan name used for export filenames")
	shareFragment := flag.String("share", "", "share-link fragment to replay into the session")
	upload := flag.Bool("upload", false, "upload the exported document to the share server")
	flag.Parse()

	if err := run(*configDir, *planName, *shareFragment, *upload); err != nil {
		fmt.Fprintln(os.Stderr, "siteplan:", err)
		os.Exit(1)
	}
}

func run(configDir, planName, shareFragment string, upload bool) error {
	sessionStart := time.Now()

	if err := config.Load(configDir); err != nil {
		return err
	}

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}
	logFile, err := os.Create(logging.LogFilePath(logsDir, appName, sessionStart))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	// Session wiring: identity, overlays, project settings, change fan-out.
	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
	disp, err := dispatcher.New(logging.NewDispatcherLogger(zl))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}

	gen := ident.New()
	extrusions := overlay.NewExtrusions()
	proj := project.NewContext()
	proj.SetSettings(config.ProjectDefaults())
	st := store.New(gen, extrusions, proj, disp.ChangeFunc())

	otelProvider, err := intOtel.New(intOtel.Config{
		Enabled:      config.GetBool("otel.enabled"),
		ServiceName:  appName,
		BatchTimeout: 5 * time.Second,
		LogWriter:    logFile,
		Endpoint:     config.GetString("otel.endpoint"),
		Insecure:     true,
	})
	if err != nil {
		return fmt.Errorf("initializing OTel: %w", err)
	}
	defer otelProvider.Shutdown(context.Background())

	slogManager := logging.NewSlogManager()
	slogManager.Setup(logFile, config.GetString("logLevel"), otelProvider.LoggerProvider(),
		func() []slog.Attr {
			return []slog.Attr{slog.Int("totalAnnotations", st.Counts().Total)}
		})
	logger := slogManager.Logger()
	logger.Info("Session started", "version", Version, "buildDate", BuildDate)

	// Optional statistics shipping.
	sessionID := uuid.NewString()
	var statsMonitor *monitor.Service
	if config.GetBool("influx.enabled") {
		influxManager := influx.NewManager(zl, logging.LogFilePath(logsDir, appName+".influx-backup", sessionStart))
		if err := influxManager.Connect(); err != nil {
			logger.Warn("InfluxDB unavailable, statistics disabled", "error", err)
		} else {
			statsMonitor = monitor.NewService(monitor.Dependencies{
				Store:     st,
				Influx:    influxManager,
				Logger:    logger,
				SessionID: sessionID,
				Interval:  config.GetDuration("influx.interval"),
			})
			statsMonitor.RegisterHandlers(disp)
			statsMonitor.Start()
			defer statsMonitor.Stop()
		}
	}

	if shareFragment != "" {
		snap, err := sharelink.Decode(shareFragment)
		if err != nil {
			return fmt.Errorf("decoding share link: %w", err)
		}
		if err := sharelink.Replay(st, snap); err != nil {
			return fmt.Errorf("replaying share link: %w", err)
		}
		logger.Info("Share link replayed", "counts", st.Counts())
	} else {
		seedDemoPlan(st)
		logger.Info("Demo plan loaded", "counts", st.Counts())
	}

	// Export works from a snapshot taken here; later edits cannot tear it.
	snap := st.Snapshot()
	exporter := export.New(config.Export())
	outputPath, err := exporter.ExportJSON(snap, planName)
	if err != nil {
		return fmt.Errorf("exporting plan: %w", err)
	}
	logger.Info("Plan exported", "path", outputPath)

	fragment, err := sharelink.Encode(snap)
	if err != nil {
		return fmt.Errorf("encoding share link: %w", err)
	}
	fmt.Println("share fragment:", fragment)

	if upload {
		client := api.New(config.GetString("share.serverUrl"), config.GetString("share.apiKey"))
		shortLink, err := client.Upload(outputPath, exporter.Metadata(snap, planName))
		if err != nil {
			logger.Error("Upload failed", "error", err)
		} else {
			fmt.Println("short link:", shortLink)
		}
	}

	return slogManager.Flush(context.Background())
}

// seedDemoPlan places a representative set of annotations so a fresh
// checkout produces a meaningful export.
func seedDemoPlan(st *store.Store) {
	st.SetCamera(core.Camera{
		Center: core.LatLng{Lng: -122.4786, Lat: 37.8199},
		Zoom:   16.5,
	})

	st.AddFirework(store.FireworkPayload{
		Position:      core.LatLng{Lng: -122.4790, Lat: 37.8210},
		Color:         "#ff3300",
		Label:         "3in shells",
		HeightFeet:    300,
		HeightVisible: true,
	})
	st.AddFirework(store.FireworkPayload{
		Position:      core.LatLng{Lng: -122.4782, Lat: 37.8212},
		Color:         "#ffaa00",
		Label:         "finale rack",
		HeightFeet:    450,
		HeightVisible: true,
	})

	_, _ = st.AddAudience(store.AudiencePayload{
		Geometry: []core.LatLng{
			{Lng: -122.4800, Lat: 37.8190},
			{Lng: -122.4770, Lat: 37.8190},
			{Lng: -122.4770, Lat: 37.8180},
			{Lng: -122.4800, Lat: 37.8180},
		},
		WidthFeet:  200,
		HeightFeet: 90,
		Label:      "main viewing area",
	})
	_, _ = st.AddMeasurement(store.MeasurementPayload{
		Geometry: []core.LatLng{
			{Lng: -122.4790, Lat: 37.8210},
			{Lng: -122.4785, Lat: 37.8190},
		},
		Label: "fallout to audience",
	})
	_, _ = st.AddRestricted(store.RestrictedPayload{
		Geometry: []core.LatLng{
			{Lng: -122.4795, Lat: 37.8215},
			{Lng: -122.4778, Lat: 37.8215},
			{Lng: -122.4778, Lat: 37.8205},
			{Lng: -122.4795, Lat: 37.8205},
		},
		Label: "launch site keep-out",
	})

	st.SetShowHeight(true)
}
