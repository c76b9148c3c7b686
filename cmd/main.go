package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"reflect"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/events"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/aukilabs/shipyard/featureflag"
	shipyardhttp "github.com/aukilabs/shipyard/http"
	"github.com/aukilabs/shipyard/ship"
	"github.com/aukilabs/shipyard/smoketest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

var (
	// The Shipyard version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "shipyard_info",
		Help:        "Shipyard information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// This will effectively disable obfuscation of the config struct. Without it, the keys would get obfuscated causing the cli package to generate garbled command-line options.
// https://github.com/burrowers/garble/issues/403
var _ = reflect.TypeOf(config{})

type config struct {
	AdminAddr    string       `cli:""        env:"SHIPYARD_ADMIN_ADDR"     help:"Admin listening address."`
	ShipFile     string       `cli:""        env:"SHIPYARD_SHIP_FILE"      help:"The ship save file to load."`
	SaveOnExit   bool         `cli:""        env:"SHIPYARD_SAVE_ON_EXIT"   help:"Write the ship back to its save file on exit."`
	ProbeReach   float64      `cli:""        env:"SHIPYARD_PROBE_REACH"    help:"Default reach of ship probes."`
	LogLevel     string       `cli:""        env:"SHIPYARD_LOG_LEVEL"      help:"Log level (debug|info|warning|error)."`
	LogIndent    bool         `cli:""        env:"SHIPYARD_LOG_INDENT"     help:"Indent logs."`
	Events       eventsConfig `cli:",hidden" env:"-"                       help:"Event pusher configuration."`
	FeatureFlags []string     `cli:",hidden" env:"SHIPYARD_FEATURE_FLAGS"  help:"Comma separated feature flags"`
	Version      bool         `cli:""        env:"-"                       help:"Show version."`
	Help         bool         `cli:""        env:"-"                       help:"Show help."`
}

type eventsConfig struct {
	Endpoint      string        `cli:",hidden" env:"SHIPYARD_EVENTS_ENDPOINT"       help:"Endpoint to where events are pushed."`
	FlushInterval time.Duration `cli:",hidden" env:"SHIPYARD_EVENTS_FLUSH_INTERVAL" help:"The duration between each event flush."`
	BatchSize     int           `cli:",hidden" env:"SHIPYARD_EVENTS_BATCH_SIZE"     help:"The maximum number of events sent at once."`
	QueueSize     int           `cli:",hidden" env:"SHIPYARD_EVENTS_QUEUE_SIZE"     help:"The size of the queue where events are stored."`
}

func main() {
	conf := config{
		AdminAddr:  ":18190",
		ProbeReach: ship.PlacementReach,
		LogLevel:   logs.InfoLevel.String(),
		Events: eventsConfig{
			FlushInterval: events.DefaultFlushInterval,
			BatchSize:     events.DefaultBatchSize,
			QueueSize:     events.DefaultQueueSize,
		},
	}

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Starts the Shipyard ship collision service.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	if conf.Events.Endpoint != "" {
		eventsPusher := events.Pusher{
			Endpoint:      conf.Events.Endpoint,
			FlushInterval: conf.Events.FlushInterval,
			BatchSize:     conf.Events.BatchSize,
			QueueSize:     conf.Events.QueueSize,
			Transport:     metrics.HTTPTransport(http.DefaultTransport),
		}
		go eventsPusher.Start()
		defer eventsPusher.Close()

		eventsLogger := events.Logger{
			Pusher:           &eventsPusher,
			SDKType:          "shipyard",
			SDKVersionFamily: version,
		}
		logs.SetLogger(eventsLogger.Log)
	}

	flags := featureflag.New(conf.FeatureFlags)

	interior, err := loadShip(conf)
	if err != nil {
		logs.Fatal(errors.New("loading ship failed").Wrap(err))
	}
	defer interior.Close()

	interior.Configure(
		flags.Enabled(featureflag.FlagExactBoxTest),
		flags.Enabled(featureflag.FlagSkipTreeRebuild),
	)
	flags.IfSet(featureflag.FlagSkipTreeRebuild, func() {
		logs.WithTag("interior_id", interior.ID).
			Info("part tree disabled, placement checks use the grid only")
	})

	var smokeTestStatus smoketest.Status
	smokeTestStatus.Store(ctx, smoketest.Run(ctx, smoketest.Checks()))
	if !smokeTestStatus.Passed() {
		logs.Warn(errors.New("startup smoke test failed"))
	}

	runSmokeTest := smoketest.HandleSmokeTest(ctx, smoketest.Options{
		Checks:     smoketest.Checks(),
		SendResult: smokeTestStatus.Store,
	})

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", shipyardhttp.HandleHealthCheck)
	admin.HandleFunc("/ready", shipyardhttp.HandleReadyCheck(smokeTestStatus.Passed))
	admin.HandleFunc("/version", shipyardhttp.HandleVersion(version))
	admin.HandleFunc("/features", shipyardhttp.HandleFeatures(flags.List()))
	admin.HandleFunc("/probe", shipyardhttp.HandleProbe(interior, conf.ProbeReach))
	admin.HandleFunc("/smoke-test", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			runSmokeTest(w, r)
			return
		}
		smokeTestStatus.ServeHTTP(w, r)
	})
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)
	admin.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	admin.Handle("/debug/pprof/threadcreate", pprof.Handler("threadcreate"))
	admin.Handle("/debug/pprof/block", pprof.Handler("block"))

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("interior_id", interior.ID).
		WithTag("parts", len(interior.Parts())).
		WithTag("feature_flags", flags.List()).
		Info("starting shipyard server")

	if err := shipyardhttp.ListenAndServe(ctx,
		&http.Server{Addr: conf.AdminAddr, Handler: metrics.HTTPHandler(&admin,
			shipyardhttp.MetricsPathFormatter)},
	); err != nil {
		logs.Error(err)
	}

	if conf.SaveOnExit && conf.ShipFile != "" {
		if err := interior.SaveFile(conf.ShipFile); err != nil {
			logs.Warn(errors.New("saving ship on exit failed").Wrap(err))
		}
	}
}

func loadShip(conf config) (*ship.Interior, error) {
	if conf.ShipFile == "" {
		return ship.NewInterior(nil), nil
	}

	if _, err := os.Stat(conf.ShipFile); os.IsNotExist(err) && conf.SaveOnExit {
		logs.WithTag("filename", conf.ShipFile).Info("ship file not found, starting an empty ship")
		return ship.NewInterior(nil), nil
	}
	return ship.LoadFile(conf.ShipFile)
}

func validateConfig(conf config) error {
	if conf.AdminAddr == "" {
		return errors.New("admin address is empty")
	}

	if conf.ProbeReach <= 0 {
		return errors.New("probe reach must be positive").
			WithTag("probe_reach", conf.ProbeReach)
	}

	if conf.SaveOnExit && conf.ShipFile == "" {
		return errors.New("saving on exit requires a ship file")
	}

	return nil
}
