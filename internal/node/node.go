// Package node bootstraps the shared process infrastructure: the execution
// engine, the shutdown coordinator and the root task executor every
// subsystem clones its own facade from.
package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	gocron "github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meridianchain/meridian/internal/metrics"
	"github.com/meridianchain/meridian/internal/model"
	"github.com/meridianchain/meridian/internal/shutdown"
	"github.com/meridianchain/meridian/internal/task"
)

type Node struct {
	cfg      model.Config
	runID    string
	engine   *task.Engine
	coord    *shutdown.Coordinator
	executor *task.Executor
	log      *slog.Logger
	started  time.Time
}

func New(cfg model.Config, logger *slog.Logger) *Node {
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()
	if cfg.Node.RunID != nil && *cfg.Node.RunID != "" {
		runID = *cfg.Node.RunID
	}

	engine := task.NewEngine(cfg.Engine.BlockingWorkers)
	coord := shutdown.NewCoordinator()
	log := logger.With("node", cfg.Node.Name, "run_id", runID)

	return &Node{
		cfg:      cfg,
		runID:    runID,
		engine:   engine,
		coord:    coord,
		executor: task.NewExecutor(engine.Ref(), coord.Exit(), coord.Sender(), log),
		log:      log,
		started:  time.Now(),
	}
}

// Executor returns the root task facade. Subsystems derive their own with
// CloneWithName.
func (n *Node) Executor() *task.Executor {
	return n.executor
}

// Run wires the supporting services and blocks until the first shutdown
// reason arrives, then tears everything down. A failure-tagged reason is
// returned as an error, a clean halt returns nil.
func (n *Node) Run(ctx context.Context) error {
	n.log.Info("node starting", "blocking_workers", n.cfg.Engine.BlockingWorkers)

	// validate everything that can fail before any goroutine starts
	var scheduler gocron.Scheduler
	if n.cfg.Heartbeat.Enabled {
		var err error
		scheduler, err = n.newHeartbeat()
		if err != nil {
			return fmt.Errorf("heartbeat setup failed: %w", err)
		}
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	sender := n.executor.ShutdownSender()
	exit := n.coord.Exit()
	go func() {
		select {
		case sig := <-sigs:
			sender.TrySend(shutdown.Success("received " + sig.String()))
		case <-exit.Done():
		}
	}()

	if n.cfg.Metrics.Enabled {
		n.serveMetrics()
	}

	if scheduler != nil {
		scheduler.Start()
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				n.log.Error("shutting down gocron has failed", "error", err)
			}
		}()
	}

	defer n.engine.Close()

	reason := n.coord.Wait(ctx)
	if reason.Failed() {
		n.log.Error("node halting", "reason", reason.Message())
		return fmt.Errorf("node shutdown: %s", reason.Message())
	}
	n.log.Info("node halting", "reason", reason.Message())
	return nil
}

// serveMetrics exposes the metrics registry over HTTP. The server manages
// its own shutdown against the exit broadcast, which is exactly what the
// exit-decoupled spawn contract is for.
func (n *Node) serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: n.cfg.Metrics.Listen, Handler: mux}

	ex := n.executor.CloneWithName("metrics")
	exit := ex.Exit()
	ex.SpawnWithoutExit(func(context.Context) {
		go func() {
			<-exit.Done()
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shCtx)
		}()
		ex.Logger().Info("metrics server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ex.Logger().Error("metrics server failed", "error", err)
		}
	}, "metrics_server")
}

// newHeartbeat builds the scheduler emitting periodic liveness entries
// through the task layer.
func (n *Node) newHeartbeat() (gocron.Scheduler, error) {
	hb := n.cfg.Heartbeat

	var def gocron.JobDefinition
	switch {
	case hb.Cron != nil && hb.Duration != nil:
		return nil, errors.New("heartbeat.cron and heartbeat.duration are mutually exclusive")
	case hb.Cron != nil:
		if _, err := model.ParseCron(*hb.Cron); err != nil {
			return nil, fmt.Errorf("parsing heartbeat.cron: %w", err)
		}
		def = gocron.CronJob(*hb.Cron, false)
	default:
		d, err := hb.Interval()
		if err != nil {
			return nil, fmt.Errorf("parsing heartbeat.duration: %w", err)
		}
		def = gocron.DurationJob(d)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("initializing gocron scheduler: %w", err)
	}

	ex := n.executor.CloneWithName("heartbeat")
	started := n.started
	_, err = s.NewJob(def, gocron.NewTask(func() {
		ex.Spawn(func(context.Context) {
			ex.Logger().Debug("heartbeat",
				"uptime", time.Since(started).Round(time.Second).String(),
				"goroutines", runtime.NumGoroutine(),
			)
		}, "heartbeat")
	}))
	if err != nil {
		return nil, fmt.Errorf("initializing gocron job: %w", err)
	}
	return s, nil
}
