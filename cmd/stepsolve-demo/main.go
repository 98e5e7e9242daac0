// stepsolve-demo loads a printer.cfg-style config describing a set of
// steppers, feeds them a synthetic repeating-ramp trajectory standing in
// for a real trajectory planner, and flushes them concurrently on a
// reactor-driven timer while serving their motion_report status over
// WebSocket.
//
// Usage:
//
//	stepsolve-demo -config demo.cfg [options]
//
// Options:
//
//	-config string   Printer configuration file (required)
//	-status string   motion_report status server address (default ":7125")
//	-duration string How long to run the demo trajectory (default "5s")
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stepsolve/pkg/config"
	"stepsolve/pkg/coordinator"
	"stepsolve/pkg/log"
	"stepsolve/pkg/motionstatus"
	"stepsolve/pkg/reactor"
	"stepsolve/pkg/stepkin"
	"stepsolve/pkg/trapq"
)

var logger = log.New("stepsolve-demo")

// stepperConfig is a [stepper_*] section's demo-relevant parameters.
type stepperConfig struct {
	name             string
	projection       stepkin.Projection
	activeFlags      int
	stepDist         float64
	genStepsPreActve float64
	genStepsPostActv float64
}

// consoleSink logs every committed step rather than driving real hardware.
type consoleSink struct {
	name  string
	count int
}

func (s *consoleSink) Append(dir int, mt, st float64) int {
	s.count++
	logger.WithField("stepper", s.name).
		WithField("dir", dir).
		WithField("time", mt+st).
		Debug("step")
	return 0
}

func main() {
	log.ConfigureFromEnv(logger)

	configFile := flag.String("config", "", "Printer configuration file (required)")
	statusAddr := flag.String("status", ":7125", "motion_report status server address")
	durationFlag := flag.String("duration", "5s", "How long to run the demo trajectory")
	flag.Parse()

	if *configFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -config is required")
		flag.Usage()
		os.Exit(1)
	}

	duration, err := time.ParseDuration(*durationFlag)
	if err != nil {
		logger.WithError(err).Error("invalid -duration")
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.WithError(err).Error("failed to parse config")
		os.Exit(1)
	}

	steppers, err := buildSteppers(cfg)
	if err != nil {
		logger.WithError(err).Error("failed to build steppers from config")
		os.Exit(1)
	}
	if len(steppers) == 0 {
		logger.Error("no [stepper_*] sections found in config")
		os.Exit(1)
	}

	status := motionstatus.New(*statusAddr)
	group := make([]coordinator.Named, 0, len(steppers))
	queues := make(map[string]*trapq.Queue, len(steppers))

	for _, sc := range steppers {
		sk := stepkin.New(sc.projection, sc.activeFlags)
		sk.GenStepsPreActive = sc.genStepsPreActve
		sk.GenStepsPostActive = sc.genStepsPostActv
		sk.SetSink(&consoleSink{name: sc.name}, sc.stepDist)

		q := trapq.NewQueue()
		sk.SetQueue(q)
		queues[sc.name] = q

		status.Register(sc.name, sk)
		group = append(group, coordinator.StepperKinematicsOf(sc.name, sk))

		logger.WithField("stepper", sc.name).
			WithField("step_dist", sc.stepDist).
			Info("stepper configured")
	}

	coord := coordinator.New(group...)

	go func() {
		if err := status.Start(); err != nil {
			logger.WithError(err).Warn("motionstatus server stopped")
		}
	}()
	defer status.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	r := reactor.New()
	go r.Run()
	defer r.End()

	const period = 1.0 // seconds, duration of each synthetic move
	const flushInterval = 0.1
	start := r.Monotonic()
	deadline := start + duration.Seconds()

	r.RegisterTimer(func(eventtime float64) float64 {
		extendQueues(queues, eventtime, period)

		if err := coord.Flush(context.Background(), eventtime-start); err != nil {
			logger.WithError(err).Error("flush failed, stopping demo")
			return reactor.NEVER
		}
		if eventtime >= deadline {
			logger.Info("demo duration elapsed, stopping")
			return reactor.NEVER
		}
		return eventtime + flushInterval
	}, reactor.NOW)

	logger.WithField("status_addr", *statusAddr).
		WithField("duration", duration.String()).
		Info("stepsolve-demo running, press Ctrl+C to stop")

	select {
	case <-sigCh:
		logger.Info("received shutdown signal")
	case <-time.After(duration + time.Second):
		logger.Info("demo finished")
	}
}

// extendQueues appends one more move to each stepper's queue if its queue
// doesn't yet cover eventtime, standing in for a trajectory planner that
// would otherwise keep the move queue full. Each move runs at a constant
// velocity along +X for period seconds and starts again at the origin, so
// the position ramps up and jumps back at every move boundary; it is not a
// sine trajectory.
func extendQueues(queues map[string]*trapq.Queue, eventtime, period float64) {
	for _, q := range queues {
		last := q.Last()
		var printTime float64
		if last.IsSentinel() {
			printTime = 0
		} else {
			printTime = last.PrintTime + last.MoveT
		}
		if printTime > eventtime+period {
			continue
		}
		amplitude := 20.0
		omega := 2 * math.Pi / period
		v := amplitude * omega
		q.Append(trapq.NewMove(printTime, period, [3]float64{}, [3]float64{1, 0, 0}, v, v, v, 0, period, 0))
	}
}
