package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/ipfs/go-log"
	demo "github.com/mikelsr/taxis-demo/demo"
	sim "github.com/mikelsr/taxis-demo/demo/v2"
)

const logName = "taxis-demo/main"

var logger = log.Logger(logName)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, demo.ErrInvalidConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "YAML configuration file (default: the bundled one)")
	envPath := flag.String("env", "", ".env file with TAXIS_* overrides")
	islands := flag.Int("islands", 0, "number of islands")
	bridges := flag.Int("bridges", 0, "number of bridges")
	taxis := flag.Int("taxis", 0, "number of taxis")
	people := flag.Int("people", 0, "people waiting on each island")
	capacity := flag.Int("capacity", 0, "taxis a bridge can hold")
	crossing := flag.String("crossing", "", "crossing policy: aligned or any")
	maxIdle := flag.Int("max-idle", 0, "idle cycles before an aligned taxi crosses anyway, 0 waits forever")
	crossingTime := flag.Duration("crossing-time", 0, "time a taxi spends on a bridge")
	eventBuffer := flag.Int("event-buffer", 0, "events queued for the observers before dropping")
	seed := flag.Int64("seed", 0, "random seed, 0 uses the clock")
	level := flag.String("log-level", "", "log level: debug, info, warn, error")
	summary := flag.Bool("summary", true, "print per-taxi statistics at the end")
	flag.Parse()

	path := *configPath
	if path == "" {
		var err error
		if path, err = demo.DefaultConfigPath(); err != nil {
			return err
		}
	}
	c, err := demo.LoadConfig(path)
	if err != nil {
		return err
	}
	if *envPath != "" {
		if c, err = demo.ApplyEnvFile(c, *envPath); err != nil {
			return err
		}
	}

	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "islands":
			c.Islands = *islands
		case "bridges":
			c.Bridges = *bridges
		case "taxis":
			c.Taxis = *taxis
		case "people":
			c.PeoplePerIsland = *people
		case "capacity":
			c.BridgeCapacity = *capacity
		case "max-idle":
			c.MaxIdleCycles = *maxIdle
		case "crossing-time":
			c.CrossingTime = *crossingTime
		case "event-buffer":
			c.EventBuffer = *eventBuffer
		case "seed":
			c.Seed = *seed
		case "log-level":
			c.LogLevel = *level
		case "crossing":
			c.Crossing, flagErr = demo.ParseCrossing(*crossing)
		}
	})
	if flagErr != nil {
		return flagErr
	}

	log.SetAllLoggers(log.LevelWarn)
	for _, name := range []string{logName, sim.LogName, demo.LogName} {
		if err := log.SetLogLevel(name, c.LogLevel); err != nil {
			return fmt.Errorf("%w: log level '%s'", demo.ErrInvalidConfig, c.LogLevel)
		}
	}

	s, err := sim.Setup(c, sim.WithObservers(sim.LogObserver()))
	if err != nil {
		return err
	}
	defer s.Close()
	logger.Infof("Running %d taxis on %d islands joined by %d bridges (%s crossing)",
		c.Taxis, c.Islands, c.Bridges, c.Crossing)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	r, err := s.Run(ctx)
	s.Close()
	if err != nil {
		return err
	}

	fmt.Println("Taxis have completed!")
	fmt.Printf("Taxi time multithreaded: %d (ms)\n", r.Elapsed.Milliseconds())
	if *summary {
		fmt.Print(r)
	}
	return nil
}
