package demo

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidConfig is wrapped by every error returned by Config.Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Crossing decides when a taxi is allowed to take the bridge it picked
type Crossing string

const (
	// CrossAny crosses whatever the bridge leads to
	CrossAny Crossing = "any"
	// CrossAligned crosses only towards the destination of a passenger
	CrossAligned Crossing = "aligned"
)

// Config of a simulation run
type Config struct {
	Islands         int `yaml:"islands"`
	Bridges         int `yaml:"bridges"`
	Taxis           int `yaml:"taxis"`
	PeoplePerIsland int `yaml:"people_per_island"`
	BridgeCapacity  int `yaml:"bridge_capacity"`

	Crossing Crossing `yaml:"crossing"`
	// MaxIdleCycles is the number of consecutive cycles an aligned taxi
	// waits for a matching bridge before crossing anyway. 0 waits forever.
	MaxIdleCycles int           `yaml:"max_idle_cycles"`
	CrossingTime  time.Duration `yaml:"crossing_time"`

	// Seed of the random sources, 0 picks one from the clock.
	Seed        int64  `yaml:"seed"`
	EventBuffer int    `yaml:"event_buffer"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the configuration of the original run
func Default() Config {
	return Config{
		Islands:         50,
		Bridges:         100,
		Taxis:           20,
		PeoplePerIsland: 40,
		BridgeCapacity:  4,
		Crossing:        CrossAligned,
		MaxIdleCycles:   16,
		EventBuffer:     1024,
		LogLevel:        "info",
	}
}

// RingSize is the number of bridges needed to join n islands in a ring.
// Two islands only need one bridge.
func RingSize(n int) int {
	if n == 2 {
		return 1
	}
	return n
}

// TotalPeople is the demand that has to be delivered for a run to end
func (c Config) TotalPeople() int {
	return c.Islands * c.PeoplePerIsland
}

// Validate checks the counts before anything is built
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"islands", c.Islands},
		{"bridges", c.Bridges},
		{"taxis", c.Taxis},
		{"people_per_island", c.PeoplePerIsland},
		{"bridge_capacity", c.BridgeCapacity},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, p.name, p.value)
		}
	}
	if c.Islands < 2 {
		return fmt.Errorf("%w: at least 2 islands are needed, got %d", ErrInvalidConfig, c.Islands)
	}
	if ring := RingSize(c.Islands); c.Bridges < ring {
		return fmt.Errorf("%w: %d islands need at least %d bridges, got %d",
			ErrInvalidConfig, c.Islands, ring, c.Bridges)
	}
	switch c.Crossing {
	case CrossAny, CrossAligned:
	default:
		return fmt.Errorf("%w: unknown crossing policy '%s'", ErrInvalidConfig, c.Crossing)
	}
	if c.MaxIdleCycles < 0 {
		return fmt.Errorf("%w: max_idle_cycles cannot be negative", ErrInvalidConfig)
	}
	if c.CrossingTime < 0 {
		return fmt.Errorf("%w: crossing_time cannot be negative", ErrInvalidConfig)
	}
	if c.EventBuffer < 0 {
		return fmt.Errorf("%w: event_buffer cannot be negative", ErrInvalidConfig)
	}
	if c.MayStall() {
		logger.Warnf("Aligned crossing with max_idle_cycles 0 on %d islands: "+
			"a taxi whose passengers go to non-adjacent islands waits forever", c.Islands)
	}
	return nil
}

// MayStall reports whether a loaded taxi can idle forever. Aligned taxis
// without the idle fallback only finish when every island is next to the
// others, which holds for 2 islands only.
func (c Config) MayStall() bool {
	return c.Crossing == CrossAligned && c.MaxIdleCycles == 0 && c.Islands > 2
}

// ParseCrossing accepts the policy names case-insensitively
func ParseCrossing(s string) (Crossing, error) {
	switch c := Crossing(strings.ToLower(strings.TrimSpace(s))); c {
	case CrossAny, CrossAligned:
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown crossing policy '%s'", ErrInvalidConfig, s)
}
