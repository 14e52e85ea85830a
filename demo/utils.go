package demo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Keys read from .env files
const (
	EnvIslands  = "TAXIS_ISLANDS"
	EnvBridges  = "TAXIS_BRIDGES"
	EnvTaxis    = "TAXIS_TAXIS"
	EnvPeople   = "TAXIS_PEOPLE"
	EnvCapacity = "TAXIS_CAPACITY"
	EnvCrossing = "TAXIS_CROSSING"
	EnvSeed     = "TAXIS_SEED"
	EnvLogLevel = "TAXIS_LOG_LEVEL"

	EnvMaxIdle      = "TAXIS_MAX_IDLE_CYCLES"
	EnvCrossingTime = "TAXIS_CROSSING_TIME"
	EnvEventBuffer  = "TAXIS_EVENT_BUFFER"
)

func getConfigFolder() (string, error) {
	_, fileName, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("Failed to locate project")
	}
	dir, err := filepath.Abs(filepath.Dir(fileName))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFolder), nil
}

// DefaultConfigPath is the path of the configuration bundled with the demo
func DefaultConfigPath() (string, error) {
	folder, err := getConfigFolder()
	if err != nil {
		return "", err
	}
	return filepath.Join(folder, defaultConfigFile), nil
}

// LoadConfig reads a YAML file on top of the default configuration.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return c, fmt.Errorf("opening config: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&c); err != nil {
		return c, fmt.Errorf("decoding config '%s': %w", path, err)
	}
	logger.Debugf("Loaded configuration from %s", path)
	return c, nil
}

// ApplyEnvFile overrides c with the TAXIS_* keys found in a .env file
func ApplyEnvFile(c Config, path string) (Config, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return c, fmt.Errorf("reading env file '%s': %w", path, err)
	}
	return ApplyEnv(c, env)
}

// ApplyEnv overrides c with the TAXIS_* keys of env
func ApplyEnv(c Config, env map[string]string) (Config, error) {
	ints := []struct {
		key string
		dst *int
	}{
		{EnvIslands, &c.Islands},
		{EnvBridges, &c.Bridges},
		{EnvTaxis, &c.Taxis},
		{EnvPeople, &c.PeoplePerIsland},
		{EnvCapacity, &c.BridgeCapacity},
		{EnvMaxIdle, &c.MaxIdleCycles},
		{EnvEventBuffer, &c.EventBuffer},
	}
	for _, i := range ints {
		v, found := env[i.key]
		if !found {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return c, fmt.Errorf("%w: %s='%s' is not an integer", ErrInvalidConfig, i.key, v)
		}
		*i.dst = n
	}
	if v, found := env[EnvCrossing]; found {
		crossing, err := ParseCrossing(v)
		if err != nil {
			return c, err
		}
		c.Crossing = crossing
	}
	if v, found := env[EnvCrossingTime]; found {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return c, fmt.Errorf("%w: %s='%s' is not a duration", ErrInvalidConfig, EnvCrossingTime, v)
		}
		c.CrossingTime = d
	}
	if v, found := env[EnvSeed]; found {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return c, fmt.Errorf("%w: %s='%s' is not an integer", ErrInvalidConfig, EnvSeed, v)
		}
		c.Seed = seed
	}
	if v, found := env[EnvLogLevel]; found {
		c.LogLevel = v
	}
	return c, nil
}

// SeedOrNow returns the configured seed, or one taken from the clock
func (c Config) SeedOrNow() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
