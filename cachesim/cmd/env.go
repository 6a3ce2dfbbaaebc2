package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// envFlags maps environment variables to the flags they default.
var envFlags = map[string]string{
	"CACHESIM_SEED":         "seed",
	"CACHESIM_BYTE_ORDER":   "byte-order",
	"CACHESIM_LOG_LEVEL":    "log-level",
	"CACHESIM_RECORD":       "record",
	"CACHESIM_MONITOR_PORT": "monitor-port",
}

// applyEnv loads the env file, if there is one, and uses the environment to
// set the flags that are not given on the command line. Variables already in
// the environment take precedence over the file.
func applyEnv(flags *pflag.FlagSet, envFile string) error {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	for env, name := range envFlags {
		if flags.Changed(name) {
			continue
		}

		value, ok := os.LookupEnv(env)
		if !ok || value == "" {
			continue
		}

		err := flags.Set(name, value)
		if err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
	}

	return nil
}
