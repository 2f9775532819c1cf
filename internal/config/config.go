// Package config resolves run configuration from CLI flags and the
// environment: the shard count (defaulting to the host's reported
// parallelism, clamped to at least 1, overridable by flag or env var)
// and the ambient logging options.
//
// Follows the BuildFlagSet / BuildViper / BuildConfig call pattern used
// to wire a node's command-line config in this codebase's other
// entrypoints.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	paylog "github.com/luxfi/paybatch/internal/log"
)

// Flag keys, also used as the bound viper/env keys.
const (
	ShardsKey        = "shards"
	LogLevelKey      = "log-level"
	LogFileKey       = "log-file"
	SkipMalformedKey = "skip-malformed"
	MetricsFileKey   = "metrics-file"
)

// envPrefix makes PAYBATCH_SHARDS, PAYBATCH_LOG_LEVEL, etc. override the
// corresponding flag default when unset on the command line.
const envPrefix = "PAYBATCH"

// BuildFlagSet declares every flag paybatch accepts besides the
// positional input path.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("paybatch", pflag.ContinueOnError)
	fs.Int(ShardsKey, 0, "number of shard workers (0 = detected host parallelism)")
	fs.String(LogLevelKey, "info", "log level: debug, info, warn, error")
	fs.String(LogFileKey, "", "write logs to this rotated file instead of stderr")
	fs.Bool(SkipMalformedKey, false, "skip malformed input records instead of aborting the run")
	fs.String(MetricsFileKey, "", "write a Prometheus text-format dump of run metrics to this path")
	return fs
}

// BuildViper parses args against fs and layers environment overrides on
// top of the bound flags.
func BuildViper(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("config: binding flags: %w", err)
	}
	return v, nil
}

// Config is the resolved, typed run configuration.
type Config struct {
	Shards        int
	LogLevelValue string
	LogFile       string
	SkipMalformed bool
	MetricsFile   string
}

// BuildConfig resolves v into a Config, defaulting Shards to the host's
// reported parallelism (clamped to at least 1) when unset or non-positive.
func BuildConfig(v *viper.Viper) (Config, error) {
	shards := cast.ToInt(v.Get(ShardsKey))
	if shards < 1 {
		shards = runtime.NumCPU()
	}
	if shards < 1 {
		shards = 1
	}

	levelStr := cast.ToString(v.Get(LogLevelKey))
	if _, err := paylog.LevelFromString(levelStr); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return Config{
		Shards:        shards,
		LogLevelValue: levelStr,
		LogFile:       cast.ToString(v.Get(LogFileKey)),
		SkipMalformed: cast.ToBool(v.Get(SkipMalformedKey)),
		MetricsFile:   cast.ToString(v.Get(MetricsFileKey)),
	}, nil
}
