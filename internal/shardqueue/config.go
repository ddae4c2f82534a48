package shardqueue

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config tunes the executor. Zero values fall back to the defaults applied
// in NewShardExecutor.
type Config struct {
	Shards         int           `envconfig:"SHARDS" default:"4"`
	QueueSize      int           `envconfig:"QUEUE_SIZE" default:"128"`
	EnqueueTimeout time.Duration `envconfig:"ENQUEUE_TIMEOUT" default:"100ms"`
	// MaxAttempts bounds job retries. Send jobs convert provider failures
	// into fallback messages instead of errors, so they are single-attempt
	// regardless; this knob covers internal job faults only.
	MaxAttempts int           `envconfig:"MAX_ATTEMPTS" default:"1"`
	BaseBackoff time.Duration `envconfig:"BASE_BACKOFF" default:"100ms"`
	MaxInterval time.Duration `envconfig:"MAX_INTERVAL" default:"20s"`

	// ErrorHandler is invoked for jobs that exhaust their attempts. Panics
	// inside the handler are recovered.
	ErrorHandler func(error) `ignored:"true"`
}

// LoadConfig reads executor settings from GUIDECHAT_SQ_* environment
// variables, e.g. GUIDECHAT_SQ_SHARDS, GUIDECHAT_SQ_QUEUE_SIZE.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("GUIDECHAT_SQ", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
