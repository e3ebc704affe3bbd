// Package eventsync uploads every pending event to the backend in batches.
package eventsync

import "errors"

// DefaultBatchSize is the default maximum number of events per upload request.
const DefaultBatchSize = 100

// MaxBatchSize bounds BatchSize.
const MaxBatchSize = 1000

// Config holds the configuration for the event Uploader.
type Config struct {
	// BatchSize is the maximum number of events per upload request.
	// Must be between 1 and 1000. Default: 100.
	BatchSize int `yaml:"batch_size"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.BatchSize < 1 {
		return errors.New("eventsync: config: BatchSize must be at least 1")
	}
	if c.BatchSize > MaxBatchSize {
		return errors.New("eventsync: config: BatchSize must be at most 1000")
	}
	return nil
}
