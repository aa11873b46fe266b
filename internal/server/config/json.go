package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/filesmanager/internal/flagx"
	"github.com/dmitrijs2005/filesmanager/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations use timex.Duration so
// both "24h" and integer nanoseconds are accepted.
type JsonConfig struct {
	HTTPAddr          string         `json:"http_addr"`
	ShutdownTimeout   timex.Duration `json:"shutdown_timeout"`
	DatabaseDSN       string         `json:"database_dsn"`
	MetadataBackend   string         `json:"metadata_backend"`
	SessionBackend    string         `json:"session_backend"`
	SessionTTL        timex.Duration `json:"session_ttl"`
	BadgerPath        string         `json:"badger_path"`
	SweepInterval     timex.Duration `json:"session_sweep_interval"`
	BlobBackend       string         `json:"blob_backend"`
	FolderPath        string         `json:"folder_path"`
	S3AccessKey       string         `json:"s3_access_key"`
	S3SecretKey       string         `json:"s3_secret_key"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	QueueBackend      string         `json:"queue_backend"`
	QueueBuffer       int            `json:"queue_buffer"`
	Workers           int            `json:"workers"`
	MaxAttempts       int            `json:"max_attempts"`
	RetryDelay        timex.Duration `json:"retry_delay"`
	PollInterval      timex.Duration `json:"poll_interval"`
	VisibilityTimeout timex.Duration `json:"visibility_timeout"`
	LogLevel          string         `json:"log_level"`
	LogFormat         string         `json:"log_format"`
	MetricsEnabled    bool           `json:"metrics_enabled"`
}

// parseJson loads the file named by -c/-config in args, if any, over config.
// Keys absent from the file keep their current values.
func parseJson(config *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := fromConfig(config)
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}
	c.apply(config)
	return nil
}

func fromConfig(cfg *Config) *JsonConfig {
	return &JsonConfig{
		HTTPAddr:          cfg.HTTPAddr,
		ShutdownTimeout:   timex.Duration{Duration: cfg.ShutdownTimeout},
		DatabaseDSN:       cfg.DatabaseDSN,
		MetadataBackend:   cfg.MetadataBackend,
		SessionBackend:    cfg.SessionBackend,
		SessionTTL:        timex.Duration{Duration: cfg.SessionTTL},
		BadgerPath:        cfg.BadgerPath,
		SweepInterval:     timex.Duration{Duration: cfg.SweepInterval},
		BlobBackend:       cfg.BlobBackend,
		FolderPath:        cfg.FolderPath,
		S3AccessKey:       cfg.S3AccessKey,
		S3SecretKey:       cfg.S3SecretKey,
		S3Bucket:          cfg.S3Bucket,
		S3Region:          cfg.S3Region,
		S3BaseEndpoint:    cfg.S3BaseEndpoint,
		QueueBackend:      cfg.QueueBackend,
		QueueBuffer:       cfg.QueueBuffer,
		Workers:           cfg.Workers,
		MaxAttempts:       cfg.MaxAttempts,
		RetryDelay:        timex.Duration{Duration: cfg.RetryDelay},
		PollInterval:      timex.Duration{Duration: cfg.PollInterval},
		VisibilityTimeout: timex.Duration{Duration: cfg.VisibilityTimeout},
		LogLevel:          cfg.LogLevel,
		LogFormat:         cfg.LogFormat,
		MetricsEnabled:    cfg.MetricsEnabled,
	}
}

func (c *JsonConfig) apply(cfg *Config) {
	cfg.HTTPAddr = c.HTTPAddr
	cfg.ShutdownTimeout = c.ShutdownTimeout.Duration
	cfg.DatabaseDSN = c.DatabaseDSN
	cfg.MetadataBackend = c.MetadataBackend
	cfg.SessionBackend = c.SessionBackend
	cfg.SessionTTL = c.SessionTTL.Duration
	cfg.BadgerPath = c.BadgerPath
	cfg.SweepInterval = c.SweepInterval.Duration
	cfg.BlobBackend = c.BlobBackend
	cfg.FolderPath = c.FolderPath
	cfg.S3AccessKey = c.S3AccessKey
	cfg.S3SecretKey = c.S3SecretKey
	cfg.S3Bucket = c.S3Bucket
	cfg.S3Region = c.S3Region
	cfg.S3BaseEndpoint = c.S3BaseEndpoint
	cfg.QueueBackend = c.QueueBackend
	cfg.QueueBuffer = c.QueueBuffer
	cfg.Workers = c.Workers
	cfg.MaxAttempts = c.MaxAttempts
	cfg.RetryDelay = c.RetryDelay.Duration
	cfg.PollInterval = c.PollInterval.Duration
	cfg.VisibilityTimeout = c.VisibilityTimeout.Duration
	cfg.LogLevel = c.LogLevel
	cfg.LogFormat = c.LogFormat
	cfg.MetricsEnabled = c.MetricsEnabled
}
