package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/filesmanager/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string      HTTP bind address (e.g. ":5000")
//	-d string      PostgreSQL DSN
//	-f string      blob folder path for the fs backend
//	-metadata      metadata backend: memory | postgres
//	-sessions      session backend: memory | postgres | badger
//	-blobs         blob backend: fs | s3
//	-queue         thumbnail queue backend: memory | postgres
//	-workers int   thumbnail workers in this process
//	-ttl duration  session lifetime
//	-sweep duration  interval between expired-session sweeps
//	-log-level     debug | info | warn | error
//
// Only these flags are consumed; anything else on the command line is ignored.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.FolderPath, "f", config.FolderPath, "blob folder path")
	fs.StringVar(&config.MetadataBackend, "metadata", config.MetadataBackend, "metadata backend")
	fs.StringVar(&config.SessionBackend, "sessions", config.SessionBackend, "session backend")
	fs.StringVar(&config.BlobBackend, "blobs", config.BlobBackend, "blob backend")
	fs.StringVar(&config.QueueBackend, "queue", config.QueueBackend, "thumbnail queue backend")
	fs.IntVar(&config.Workers, "workers", config.Workers, "thumbnail workers")
	fs.DurationVar(&config.SessionTTL, "ttl", config.SessionTTL, "session lifetime")
	fs.DurationVar(&config.SweepInterval, "sweep", config.SweepInterval, "expired session sweep interval")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	return flagx.ParseKnown(fs, args)
}
