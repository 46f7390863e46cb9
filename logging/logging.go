package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the level, format and destination of the logger.
type Options struct {
	Debug  bool
	Format string
	File   string
}

// New builds a logger writing to stderr and, when File is set, to a rotating
// log file as well.
func New(opts Options) *log.Logger {
	logger := log.New()
	logger.SetOutput(Output(os.Stderr, opts.File))
	if opts.Format == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	if opts.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// Output returns w, tee'd into a lumberjack file when path is not empty.
func Output(w io.Writer, path string) io.Writer {
	if path == "" {
		return w
	}
	return io.MultiWriter(w, &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	})
}
