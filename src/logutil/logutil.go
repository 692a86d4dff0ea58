package logutil

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB   = 10
	maxArchives = 3
)

type Options struct {
	EnableFileLogging bool
	FilePath          string
	Verbose           bool
}

// Setup routes the standard logger. File logging rotates at 10MB keeping 3 archives;
// verbose mode mirrors to stderr. With neither, logs are discarded.
// The returned closer releases the log file.
func Setup(opts Options) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var writers []io.Writer
	var closer io.Closer = nopCloser{}
	if opts.EnableFileLogging && opts.FilePath != "" {
		_ = os.MkdirAll(filepath.Dir(opts.FilePath), 0o755)
		lj := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    maxSizeMB,
			MaxBackups: maxArchives,
		}
		writers = append(writers, lj)
		closer = lj
	}
	if opts.Verbose {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		log.SetOutput(io.Discard)
	case 1:
		log.SetOutput(writers[0])
	default:
		log.SetOutput(io.MultiWriter(writers...))
	}
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
