// Package logging builds the leveled golog logger shared by the services.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kataras/golog"
)

var levels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "error": {}, "fatal": {}, "disable": {},
}

// New returns a logger writing to out at level. An empty level means info.
func New(level string, out io.Writer) (*golog.Logger, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}
	if level == "warning" {
		level = "warn"
	}
	if _, ok := levels[level]; !ok {
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	if out == nil {
		out = os.Stderr
	}

	logger := golog.New()
	logger.SetOutput(out)
	logger.SetTimeFormat("2006-01-02 15:04:05")
	logger.SetLevel(level)
	return logger, nil
}

// Discard returns a logger that writes nothing, for tests.
func Discard() *golog.Logger {
	logger := golog.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel("disable")
	return logger
}
