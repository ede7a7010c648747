package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New returns a logfmt logger stamped with UTC time, caller and component,
// filtered to levelName and above.
func New(w io.Writer, component, levelName string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, levelOption(levelName))
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller, "component", component)
}

func levelOption(name string) level.Option {
	switch name {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

// TimeFunction logs the start and outcome of fn with its duration.
func TimeFunction(logger log.Logger, name string, fn func() error) error {
	start := time.Now()
	level.Info(logger).Log("msg", fmt.Sprintf("starting %s", name))

	err := fn()

	elapsed := time.Since(start)
	if err != nil {
		level.Error(logger).Log("msg", fmt.Sprintf("%s failed", name), "err", err, "took", elapsed)
	} else {
		level.Info(logger).Log("msg", fmt.Sprintf("%s completed", name), "took", elapsed)
	}

	return err
}
