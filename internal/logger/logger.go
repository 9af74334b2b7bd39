package logger

import (
	"os"
	"sync"

	"github.com/op/go-logging"
)

var initOnce sync.Once

// InitGlobalLogger installs the stderr backend and sets the level for every module.
// Later calls are no-ops.
func InitGlobalLogger(logLevel string) error {
	level, err := logging.LogLevel(logLevel)
	if err != nil {
		return err
	}

	initOnce.Do(func() {
		backend := logging.NewLogBackend(os.Stderr, "", 0)

		// %{module} is the prefix passed to GetLoggerWithPrefix
		format := logging.MustStringFormatter(
			`%{time:2006-01-02 15:04:05.000} [%{level:.5s}] %{module}: %{message}`,
		)

		leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
		leveled.SetLevel(level, "")
		logging.SetBackend(leveled)
	})
	return nil
}

func GetLoggerWithPrefix(prefix string) *logging.Logger {
	return logging.MustGetLogger(prefix)
}
