package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Logger = &logrus.Logger{
	Out: os.Stdout,
	Formatter: &logrus.TextFormatter{
		DisableLevelTruncation: true,
		PadLevelText:           true,
		FullTimestamp:          true,
	},
	Hooks: make(logrus.LevelHooks),
	Level: logrus.InfoLevel,
}

// SetLevel parses a logrus level name ("debug", "info", ...) and applies it.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)
	return nil
}

// Module returns an entry tagged with the module and method it logs for.
func Module(module, method string) *logrus.Entry {
	return Logger.WithFields(logrus.Fields{"module": module, "method": method})
}
