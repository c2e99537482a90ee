// Package log is the logger shared by every package in the module.
package log

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the module-wide logger. Its level is taken from $WLR_LOG,
// and forced to debug if $WAYLAND_DEBUG is a positive integer.
var Logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix:          "wlr",
	ReportTimestamp: true,
})

func init() {
	Logger.SetLevel(levelFromEnv())
}

func levelFromEnv() log.Level {
	debugLevel, err := strconv.ParseInt(os.Getenv("WAYLAND_DEBUG"), 10, 0)
	if (err == nil) && (debugLevel > 0) {
		return log.DebugLevel
	}

	switch strings.ToLower(os.Getenv("WLR_LOG")) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "silent":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// SetLevel parses and sets the level of Logger. Unknown names are
// ignored.
func SetLevel(name string) {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return
	}
	Logger.SetLevel(lvl)
}

func Debug(msg any, keyvals ...any) {
	Logger.Debug(msg, keyvals...)
}

func Info(msg any, keyvals ...any) {
	Logger.Info(msg, keyvals...)
}

func Warn(msg any, keyvals ...any) {
	Logger.Warn(msg, keyvals...)
}

func Error(msg any, keyvals ...any) {
	Logger.Error(msg, keyvals...)
}

// Printf logs at debug level. It exists for the places that used to
// print protocol traces.
func Printf(format string, args ...any) {
	Logger.Debugf(format, args...)
}
