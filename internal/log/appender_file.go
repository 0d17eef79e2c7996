package log

import (
	"errors"

	"gopkg.in/natefinch/lumberjack.v2"

	"firestige.xyz/attrcodec/internal/config"
)

var errNoLogPath = errors.New("log: file output requires a path")

// addFile appends a rotating log file. lumberjack opens it on first write.
func (a *appenders) addFile(fc config.FileOutputConfig) error {
	if fc.Path == "" {
		return errNoLogPath
	}
	a.own(&lumberjack.Logger{
		Filename:   fc.Path,
		MaxSize:    fc.Rotation.MaxSizeMB,  // megabytes
		MaxBackups: fc.Rotation.MaxBackups,
		MaxAge:     fc.Rotation.MaxAgeDays, // days
		Compress:   fc.Rotation.Compress,
	})
	return nil
}
