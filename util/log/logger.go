// Package log implements utility methods for logging in a colorful manner.
package log

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

var showPid = false

func init() {
	if os.Getenv("ZFTP_LOG_SHOW_PID") != "" {
		showPid = true
	}
}

// FancyLogFormatter is the default logger for zftp.
type FancyLogFormatter struct {
	UseColors bool
}

var symbolTable = map[logrus.Level]string{
	logrus.DebugLevel: "⚙",
	logrus.InfoLevel:  "⚐",
	logrus.WarnLevel:  "⚠",
	logrus.ErrorLevel: "⚡",
	logrus.FatalLevel: "☣",
	logrus.PanicLevel: "☠",
}

var colorTable = map[logrus.Level]func(string, ...interface{}) string{
	logrus.DebugLevel: color.CyanString,
	logrus.InfoLevel:  color.GreenString,
	logrus.WarnLevel:  color.YellowString,
	logrus.ErrorLevel: color.RedString,
	logrus.FatalLevel: color.MagentaString,
	logrus.PanicLevel: color.MagentaString,
}

func colorByLevel(level logrus.Level, msg string) string {
	fn, ok := colorTable[level]
	if !ok {
		return msg
	}

	return fn("%s", msg)
}

func formatColored(useColors bool, buffer *bytes.Buffer, msg string, level logrus.Level) {
	if useColors {
		buffer.WriteString(colorByLevel(level, msg))
	} else {
		buffer.WriteString(msg)
	}
}

func formatTimestamp(builder *strings.Builder, t time.Time) {
	fmt.Fprintf(builder, "%02d.%02d.%04d", t.Day(), t.Month(), t.Year())
	builder.WriteByte('/')
	fmt.Fprintf(builder, "%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

func formatFields(useColors bool, buffer *bytes.Buffer, entry *logrus.Entry) {
	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	buffer.WriteString(" [")

	for idx, key := range keys {
		// Make the key colored:
		formatColored(useColors, buffer, key, entry.Level)
		buffer.WriteByte('=')

		switch v := entry.Data[key].(type) {
		case error:
			formatColored(useColors, buffer, v.Error(), logrus.ErrorLevel)
		default:
			buffer.WriteString(fmt.Sprintf("%v", v))
		}

		// Print no space after the last element:
		if idx != len(keys)-1 {
			buffer.WriteByte(' ')
		}
	}

	buffer.WriteByte(']')
}

type empty struct{}

var logSymbols = map[string]empty{
	"logrus.Debugf":           {},
	"logrus.Debug":            {},
	"logrus.Infof":            {},
	"logrus.Info":             {},
	"logrus.Warnf":            {},
	"logrus.Warn":             {},
	"logrus.Warningf":         {},
	"logrus.Warning":          {},
	"logrus.Errorf":           {},
	"logrus.Error":            {},
	"logrus.Panic":            {},
	"logrus.Panicf":           {},
	"logrus.(*Entry).Debugf":  {},
	"logrus.(*Entry).Infof":   {},
	"logrus.(*Entry).Warnf":   {},
	"logrus.(*Entry).Errorf":  {},
	"logrus.(*Entry).Debug":   {},
	"logrus.(*Entry).Info":    {},
	"logrus.(*Entry).Warn":    {},
	"logrus.(*Entry).Error":   {},
	"logrus.(*Entry).Warning": {},
}

func findCallers() (string, int, bool) {
	// logrus adds some stuff to the stack trace.
	pcs := make([]uintptr, 20)
	nCallers := runtime.Callers(5, pcs)
	frames := runtime.CallersFrames(pcs[:nCallers])

	nextLineIsCallee := false
	for {
		frame, ok := frames.Next()
		if !ok {
			break
		}

		if nextLineIsCallee {
			// Try to pretty print the file. If it's inside of zftp,
			// the relative path from the root is enough to print.
			zftpTag := "zftp/"
			zftpModIdx := strings.LastIndex(frame.File, zftpTag)
			if zftpModIdx == -1 {
				return filepath.Base(frame.File), frame.Line, true
			}

			return frame.File[zftpModIdx+len(zftpTag):], frame.Line, true
		}

		// Try to get the pure function name (without the module prefix)
		lastIdx := strings.LastIndex(frame.Function, "/")
		if lastIdx == -1 {
			continue
		}

		// Check if this line is a call to the official logrus API.
		// Then, the next line must be the actual line where the log was done.
		_, nextLineIsCallee = logSymbols[frame.Function[lastIdx+1:]]
	}

	return "", 0, false
}

// Format logs a single entry according to our formatting ideas.
func (flf *FancyLogFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	prefixBuilder := strings.Builder{}
	formatTimestamp(&prefixBuilder, entry.Time)
	prefixBuilder.WriteByte(' ')

	// Add the symbol:
	prefixBuilder.WriteString(symbolTable[entry.Level])

	// Add the actual message:
	buffer := &bytes.Buffer{}
	if flf.UseColors {
		buffer.WriteString(colorByLevel(entry.Level, prefixBuilder.String()))
	} else {
		buffer.WriteString(prefixBuilder.String())
	}

	if showPid {
		// This is useful for debugging unittests where several processes
		// all log to stdout. This helps differentiating the logs.
		buffer.WriteString(fmt.Sprintf(" [%d]", os.Getpid()))
	}

	file, line, ok := findCallers()
	if ok {
		buffer.WriteString(fmt.Sprintf(" %s:%d:", file, line))
	}

	buffer.WriteByte(' ')
	buffer.WriteString(entry.Message)

	// Add the fields, if any:
	if len(entry.Data) > 0 {
		formatFields(flf.UseColors, buffer, entry)
	}

	buffer.WriteByte('\n')
	return buffer.Bytes(), nil
}

// ParseLevel converts the names used in the config to a logrus level.
func ParseLevel(name string) (logrus.Level, error) {
	switch name {
	case "warning", "warn":
		return logrus.WarnLevel, nil
	default:
		return logrus.ParseLevel(name)
	}
}

// SetOutput directs the standard logger to »stdout«, »stderr« or a file.
// The returned closer has to be called when logging is done.
func SetOutput(path string) (func() error, error) {
	switch path {
	case "stdout":
		logrus.SetOutput(os.Stdout)
	case "stderr", "":
		logrus.SetOutput(os.Stderr)
	default:
		fd, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}

		logrus.SetOutput(fd)
		return fd.Close, nil
	}

	return func() error { return nil }, nil
}
