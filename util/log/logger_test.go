package log

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestFormatPlain(t *testing.T) {
	entry := &logrus.Entry{
		Logger:  logrus.StandardLogger(),
		Time:    time.Date(2018, time.March, 4, 5, 6, 7, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "transfer failed",
		Data: logrus.Fields{
			"peer": "127.0.0.1:1234",
			"cmd":  "get",
		},
	}

	formatter := &FancyLogFormatter{UseColors: false}
	data, err := formatter.Format(entry)
	require.Nil(t, err)

	line := string(data)
	require.True(t, strings.HasPrefix(line, "04.03.2018/05:06:07 ⚠"), line)
	require.True(t, strings.HasSuffix(line, "transfer failed [cmd=get peer=127.0.0.1:1234]\n"), line)
}

func TestLogThroughLogrus(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.Out = buf
	logger.Formatter = &FancyLogFormatter{}

	logger.Info("hello")
	require.Contains(t, buf.String(), "⚐")
	require.Contains(t, buf.String(), "hello\n")
}

func TestParseLevel(t *testing.T) {
	for name, expect := range map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"info":    logrus.InfoLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
	} {
		lvl, err := ParseLevel(name)
		require.Nil(t, err)
		require.Equal(t, expect, lvl)
	}

	_, err := ParseLevel("chatty")
	require.NotNil(t, err)
}

func TestSetOutputFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "zftp-log-test")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "zftp.log")
	closer, err := SetOutput(path)
	require.Nil(t, err)

	logrus.Warn("into the file")
	require.Nil(t, closer())

	_, err = SetOutput("stderr")
	require.Nil(t, err)

	data, err := ioutil.ReadFile(path)
	require.Nil(t, err)
	require.Contains(t, string(data), "into the file")
}
