package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sahib/config"
	colorlog "github.com/sahib/zftp/util/log"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func logVerbose(ctx *cli.Context, format string, args ...interface{}) {
	if !ctx.GlobalBool("verbose") {
		return
	}

	if !strings.HasSuffix(format, "\n") {
		format = format + "\n"
	}

	fmt.Fprintf(os.Stderr, "-- "+format, args...)
}

// setupLogging configures the standard logger from the »log« section.
// --log-path and --verbose take precedence over the config.
func setupLogging(ctx *cli.Context, cfg *config.Config) (func() error, error) {
	path := cfg.String("log.path")
	if ctx.GlobalIsSet("log-path") {
		path = ctx.GlobalString("log-path")
	}

	closer, err := colorlog.SetOutput(path)
	if err != nil {
		return nil, err
	}

	level, err := colorlog.ParseLevel(cfg.String("log.level"))
	if err != nil {
		closer()
		return nil, err
	}

	if ctx.GlobalBool("verbose") {
		level = log.DebugLevel
	}

	log.SetLevel(level)

	useColors := false
	switch path {
	case "stderr", "":
		useColors = isTerminal(os.Stderr)
	case "stdout":
		useColors = isTerminal(os.Stdout)
	}

	log.SetFormatter(&colorlog.FancyLogFormatter{UseColors: useColors})
	return closer, nil
}
