package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/sahib/config"
	"github.com/sahib/zftp/defaults"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const defaultConfigPath = "~/.config/zftp/config.yml"

// ExitCode is an error that maps the error interface to a specific error
// message and a unix exit code
type ExitCode struct {
	Code    int
	Message string
}

func (err ExitCode) Error() string {
	return err.Message
}

func configPath(ctx *cli.Context) (string, error) {
	path := ctx.GlobalString("config")
	if path == "" {
		path = defaultConfigPath
	}

	return homedir.Expand(path)
}

type cmdHandlerWithConfig func(ctx *cli.Context, cfg *config.Config) error

// withConfig loads the config and sets up logging before calling `handler`.
func withConfig(handler cmdHandlerWithConfig) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		path, err := configPath(ctx)
		if err != nil {
			return ExitCode{BadArgs, "cannot find config: " + err.Error()}
		}

		cfg, err := defaults.OpenMigratedConfig(path)
		if err != nil {
			return ExitCode{BadArgs, "cannot load config: " + err.Error()}
		}

		closer, err := setupLogging(ctx, cfg)
		if err != nil {
			return ExitCode{BadArgs, "cannot set up logging: " + err.Error()}
		}

		defer closer()

		logVerbose(ctx, "using config at %s", path)
		return handler(ctx, cfg)
	}
}

type checkFunc func(ctx *cli.Context) int

func withArgCheck(checker checkFunc, handler cli.ActionFunc) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if code := checker(ctx); code != Success {
			return ExitCode{code, "bad arguments"}
		}

		return handler(ctx)
	}
}

func needAtLeast(min int) checkFunc {
	return func(ctx *cli.Context) int {
		if ctx.NArg() < min {
			if min == 1 {
				log.Warningf("Need at least %d argument.", min)
			} else {
				log.Warningf("Need at least %d arguments.", min)
			}

			if err := cli.ShowCommandHelp(ctx, ctx.Command.Name); err != nil {
				log.Warningf("Failed to display --help: %v", err)
			}

			return BadArgs
		}

		return Success
	}
}

func expandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}

	return expanded
}

func isTerminal(fd *os.File) bool {
	return isatty.IsTerminal(fd.Fd())
}
