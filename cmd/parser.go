package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/sahib/zftp/version"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func formatGroup(category string) string {
	return strings.ToUpper(category) + " COMMANDS"
}

func newApp(out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "zftp"
	app.Usage = "Minimal remote file access over TCP"
	app.EnableBashCompletion = true
	app.Version = version.String()
	app.CommandNotFound = commandNotFound
	app.Writer = out

	// Groups:
	netwGroup := formatGroup("network")
	miscGroup := formatGroup("misc")

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config,c",
			Usage:  "Path of the config file",
			Value:  defaultConfigPath,
			EnvVar: "ZFTP_CONFIG",
		},
		cli.StringFlag{
			Name:   "log-path,l",
			Usage:  "Where to output the log. May be 'stderr', 'stdout' or a file",
			Value:  "stderr",
			EnvVar: "ZFTP_LOG",
		},
		cli.BoolFlag{
			Name:  "verbose,V",
			Usage: "Log debug messages and explain what is being done",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:        "serve",
			Aliases:     []string{"s"},
			Category:    netwGroup,
			Usage:       "Serve a directory to zftp clients",
			Description: "Accepts clients on the configured port and answers their commands.\n   Relative paths of clients are resolved against --root.",
			Action:      withConfig(handleServe),
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "port,p",
					Usage: "Port to listen on (overrides server.port)",
				},
				cli.StringFlag{
					Name:  "bind,b",
					Usage: "Host to bind to (overrides server.bind)",
				},
				cli.StringFlag{
					Name:  "root,r",
					Usage: "Directory to serve (overrides server.root)",
				},
			},
		},
		{
			Name:        "connect",
			Aliases:     []string{"c"},
			Category:    netwGroup,
			Usage:       "Connect to a server and open a shell",
			ArgsUsage:   "<host>",
			Description: "Opens an interactive shell. Commands: list [dir], get <remote> [local],\n   put <local> [remote] and done.",
			Action:      withArgCheck(needAtLeast(1), withConfig(handleConnect)),
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "port,p",
					Usage: "Port of the server (overrides client.port)",
				},
				cli.BoolFlag{
					Name:  "yes,y",
					Usage: "Receive files without asking",
				},
				cli.BoolFlag{
					Name:  "no-progress",
					Usage: "Do not draw progress bars",
				},
			},
		},
		{
			Name:        "config",
			Category:    miscGroup,
			Usage:       "Show or modify the config",
			Description: "Without subcommand, the effective config is printed as YAML.",
			Action:      withConfig(handleConfigList),
			Subcommands: []cli.Command{
				{
					Name:   "list",
					Usage:  "Print the effective config",
					Action: withConfig(handleConfigList),
				},
				{
					Name:      "get",
					Usage:     "Print a single config value",
					ArgsUsage: "<key>",
					Action:    withArgCheck(needAtLeast(1), withConfig(handleConfigGet)),
				},
				{
					Name:      "set",
					Usage:     "Set a config value and save it",
					ArgsUsage: "<key> <value>",
					Action:    withArgCheck(needAtLeast(2), withConfig(handleConfigSet)),
				},
			},
		},
		{
			Name:     "version",
			Category: miscGroup,
			Usage:    "Print the version",
			Action:   handleVersion,
		},
	}

	return app
}

func exitCodeOf(err error) int {
	if err == nil {
		return Success
	}

	if exitErr, ok := err.(ExitCode); ok {
		log.Error(exitErr.Message)
		return exitErr.Code
	}

	log.Error(err)
	return UnknownError
}

// RunCmdline starts a zftp commandline tool.
func RunCmdline(args []string) int {
	return exitCodeOf(newApp(os.Stdout).Run(args))
}
