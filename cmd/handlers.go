package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/chzyer/readline"
	"github.com/sahib/config"
	"github.com/sahib/zftp/client"
	"github.com/sahib/zftp/defaults"
	"github.com/sahib/zftp/server"
	"github.com/sahib/zftp/session"
	"github.com/sahib/zftp/version"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const shellPrompt = "zftp> "

func handleServe(ctx *cli.Context, cfg *config.Config) error {
	if ctx.IsSet("port") {
		if err := cfg.SetInt("server.port", int64(ctx.Int("port"))); err != nil {
			return ExitCode{BadArgs, err.Error()}
		}
	}

	if ctx.IsSet("bind") {
		if err := cfg.SetString("server.bind", ctx.String("bind")); err != nil {
			return ExitCode{BadArgs, err.Error()}
		}
	}

	if ctx.IsSet("root") {
		if err := cfg.SetString("server.root", expandPath(ctx.String("root"))); err != nil {
			return ExitCode{BadArgs, err.Error()}
		}
	}

	srv, err := server.BootServer(context.Background(), cfg)
	if err != nil {
		return ExitCode{UnknownError, fmt.Sprintf("cannot start server: %v", err)}
	}

	return srv.Serve()
}

func handleConnect(ctx *cli.Context, cfg *config.Config) error {
	clientCfg := cfg.Section("client")

	port := int(clientCfg.Int("port"))
	if ctx.IsSet("port") {
		port = ctx.Int("port")
	}

	addr := net.JoinHostPort(ctx.Args().First(), strconv.Itoa(port))

	historyFile := clientCfg.String("history_file")
	if historyFile != "" {
		historyFile = expandPath(historyFile)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    client.NewCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "done",
	})

	if err != nil {
		return ExitCode{UnknownError, fmt.Sprintf("cannot start shell: %v", err)}
	}

	defer rl.Close()

	sh := client.NewShell(rl, rl.Stdout(), shellPrompt)
	opts := session.ClientOptions{
		Output: rl.Stdout(),
		Transfer: session.TransferOptions{
			ChunkSize: int(cfg.Int("transfer.chunk_size")),
			MaxRate:   defaults.MaxRate(cfg),
		},
	}

	if !clientCfg.Bool("assume_yes") && !ctx.Bool("yes") {
		opts.Consent = sh.Consent
	}

	if clientCfg.Bool("progress") && !ctx.Bool("no-progress") && isTerminal(os.Stderr) {
		opts.Progress = client.NewProgressFunc(os.Stderr)
	}

	logVerbose(ctx, "connecting to %s", addr)
	cl, err := client.Dial(context.Background(), addr, opts)
	if err != nil {
		return ExitCode{ConnectionFailed, fmt.Sprintf("cannot connect to %s: %v", addr, err)}
	}

	defer cl.Close()

	log.Infof("connected to %s", cl.RemoteAddr())
	if err := sh.Run(cl); err != nil {
		return ExitCode{ConnectionFailed, fmt.Sprintf("session ended: %v", err)}
	}

	return nil
}

func handleConfigList(ctx *cli.Context, cfg *config.Config) error {
	return cfg.Save(config.NewYamlEncoder(ctx.App.Writer))
}

func handleConfigGet(ctx *cli.Context, cfg *config.Config) error {
	key := ctx.Args().Get(0)
	if !cfg.IsValidKey(key) {
		return ExitCode{BadArgs, fmt.Sprintf("no such config key: %s", key)}
	}

	fmt.Fprintln(ctx.App.Writer, cfg.Uncast(key))
	return nil
}

func handleConfigSet(ctx *cli.Context, cfg *config.Config) error {
	key, rawVal := ctx.Args().Get(0), ctx.Args().Get(1)
	if !cfg.IsValidKey(key) {
		return ExitCode{BadArgs, fmt.Sprintf("no such config key: %s", key)}
	}

	val, err := cfg.Cast(key, rawVal)
	if err != nil {
		return ExitCode{BadArgs, fmt.Sprintf("bad value for %s: %v", key, err)}
	}

	if err := cfg.Set(key, val); err != nil {
		return ExitCode{BadArgs, fmt.Sprintf("cannot set %s: %v", key, err)}
	}

	path, err := configPath(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if err := cfg.Save(config.NewYamlEncoder(fd)); err != nil {
		fd.Close()
		return err
	}

	return fd.Close()
}

func handleVersion(ctx *cli.Context) error {
	fmt.Fprintln(ctx.App.Writer, version.String())
	return nil
}
