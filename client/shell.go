package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	humanize "github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sahib/zftp/command"
	"github.com/sahib/zftp/session"
	"github.com/sahib/zftp/util"
	log "github.com/sirupsen/logrus"
)

// LineReader is the part of *readline.Instance the shell needs.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// Shell reads commands from the user and runs them against a server.
type Shell struct {
	rd     LineReader
	out    io.Writer
	prompt string
}

// NewShell returns a Shell reading from `rd` and printing to `out`.
func NewShell(rd LineReader, out io.Writer, prompt string) *Shell {
	rd.SetPrompt(prompt)
	return &Shell{rd: rd, out: out, prompt: prompt}
}

// NewCompleter completes the keywords a user can type.
func NewCompleter() readline.AutoCompleter {
	items := []readline.PrefixCompleterInterface{}
	for _, keyword := range command.Keywords {
		items = append(items, readline.PcItem(keyword))
	}

	return readline.NewPrefixCompleter(items...)
}

// Consent asks the user whether a GET may start.
// Only an answer starting with y or Y accepts; failing to read declines.
func (sh *Shell) Consent(path string, size int64) bool {
	sh.rd.SetPrompt(fmt.Sprintf("Okay to receive %s? (y/N) ", humanize.Bytes(uint64(size))))
	defer sh.rd.SetPrompt(sh.prompt)

	answer, err := sh.rd.Readline()
	if err != nil {
		return false
	}

	answer = strings.TrimSpace(answer)
	return answer != "" && (answer[0] == 'y' || answer[0] == 'Y')
}

// Run executes commands until the user is done or the session breaks.
// End of input (Ctrl-D) sends DONE; Ctrl-C only discards the current line.
// The returned error is the fatal one that ended the session, if any.
func (sh *Shell) Run(cl *Client) error {
	for {
		line, err := sh.rd.Readline()
		if err == readline.ErrInterrupt {
			continue
		}

		if err == io.EOF {
			_, err := cl.Do(command.Done{})
			return err
		}

		if err != nil {
			return err
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		cmd, err := command.ParseInput(line)
		if err != nil {
			sh.complain(line, err)
			continue
		}

		keepGoing, err := cl.Do(cmd)
		if err != nil && !session.IsFatal(err) {
			sh.report(cmd, err)
		}

		if !keepGoing {
			return err
		}
	}
}

func (sh *Shell) report(cmd command.Command, err error) {
	switch {
	case session.IsRemoteError(err):
		log.Warnf("%s failed on server: %s", cmd.Name(), err.(*session.RemoteError).Cause)
	case session.IsRefused(err):
		log.Warnf("server refused %s: %s", cmd.Name(), err.(*session.RefusedError).Reply)
	default:
		log.Warnf("%s failed: %v", cmd.Name(), err)
	}
}

func (sh *Shell) complain(line string, err error) {
	fmt.Fprintf(sh.out, "%s %v\n", color.RedString("✗"), err)

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	similars := util.Similar(strings.ToLower(fields[0]), command.Keywords, 0.6)
	if len(similars) > 0 && similars[0] != strings.ToLower(fields[0]) {
		fmt.Fprintf(sh.out, "Did you maybe mean `%s`?\n", color.GreenString(similars[0]))
	}
}
