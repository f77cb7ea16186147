package main

import (
	"os"

	"github.com/sahib/zftp/cmd"
)

func main() {
	os.Exit(cmd.RunCmdline(os.Args))
}
