package main

import (
	"os"

	"github.com/marco79423/bumpbuild/pkg/command/bump"
)

func main() {
	app := bump.NewApp(os.Stdout, os.Stderr, bump.TerminalPrompter)
	bump.Run(app, os.Args)
}
