// cmd/m24asm is the command-line interface to m24asm, an assembler for a
// 24-bit-word instruction set.
package main

import (
	"context"
	"os"

	"github.com/dkrasner/m24asm/internal/cli"
	"github.com/dkrasner/m24asm/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Assembler(),
}

func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
