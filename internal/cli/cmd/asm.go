package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dkrasner/m24asm/internal/assemble"
	"github.com/dkrasner/m24asm/internal/cli"
	"github.com/dkrasner/m24asm/internal/log"
	"github.com/dkrasner/m24asm/internal/macro"
	"github.com/dkrasner/m24asm/internal/object"
	"github.com/dkrasner/m24asm/internal/srcerr"
)

// maxLineLength is the longest a raw source line may be; longer lines are
// rejected, not truncated.
const maxLineLength = 80

var errLineTooLong = errors.New("source line exceeds 80 characters")

// Assembler is the command that translates `.as` source into a relocatable
// object image.
//
//	m24asm asm BASENAME [BASENAME...]
func Assembler() cli.Command {
	return new(assembler)
}

type assembler struct {
	debug bool
}

func (assembler) Description() string {
	return "assemble source into a relocatable object image"
}

func (assembler) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `asm basename [basename...]

Assemble <basename>.as into <basename>.ob, and, when applicable,
<basename>.ent and <basename>.ext. The macro-expanded source is written to
<basename>.am.`)

	return err
}

func (a *assembler) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("asm", flag.ExitOnError)
	fs.BoolVar(&a.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&a.debug, "d", false, "enable debug logging (shorthand)")

	return fs
}

// Run assembles every named basename as its own job; one job's failure
// does not stop the rest, but it does set the command's exit status.
func (a *assembler) Run(_ context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if a.debug {
		log.LogLevel.Set(log.Debug)
	}

	status := 0

	for _, base := range args {
		srcName := base + ".as"

		if err := a.runJob(base, logger); err != nil {
			logger.Error("job failed", "file", srcName, "err", err)
			fmt.Fprintln(stdout, formatError(srcName, err))

			status = 1
		}
	}

	return status
}

func formatError(file string, err error) string {
	wrapped := srcerr.WithFile(file, err)

	var le *srcerr.LineError
	if errors.As(wrapped, &le) {
		return "Error in " + le.Error()
	}

	return fmt.Sprintf("Error in %s: %s", file, err)
}

func (a *assembler) runJob(base string, logger *log.Logger) error {
	srcName := base + ".as"

	f, err := os.Open(srcName)
	if err != nil {
		return err
	}

	raw, err := readLines(f)

	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return err
	}

	expanded, err := macro.Expand(raw, macro.DefaultOptions())
	if err != nil {
		return err
	}

	if err := writeLinesToFile(base+".am", expanded); err != nil {
		return err
	}

	res, err := assemble.Run(expanded, assemble.Options{}, logger)
	if err != nil {
		return err
	}

	obFile, err := os.Create(base + ".ob")
	if err != nil {
		return err
	}

	err = object.WriteOb(obFile, res)

	if cerr := obFile.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return err
	}

	if err := writeOptionalArtifact(base+".ent", res, object.WriteEnt); err != nil {
		return err
	}

	if err := writeOptionalArtifact(base+".ext", res, object.WriteExt); err != nil {
		return err
	}

	logger.Debug("assembled", "file", srcName, "symbols", res.Symbols.Len(), "code_size", res.FinalIC-assemble.ICStart)

	return nil
}

func writeOptionalArtifact(
	name string,
	res *assemble.Result,
	write func(io.Writer, *assemble.Result) (bool, error),
) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}

	wrote, err := write(f, res)

	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return err
	}

	if !wrote {
		return os.Remove(name)
	}

	return nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)

	var lines []string

	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if len(line) > maxLineLength {
			return nil, srcerr.At(lineNo, errLineTooLong)
		}

		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

func writeLinesToFile(name string, lines []string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)

	for _, line := range lines {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			f.Close()
			return err
		}
	}

	err = bw.Flush()

	if cerr := f.Close(); err == nil {
		err = cerr
	}

	return err
}
