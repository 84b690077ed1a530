package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/PatrickMassot/lean-gym/internal/cli"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the exit status. Failures are
// reported as a single line on errOut; out only ever carries protocol lines.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "lean-gym: %v\n", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}
