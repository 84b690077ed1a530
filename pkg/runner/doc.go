/*
Package runner implements the session loop: it reads request lines, hands them to
a Session and writes one JSON response per line.

The loop is strictly sequential. End of input ends the session cleanly; an engine
fault ends it with an error and no further output.

# Key Components

  - Runner: the read-dispatch-print loop, with optional transcript recording.
  - IOHandler: decouples the loop from its transport.
  - JSONHandler: the line protocol over stdin/stdout.
  - Prompt: an interactive prompt, only ever written to a terminal.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewJSONHandler(os.Stdin, os.Stdout)),
		runner.WithTranscript(sink),
	)

	if err := r.Run(ctx, session); err != nil {
		log.Fatal(err)
	}
*/
package runner
