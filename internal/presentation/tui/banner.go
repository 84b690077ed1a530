package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the interactive session banner to w.
// Colours are dropped when w is not a terminal.
func PrintBanner(w io.Writer, version, task string) {
	out := termenv.NewOutput(w)
	// Indigo to rose, one step per line.
	lines := []struct {
		text  string
		color string
	}{
		{` _                                              `, "#818cf8"},
		{`| | ___  __ _ _ __         __ _ _   _ _ __ ___  `, "#a78bfa"},
		{`| |/ _ \/ _' | '_ \ _____ / _' | | | | '_ ' _ \ `, "#c084fc"},
		{`| |  __/ (_| | | | |_____| (_| | |_| | | | | | |`, "#e879f9"},
		{`|_|\___|\__,_|_| |_|      \__, |\__, |_| |_| |_|`, "#f472b6"},
		{`                          |___/ |___/           `, "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintf(w, "\n%s  %s\n", out.String("v"+version).Faint(), out.String(task).Bold())
	fmt.Fprintln(w, out.String(`Requests: "<branchId> <command>", one per line. Ctrl+D ends the session.`).Faint())
	fmt.Fprintln(w)
}
