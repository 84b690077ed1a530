package runner

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// DefaultPrompt is shown before each request line in interactive sessions.
const DefaultPrompt = "> "

// Prompt writes a coloured prompt to a terminal.
type Prompt struct {
	w    io.Writer
	text termenv.Style
}

// NewPrompt creates a prompt written to w.
func NewPrompt(w io.Writer, text string) *Prompt {
	out := termenv.NewOutput(w)
	return &Prompt{
		w:    w,
		text: out.String(text).Foreground(out.Color("#818cf8")).Bold(),
	}
}

// InteractivePrompt returns a prompt on w when in is a terminal, nil otherwise.
// Piped sessions never see a prompt.
func InteractivePrompt(in *os.File, w io.Writer) *Prompt {
	if in == nil || !term.IsTerminal(int(in.Fd())) {
		return nil
	}
	return NewPrompt(w, DefaultPrompt)
}

// Show writes the prompt.
func (p *Prompt) Show() error {
	_, err := io.WriteString(p.w, p.text.String())
	return err
}
