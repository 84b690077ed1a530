package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"github.com/PatrickMassot/lean-gym/pkg/protocol"
)

// JSONHandler implements IOHandler for the line protocol: request lines in,
// one JSON document per line out.
type JSONHandler struct {
	Reader *bufio.Reader
	Writer io.Writer

	// Prompt, when set, is shown before each read. It never touches Writer.
	Prompt *Prompt

	eof bool
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
}

func (h *JSONHandler) Output(ctx context.Context, resp domain.Response) error {
	data, err := protocol.Marshal(resp)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = h.Writer.Write(data)
	return err
}

// Input returns the next line. A final line without terminator is still returned;
// the following call reports io.EOF.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if h.eof {
		return "", io.EOF
	}
	if h.Prompt != nil {
		if err := h.Prompt.Show(); err != nil {
			return "", fmt.Errorf("failed to show prompt: %w", err)
		}
	}

	text, err := h.Reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && text != "" {
			h.eof = true
			return protocol.TrimEOL(text), nil
		}
		return "", err
	}
	return protocol.TrimEOL(text), nil
}
