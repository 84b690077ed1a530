package process

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"github.com/PatrickMassot/lean-gym/pkg/ports"
)

// Serve hosts engine over the newline-delimited JSON protocol: one request per
// line of r, one reply per line on w. It returns nil once r is exhausted.
// Engine errors are reported to the client as faults and do not stop the loop.
func Serve(ctx context.Context, engine ports.Engine, r io.Reader, w io.Writer) error {
	h := &host{engine: engine, values: make(map[uint64]any)}
	br := bufio.NewReader(r)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, readErr := br.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			var req request
			var rep reply
			if err := json.Unmarshal(line, &req); err != nil {
				rep.Fault = "malformed request: " + err.Error()
			} else {
				rep = h.handle(ctx, req)
			}
			rep.ID = req.ID
			if err := enc.Encode(rep); err != nil {
				return fmt.Errorf("failed to write reply: %w", err)
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read request: %w", readErr)
		}
	}
}

// host keeps every value handed out to the client, keyed by token.
// Values are never released: a branch may be revisited at any time.
type host struct {
	engine ports.Engine
	next   uint64
	values map[uint64]any
}

func (h *host) mint(v any) json.RawMessage {
	h.next++
	h.values[h.next] = v
	return json.RawMessage(strconv.FormatUint(h.next, 10))
}

func (h *host) lookup(raw json.RawMessage) (any, error) {
	id, err := strconv.ParseUint(string(bytes.TrimSpace(raw)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed token %q", raw)
	}
	v, ok := h.values[id]
	if !ok {
		return nil, fmt.Errorf("unknown token %d", id)
	}
	return v, nil
}

func (h *host) handle(ctx context.Context, req request) reply {
	rep, err := h.dispatch(ctx, req)
	if err != nil {
		return reply{Fault: err.Error()}
	}
	return rep
}

func (h *host) dispatch(ctx context.Context, req request) (reply, error) {
	switch req.Op {
	case opInitialize:
		ec, err := h.engine.Initialize(ctx, req.Task)
		if err != nil {
			var lerr *domain.LoadError
			if errors.As(err, &lerr) {
				return reply{LoadError: &lerr.Reason}, nil
			}
			return reply{}, err
		}
		return reply{Context: h.mint(ec)}, nil

	case opInitialState:
		ec, err := h.lookup(req.Context)
		if err != nil {
			return reply{}, err
		}
		state, err := h.engine.InitialState(ctx, ec)
		if err != nil {
			return reply{}, err
		}
		return reply{State: h.mint(state)}, nil

	case opParse:
		ec, err := h.lookup(req.Context)
		if err != nil {
			return reply{}, err
		}
		res, err := h.engine.ParseCommand(ctx, ec, req.Text)
		if err != nil {
			return reply{}, err
		}
		if !res.OK() {
			msg := res.Syntax.Message
			return reply{SyntaxError: &msg}, nil
		}
		return reply{Command: h.mint(res.Command)}, nil

	case opApply:
		state, err := h.lookup(req.State)
		if err != nil {
			return reply{}, err
		}
		cmd, err := h.lookup(req.Command)
		if err != nil {
			return reply{}, err
		}
		res, err := h.engine.Apply(ctx, state, cmd)
		if err != nil {
			return reply{}, err
		}
		rep := reply{Status: string(res.Status)}
		if !res.OK() {
			rep.Errors = res.Errors
			return rep, nil
		}
		rep.State = h.mint(res.State)
		for _, g := range res.Goals {
			rep.Goals = append(rep.Goals, h.mint(g))
		}
		return rep, nil

	case opRenderGoals:
		goals := make([]domain.Goal, len(req.Goals))
		for i, raw := range req.Goals {
			g, err := h.lookup(raw)
			if err != nil {
				return reply{}, err
			}
			goals[i] = g
		}
		rendered, err := h.engine.RenderGoals(ctx, goals)
		if err != nil {
			return reply{}, err
		}
		return reply{Rendered: rendered}, nil

	case opRenderState:
		state, err := h.lookup(req.State)
		if err != nil {
			return reply{}, err
		}
		rendered, err := h.engine.RenderState(ctx, state)
		if err != nil {
			return reply{}, err
		}
		return reply{Rendered: rendered}, nil
	}

	return reply{}, fmt.Errorf("unknown op %q", req.Op)
}
