package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUsage is returned for bad command line arguments.
	ErrUsage = errors.New("usage error")

	// ErrEnv is returned when the environment lacks required configuration.
	ErrEnv = errors.New("environment error")

	// ErrLoad is returned when the task specifier cannot be resolved to a valid task.
	ErrLoad = errors.New("task load error")

	// ErrParse is returned when an input line is not "<branchId> <command>".
	ErrParse = errors.New("parse error")

	// ErrUnknownBranch is returned when a branch id was never allocated.
	ErrUnknownBranch = errors.New("unknown branch id")

	// ErrEngineFault marks engine failures outside its declared result variants.
	ErrEngineFault = errors.New("engine fault")
)

// LoadError describes why a task could not be loaded.
type LoadError struct {
	Task   string
	Reason string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load task %q: %s", e.Task, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return ErrLoad
}

// SyntaxError is the engine rejecting command text.
type SyntaxError struct {
	Message string
}

func (e *SyntaxError) Error() string {
	return e.Message
}

// Fault wraps err as an engine fault, keeping the original for errors.Is/As.
func Fault(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrEngineFault) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrEngineFault, op, err)
}
