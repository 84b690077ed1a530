package domain

import "strconv"

// BranchID identifies a state reached during a session.
// IDs are allocated in increasing order starting at 0 and are never reused.
type BranchID uint64

// RootBranch is the branch bound to the initial state of every session.
const RootBranch BranchID = 0

func (id BranchID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// StateHandle is an opaque snapshot produced and consumed only by the engine.
// Handles must be immutable: the store hands out the same value many times.
type StateHandle any

// Goal is an opaque reference to one unit of remaining work inside a state.
type Goal any

// Command is a parsed command, opaque to everything but the engine that produced it.
type Command any

// EngineContext is whatever the engine needs to keep after loading a task.
type EngineContext any
