package domain

// Response is the answer to a single command (or the welcome message).
//
// A nil Branch with no Errors means the command closed every remaining goal.
// A response with Errors never carries a Branch or Goals.
type Response struct {
	Branch *BranchID
	Goals  []string
	Errors []string
}

// BranchResponse reports a newly reachable branch and its rendered goals.
func BranchResponse(id BranchID, goals []string) Response {
	return Response{Branch: &id, Goals: goals}
}

// SolvedResponse reports that no goals remain.
func SolvedResponse() Response {
	return Response{}
}

// ErrorResponse reports a recoverable failure.
func ErrorResponse(msgs ...string) Response {
	return Response{Errors: msgs}
}

// Solved reports whether the response is the terminal success signal.
func (r Response) Solved() bool {
	return r.Branch == nil && len(r.Errors) == 0
}

// Failed reports whether the response carries errors.
func (r Response) Failed() bool {
	return len(r.Errors) > 0
}
