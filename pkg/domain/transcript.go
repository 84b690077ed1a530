package domain

import "time"

// TranscriptEntry records one exchange of a session.
// Input is empty for the welcome response.
type TranscriptEntry struct {
	Session  string    `json:"session"`
	Seq      uint64    `json:"seq"`
	Input    string    `json:"input,omitempty"`
	Response string    `json:"response"`
	Time     time.Time `json:"time"`
}
