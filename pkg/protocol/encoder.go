package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
)

// Document is the wire shape of a Response.
// All three keys are always present so the same outcome always encodes to the same bytes.
type Document struct {
	BranchID *uint64  `json:"branchId"`
	Goals    []string `json:"goals"`
	Errors   []string `json:"errors"`
}

// FromResponse maps a Response to its wire document.
func FromResponse(r domain.Response) Document {
	doc := Document{
		Goals:  nonNil(r.Goals),
		Errors: nonNil(r.Errors),
	}
	if r.Branch != nil {
		id := uint64(*r.Branch)
		doc.BranchID = &id
	}
	return doc
}

// Response maps a wire document back to a Response.
func (d Document) Response() domain.Response {
	r := domain.Response{}
	if d.BranchID != nil {
		id := domain.BranchID(*d.BranchID)
		r.Branch = &id
	}
	if len(d.Goals) > 0 {
		r.Goals = d.Goals
	}
	if len(d.Errors) > 0 {
		r.Errors = d.Errors
	}
	return r
}

// Marshal encodes a Response as a single JSON line, without the trailing newline.
// HTML escaping is disabled so goal text is emitted as written.
func Marshal(r domain.Response) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(FromResponse(r)); err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal decodes a JSON document produced by Marshal.
func Unmarshal(data []byte) (domain.Response, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Response{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return doc.Response(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
