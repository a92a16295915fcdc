// Package audit records which headers were generated from which inputs.
//
// The audit trail is separate from technical logs and designed for:
//   - Reproducible-build evidence (input, template and output digests)
//   - Tamper evidence via cryptographic hash chaining
//
// Key principles:
//   - Audit failure = Operation failure
//   - All timestamps in UTC
//   - Hash chain for integrity verification
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// EventType represents the category of audit event.
type EventType string

const (
	// EventVectorsLoaded records a parsed test-vector document.
	EventVectorsLoaded EventType = "VECTORS_LOADED"

	// EventHeaderGenerated records a header write attempt.
	EventHeaderGenerated EventType = "HEADER_GENERATED"
)

// Result represents the outcome of an audited operation.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

// Actor represents who ran the generator.
type Actor struct {
	Type string `json:"type"`           // "user", "ci"
	ID   string `json:"id"`             // username or job identifier
	Host string `json:"host,omitempty"` // hostname where the run occurred
}

// Object represents the file acted upon.
type Object struct {
	Type   string `json:"type"`             // "vectors", "header"
	Path   string `json:"path,omitempty"`   // file path
	Digest string `json:"digest,omitempty"` // sha256 of the file contents
}

// Context provides additional details about the run.
type Context struct {
	RunID    string `json:"run_id,omitempty"`   // shared by the events of one run
	Family   string `json:"family,omitempty"`   // vector family name
	Input    string `json:"input,omitempty"`    // input document path
	Template string `json:"template,omitempty"` // template path or embedded name
	Records  int    `json:"records,omitempty"`  // number of test vectors
	Reason   string `json:"reason,omitempty"`   // failure reason
}

// Event represents a single audit log entry.
type Event struct {
	EventType EventType `json:"event_type"`
	Timestamp string    `json:"timestamp"` // RFC3339 UTC
	Actor     Actor     `json:"actor"`
	Object    Object    `json:"object"`
	Context   Context   `json:"context,omitempty"`
	Result    Result    `json:"result"`
	HashPrev  string    `json:"hash_prev"` // SHA-256 hash of previous event
	Hash      string    `json:"hash"`      // SHA-256 hash of this event
}

// NewEvent creates a new audit event with current timestamp and actor info.
// CI runs are attributed to the job when CI_JOB_ID is set.
func NewEvent(eventType EventType, result Result) *Event {
	hostname, _ := os.Hostname()

	actor := Actor{Type: "user", ID: os.Getenv("USER"), Host: hostname}
	if job := os.Getenv("CI_JOB_ID"); job != "" {
		actor.Type = "ci"
		actor.ID = job
	}
	if actor.ID == "" {
		actor.ID = os.Getenv("USERNAME") // Windows
	}
	if actor.ID == "" {
		actor.ID = "unknown"
	}

	return &Event{
		EventType: eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Actor:     actor,
		Result:    result,
	}
}

// WithObject sets the object field.
func (e *Event) WithObject(obj Object) *Event {
	e.Object = obj
	return e
}

// WithContext sets the context field.
func (e *Event) WithContext(ctx Context) *Event {
	e.Context = ctx
	return e
}

// Validate checks that required fields are present.
func (e *Event) Validate() error {
	if e.EventType == "" {
		return fmt.Errorf("event_type is required")
	}
	if e.Timestamp == "" {
		return fmt.Errorf("timestamp is required")
	}
	if e.Actor.Type == "" || e.Actor.ID == "" {
		return fmt.Errorf("actor type and id are required")
	}
	if e.Result == "" {
		return fmt.Errorf("result is required")
	}
	return nil
}

// CanonicalJSON returns the event without its Hash field, for hashing.
func (e *Event) CanonicalJSON() ([]byte, error) {
	type eventForHash struct {
		EventType EventType `json:"event_type"`
		Timestamp string    `json:"timestamp"`
		Actor     Actor     `json:"actor"`
		Object    Object    `json:"object"`
		Context   Context   `json:"context,omitempty"`
		Result    Result    `json:"result"`
		HashPrev  string    `json:"hash_prev"`
	}
	return json.Marshal(eventForHash{
		EventType: e.EventType,
		Timestamp: e.Timestamp,
		Actor:     e.Actor,
		Object:    e.Object,
		Context:   e.Context,
		Result:    e.Result,
		HashPrev:  e.HashPrev,
	})
}

// JSON returns the full event as JSON.
func (e *Event) JSON() ([]byte, error) {
	return json.Marshal(e)
}
