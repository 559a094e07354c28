package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Request is a player command waiting for the next step of a session.
type Request struct {
	RequestID string    `json:"request_id"`
	SessionID uuid.UUID `json:"session_id"`
	Command   string    `json:"command"`

	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewRequest stamps a command with a fresh request ID and the current time.
func NewRequest(sessionID uuid.UUID, command string) *Request {
	return &Request{
		RequestID:  uuid.New().String(),
		SessionID:  sessionID,
		Command:    command,
		EnqueuedAt: time.Now().UTC(),
	}
}

// MarshalJSON serializes the request to JSON for Redis storage
func (r *Request) MarshalJSON() ([]byte, error) {
	type Alias Request
	return json.Marshal(&struct {
		SessionID string `json:"session_id"`
		*Alias
	}{
		SessionID: r.SessionID.String(),
		Alias:     (*Alias)(r),
	})
}

// UnmarshalJSON deserializes the request from JSON in Redis
func (r *Request) UnmarshalJSON(data []byte) error {
	type Alias Request
	aux := &struct {
		SessionID string `json:"session_id"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	sessionID, err := uuid.Parse(aux.SessionID)
	if err != nil {
		return err
	}

	r.SessionID = sessionID
	return nil
}

// ToJSON converts the request to JSON bytes for Redis
func (r *Request) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON parses a request from JSON bytes
func FromJSON(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
