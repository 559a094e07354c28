package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/vignette-engine/pkg/session"
)

type stepRequest struct {
	DT float64 `json:"dt"`
	session.Input
}

// CreateSession starts a session on the given level (empty for the default level)
func CreateSession(ctx context.Context, client *http.Client, baseURL, level string) (*session.Snapshot, error) {
	var snap session.Snapshot
	body := map[string]string{}
	if level != "" {
		body["level"] = level
	}
	if err := doJSON(ctx, client, http.MethodPost, baseURL+"/v1/sessions", body, http.StatusCreated, &snap); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &snap, nil
}

// PostCommand queues a command for the session's next step
func PostCommand(ctx context.Context, client *http.Client, baseURL string, sessionID uuid.UUID, command string) error {
	url := fmt.Sprintf("%s/v1/sessions/%s/commands", baseURL, sessionID)
	if err := doJSON(ctx, client, http.MethodPost, url, map[string]string{"command": command}, http.StatusAccepted, nil); err != nil {
		return fmt.Errorf("queue command %q: %w", command, err)
	}
	return nil
}

// PostStep advances the session by dt seconds
func PostStep(ctx context.Context, client *http.Client, baseURL string, sessionID uuid.UUID, dt float64, in session.Input) (*session.StepResult, error) {
	var res session.StepResult
	url := fmt.Sprintf("%s/v1/sessions/%s/step", baseURL, sessionID)
	if err := doJSON(ctx, client, http.MethodPost, url, stepRequest{DT: dt, Input: in}, http.StatusOK, &res); err != nil {
		return nil, fmt.Errorf("step: %w", err)
	}
	return &res, nil
}

// GetSession retrieves the current snapshot
func GetSession(ctx context.Context, client *http.Client, baseURL string, sessionID uuid.UUID) (*session.Snapshot, error) {
	var snap session.Snapshot
	url := fmt.Sprintf("%s/v1/sessions/%s", baseURL, sessionID)
	if err := doJSON(ctx, client, http.MethodGet, url, nil, http.StatusOK, &snap); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &snap, nil
}

// DeleteSession removes the session and its queued commands
func DeleteSession(ctx context.Context, client *http.Client, baseURL string, sessionID uuid.UUID) error {
	url := fmt.Sprintf("%s/v1/sessions/%s", baseURL, sessionID)
	if err := doJSON(ctx, client, http.MethodDelete, url, nil, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func doJSON(ctx context.Context, client *http.Client, method, url string, in interface{}, wantStatus int, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s returned %d (expected %d): %s", method, url, resp.StatusCode, wantStatus, string(data))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
