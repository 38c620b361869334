package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Receipt is what a submitter learned about a dispatched request
type Receipt struct {
	Confirmed bool
	Message   string
}

// Submitter sends a JSON-encoded record to the intake endpoint
type Submitter interface {
	Submit(ctx context.Context, endpoint string, body []byte) (Receipt, error)
}

// OpaqueSubmitter posts the record and never looks at the reply, the same
// contract as a browser no-cors request. A nil error only means the request
// was dispatched without a transport fault; server-side rejections are
// indistinguishable from success.
type OpaqueSubmitter struct {
	Client *http.Client
}

func (s OpaqueSubmitter) Submit(ctx context.Context, endpoint string, body []byte) (Receipt, error) {
	resp, err := post(ctx, s.Client, endpoint, body)
	if err != nil {
		return Receipt{}, err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return Receipt{Confirmed: false}, nil
}

// RejectedError is returned by ConfirmingSubmitter when the server answered
// but did not accept the record
type RejectedError struct {
	Status int
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("submission rejected (%d): %s", e.Status, e.Reason)
}

// ConfirmingSubmitter reads the intake envelope and reports server-side
// rejections as errors. Use it where the response is readable (same origin,
// CLI, server to server).
type ConfirmingSubmitter struct {
	Client *http.Client
}

func (s ConfirmingSubmitter) Submit(ctx context.Context, endpoint string, body []byte) (Receipt, error) {
	resp, err := post(ctx, s.Client, endpoint, body)
	if err != nil {
		return Receipt{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Receipt{}, fmt.Errorf("error reading response: %w", err)
	}

	var env struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return Receipt{}, &RejectedError{Status: resp.StatusCode, Reason: "unreadable response: " + string(raw)}
	}
	if resp.StatusCode/100 != 2 || !env.Success {
		return Receipt{}, &RejectedError{Status: resp.StatusCode, Reason: env.Error}
	}
	return Receipt{Confirmed: true, Message: env.Message}, nil
}

func post(ctx context.Context, client *http.Client, endpoint string, body []byte) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	// A browser sends a string body as text/plain; the intake side reads the raw body either way
	req.Header.Set("Content-Type", "text/plain;charset=UTF-8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error posting form: %w", err)
	}
	return resp, nil
}
