package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nexbid/auction-signup/internal/model"
)

// RegisterOutcome is what the external registration operation reports back
// on success.  The token, when present, feeds the authentication status
// tracker; this core never inspects failure payloads.
type RegisterOutcome struct {
	Token string
}

// Registrar is the external registration operation.  Implementations own
// retries, failure reporting and persistence; the assembler only hands the
// payload over once per attempt.
type Registrar interface {
	Register(ctx context.Context, p *model.SubmissionPayload) (RegisterOutcome, error)
}

// HTTPRegistrar POSTs the multipart payload to the auction backend's
// register endpoint.
type HTTPRegistrar struct {
	URL    string
	Client *http.Client
}

// NewHTTPRegistrar returns a registrar posting to url.
func NewHTTPRegistrar(url string) *HTTPRegistrar {
	return &HTTPRegistrar{URL: url, Client: &http.Client{Timeout: 15 * time.Second}}
}

// registerResp covers the token shapes auction backends commonly return:
// either a flat token or a nested access token object.
type registerResp struct {
	Token  string `json:"token"`
	Access struct {
		Token string `json:"token"`
	} `json:"access"`
}

// Register performs the HTTP call.  Any non-2xx status is an error; the
// response body is not interpreted beyond extracting a token.
func (r *HTTPRegistrar) Register(ctx context.Context, p *model.SubmissionPayload) (RegisterOutcome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(p.Body))
	if err != nil {
		return RegisterOutcome{}, fmt.Errorf("build register request: %w", err)
	}
	req.Header.Set("Content-Type", p.ContentType)

	resp, err := r.Client.Do(req)
	if err != nil {
		return RegisterOutcome{}, fmt.Errorf("register call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little for connection reuse; the failure payload itself
		// is the backend's to report.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return RegisterOutcome{}, fmt.Errorf("register call: unexpected status %d", resp.StatusCode)
	}

	var body registerResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		// A 2xx with an unreadable body still counts as dispatched; we
		// just cannot flip the authenticated signal without a token.
		return RegisterOutcome{}, nil
	}
	token := body.Token
	if token == "" {
		token = body.Access.Token
	}
	return RegisterOutcome{Token: token}, nil
}
