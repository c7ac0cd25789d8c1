package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domain "github.com/gmalickovski/vibraweb/internal/domain"
)

const (
	defaultRemoteTimeout = 5 * time.Second
	maxRemoteBodyBytes   = 1 << 20
)

// RemoteOption customises a RemoteSource.
type RemoteOption func(*RemoteSource)

// WithHTTPClient overrides the HTTP client used for CMS requests.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(s *RemoteSource) {
		if client != nil {
			s.http = client
		}
	}
}

// WithAuthToken sets the bearer token sent with every request.
func WithAuthToken(token string) RemoteOption {
	return func(s *RemoteSource) {
		s.token = strings.TrimSpace(token)
	}
}

// RemoteSource queries a headless CMS for narratives.
type RemoteSource struct {
	baseURL  string
	token    string
	http     *http.Client
	renderer *renderer
}

var _ Source = (*RemoteSource)(nil)

type remoteBlock struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

type remotePayload struct {
	Blocks []remoteBlock `json:"blocks"`
}

// NewRemoteSource constructs a CMS-backed source rooted at baseURL.
func NewRemoteSource(baseURL string, opts ...RemoteOption) (*RemoteSource, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("narrative: remote base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("narrative: invalid base url: %w", err)
	}
	s := &RemoteSource{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: defaultRemoteTimeout},
		renderer: newRenderer(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Lookup asks the CMS for the narrative. A 404 or an entry without paragraphs is ErrNotFound;
// transport and status failures are returned as plain errors.
func (s *RemoteSource) Lookup(ctx context.Context, label string, value int) ([]domain.NarrativeBlock, error) {
	query := url.Values{}
	query.Set("titulo", label)
	query.Set("numero", strconv.Itoa(value))

	resp, err := s.get(ctx, s.baseURL+"/narratives?"+query.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, fmt.Errorf("narrative: cms status %d", resp.StatusCode)
	}

	var payload remotePayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxRemoteBodyBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("narrative: decode cms payload: %w", err)
	}

	blocks := make([]domain.NarrativeBlock, 0, len(payload.Blocks))
	for i, block := range payload.Blocks {
		if block.Type != "" && block.Type != "paragraph" {
			continue
		}
		text := strings.TrimSpace(block.Text)
		if text == "" {
			continue
		}
		html, err := s.renderer.render(text)
		if err != nil {
			return nil, err
		}
		id := strings.TrimSpace(block.ID)
		if id == "" {
			id = fmt.Sprintf("%s-%d-%d", Slug(label), value, i+1)
		}
		blocks = append(blocks, domain.NarrativeBlock{ID: id, Text: text, HTML: html})
	}
	if len(blocks) == 0 {
		return nil, ErrNotFound
	}
	return blocks, nil
}

// Ping checks the CMS health endpoint.
func (s *RemoteSource) Ping(ctx context.Context) error {
	resp, err := s.get(ctx, s.baseURL+"/healthz")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxRemoteBodyBytes))
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("narrative: cms health status %d", resp.StatusCode)
	}
	return nil
}

func (s *RemoteSource) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("narrative: cms request: %w", err)
	}
	return resp, nil
}
