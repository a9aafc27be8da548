package ark

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/schema"
)

const (
	defaultBaseURL     = "https://ark.cn-beijing.volces.com/api/v3"
	responsesPath      = "/responses"
	defaultTemperature = 0.3
	maxErrorDetail     = 150
)

// promptInstruction frames the combined template+work-content prompt so the
// model emits only the finished report.
const promptInstruction = `You are a professional workplace report assistant. Follow these rules strictly:
1. Output only the final report, with no extra explanations, notes or prompts;
2. Preserve the full structure and formatting of the report template (headings, levels, punctuation);
3. Merge the provided work content into the matching template sections without losing any key information;
4. Keep the language concise, formal and logically clear;
5. Streamed output must be continuous, without repetition, with natural transitions between paragraphs.`

// AuthenticationError indicates a missing or rejected credential.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return "ark: authentication failed: " + e.Reason
}

// RequestError indicates the streaming request could not be established.
type RequestError struct {
	Status int
	Detail string
	Err    error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ark: request failed: %v", e.Err)
	}
	return fmt.Sprintf("ark: request failed with status %d: %s", e.Status, e.Detail)
}

func (e *RequestError) Unwrap() error { return e.Err }

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// Client issues streaming requests against the Ark responses API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewClient(apiKey, model string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, &AuthenticationError{Reason: "API key is not configured"}
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("ark: model name is required")
	}

	c := &Client{
		// No overall timeout: a streaming response stays open until
		// exhaustion, cancellation or a transport error.
		httpClient: &http.Client{Timeout: 0},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      model,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Model() string { return c.model }

type thinkingConfig struct {
	Type string `json:"type"`
}

type responsesRequest struct {
	Model       string          `json:"model"`
	Input       string          `json:"input"`
	Temperature float64         `json:"temperature"`
	Stream      bool            `json:"stream"`
	Thinking    *thinkingConfig `json:"thinking,omitempty"`
}

// streamChunk carries both wire shapes the service is known to emit: a flat
// text field, or a nested output->content->text structure. The union is
// resolved once here, never re-inspected by callers.
type streamChunk struct {
	Text   string       `json:"text"`
	Output []outputItem `json:"output"`
}

type outputItem struct {
	Content []contentItem `json:"content"`
}

type contentItem struct {
	Text string `json:"text"`
}

// delta normalizes a chunk to a single text delta. An unrecognized or empty
// shape yields "", which is not an error.
func (c *streamChunk) delta() string {
	if t := strings.TrimSpace(c.Text); t != "" {
		return t
	}
	for _, out := range c.Output {
		for _, content := range out.Content {
			if t := strings.TrimSpace(content.Text); t != "" {
				return t
			}
		}
	}
	return ""
}

func buildPrompt(templateContent, workContent string) string {
	return fmt.Sprintf("%s\n\nMy report template:\n%s\n\nMy work content for today:\n%s\n\nOutput the final report directly, nothing else.",
		promptInstruction, strings.TrimSpace(templateContent), strings.TrimSpace(workContent))
}

// StreamReport opens one streaming completion for the combined prompt and
// returns a lazy reader of text deltas. The reader ends with io.EOF on
// exhaustion; transport errors encountered mid-stream are delivered through
// it. Closing the reader abandons the underlying response body without
// draining it. A reader is not restartable.
func (c *Client) StreamReport(ctx context.Context, templateContent, workContent string) (*schema.StreamReader[string], error) {
	body, err := json.Marshal(responsesRequest{
		Model:       c.model,
		Input:       buildPrompt(templateContent, workContent),
		Temperature: defaultTemperature,
		Stream:      true,
		Thinking:    &thinkingConfig{Type: "disabled"},
	})
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+responsesPath, bytes.NewReader(body))
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		detail := readErrorDetail(resp.Body)
		resp.Body.Close()
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, &AuthenticationError{Reason: fmt.Sprintf("service rejected the API key (status %d): %s", resp.StatusCode, detail)}
		}
		return nil, &RequestError{Status: resp.StatusCode, Detail: detail}
	}

	sr, sw := schema.Pipe[string](8)
	go readStream(resp.Body, sw)
	return sr, nil
}

// readStream decodes SSE data lines into deltas until the body ends, the
// service signals [DONE], or the reader side closes.
func readStream(body io.ReadCloser, sw *schema.StreamWriter[string]) {
	defer sw.Close()
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ":") || !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			return
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// Skip undecodable chunks; they carry no usable delta.
			continue
		}
		delta := chunk.delta()
		if delta == "" {
			continue
		}
		if closed := sw.Send(delta, nil); closed {
			// Reader gave up; stop reading instead of draining.
			return
		}
	}
	if err := scanner.Err(); err != nil {
		sw.Send("", fmt.Errorf("reading model stream: %w", err))
	}
}

func readErrorDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4*1024))
	if err != nil {
		return ""
	}
	detail := strings.TrimSpace(string(data))
	if len(detail) > maxErrorDetail {
		detail = detail[:maxErrorDetail] + "..."
	}
	return detail
}
