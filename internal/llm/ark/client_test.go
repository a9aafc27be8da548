package ark

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkDelta_FlatShape(t *testing.T) {
	var chunk streamChunk
	require.NoError(t, json.Unmarshal([]byte(`{"text":"  hello  "}`), &chunk))
	assert.Equal(t, "hello", chunk.delta())
}

func TestChunkDelta_NestedShape(t *testing.T) {
	var chunk streamChunk
	payload := `{"output":[{"content":[{"text":" nested delta "}]}]}`
	require.NoError(t, json.Unmarshal([]byte(payload), &chunk))
	assert.Equal(t, "nested delta", chunk.delta())
}

func TestChunkDelta_FlatShapeWins(t *testing.T) {
	var chunk streamChunk
	payload := `{"text":"flat","output":[{"content":[{"text":"nested"}]}]}`
	require.NoError(t, json.Unmarshal([]byte(payload), &chunk))
	assert.Equal(t, "flat", chunk.delta())
}

func TestChunkDelta_EmptyShapeYieldsNoDelta(t *testing.T) {
	for _, payload := range []string{
		`{}`,
		`{"text":"   "}`,
		`{"output":[]}`,
		`{"output":[{"content":[{"text":""}]}]}`,
		`{"unknown":"field"}`,
	} {
		var chunk streamChunk
		require.NoError(t, json.Unmarshal([]byte(payload), &chunk))
		assert.Empty(t, chunk.delta(), "payload %s", payload)
	}
}

func TestBuildPrompt_CombinesTemplateAndWorkContent(t *testing.T) {
	prompt := buildPrompt("  ## Daily\n{work_content}  ", "  fixed the login bug  ")
	assert.Contains(t, prompt, "## Daily\n{work_content}")
	assert.Contains(t, prompt, "fixed the login bug")
	assert.Contains(t, prompt, "My report template:")
	assert.Contains(t, prompt, "My work content for today:")
}

func TestNewClient_EmptyKey(t *testing.T) {
	_, err := NewClient("   ", "doubao-seed-1-6-lite-251015")
	var authErr *AuthenticationError
	assert.ErrorAs(t, err, &authErr)
}

func TestNewClient_EmptyModel(t *testing.T) {
	_, err := NewClient("key", "")
	assert.Error(t, err)
}

func TestStreamReport_StreamsBothShapes(t *testing.T) {
	var gotReq responsesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"text\":\"alpha \"}\n\n")
		io.WriteString(w, ": heartbeat comment\n")
		io.WriteString(w, "data: {\"output\":[{\"content\":[{\"text\":\"beta\"}]}]}\n\n")
		io.WriteString(w, "data: {\"unknown\":true}\n\n")
		io.WriteString(w, "data: not-json\n\n")
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	client, err := NewClient("test-key", "doubao-seed-1-6-lite-251015", WithBaseURL(srv.URL))
	require.NoError(t, err)

	stream, err := client.StreamReport(context.Background(), "template", "work")
	require.NoError(t, err)
	defer stream.Close()

	var deltas []string
	for {
		delta, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		require.NoError(t, recvErr)
		deltas = append(deltas, delta)
	}

	assert.Equal(t, []string{"alpha", "beta"}, deltas)
	assert.Equal(t, "doubao-seed-1-6-lite-251015", gotReq.Model)
	assert.Equal(t, defaultTemperature, gotReq.Temperature)
	assert.True(t, gotReq.Stream)
	require.NotNil(t, gotReq.Thinking)
	assert.Equal(t, "disabled", gotReq.Thinking.Type)
	assert.Contains(t, gotReq.Input, "template")
	assert.Contains(t, gotReq.Input, "work")
}

func TestStreamReport_RejectedKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewClient("bad-key", "doubao-seed-1-6-lite-251015", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = client.StreamReport(context.Background(), "template", "work")
	var authErr *AuthenticationError
	assert.ErrorAs(t, err, &authErr)
}

func TestStreamReport_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient("test-key", "doubao-seed-1-6-lite-251015", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = client.StreamReport(context.Background(), "template", "work")
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.Status)
	assert.Contains(t, reqErr.Detail, "upstream exploded")
}

func TestStreamReport_UnreachableHost(t *testing.T) {
	client, err := NewClient("test-key", "doubao-seed-1-6-lite-251015", WithBaseURL("http://127.0.0.1:1"))
	require.NoError(t, err)

	_, err = client.StreamReport(context.Background(), "template", "work")
	var reqErr *RequestError
	assert.ErrorAs(t, err, &reqErr)
}

func TestReadErrorDetail_Truncates(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	detail := readErrorDetail(bytes.NewReader(long))
	assert.Len(t, detail, maxErrorDetail+len("..."))
}
