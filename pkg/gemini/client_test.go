package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New("test-key", "test-model", time.Second)
	c.baseURL = srv.URL
	return c
}

func TestCleanImage(t *testing.T) {
	t.Parallel()

	cleaned := []byte("cleaned-png-bytes")
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "greenbar")
		require.NotNil(t, req.Contents[0].Parts[1].InlineData)
		assert.Equal(t, "image/png", req.Contents[0].Parts[1].InlineData.MimeType)

		resp := generateResponse{}
		resp.Candidates = append(resp.Candidates, struct {
			Content content `json:"content"`
		}{Content: content{Parts: []part{
			{Text: "here is your image"},
			{InlineData: &inlineData{
				MimeType: "image/png",
				Data:     base64.StdEncoding.EncodeToString(cleaned),
			}},
		}}})
		_ = json.NewEncoder(w).Encode(resp)
	})

	got, err := c.CleanImage(context.Background(), []byte("raw"))
	require.NoError(t, err)
	assert.Equal(t, cleaned, got)
}

func TestCleanImageNoImageInResponse(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		resp := generateResponse{}
		resp.Candidates = append(resp.Candidates, struct {
			Content content `json:"content"`
		}{Content: content{Parts: []part{{Text: "cannot comply"}}}})
		_ = json.NewEncoder(w).Encode(resp)
	})

	_, err := c.CleanImage(context.Background(), []byte("raw"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "no image in response")
}

func TestCleanImageAPIError(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := c.CleanImage(context.Background(), []byte("raw"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "429")
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	c := New("k", "", 0)
	assert.Equal(t, defaultModel, c.model)
	assert.Equal(t, 120*time.Second, c.client.Timeout)
}
