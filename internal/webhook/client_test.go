package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katoonagu/Aichatinterfacedesign/internal/logging"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, logging.New(nil, "silent"))
}

func TestGenerate_Success(t *testing.T) {
	var gotBody generateRequest
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"output": "ТМГ — это..."})
	})

	answer, err := c.Generate(context.Background(), "Что такое ТМГ?", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "ТМГ — это...", answer)

	assert.Equal(t, "Что такое ТМГ?", gotBody.Prompt)
	assert.Equal(t, "sess-1", gotBody.SessionID)
	_, err = time.Parse(time.RFC3339, gotBody.Timestamp)
	assert.NoError(t, err, "timestamp should be RFC3339")
}

func TestGenerate_ServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow not active", http.StatusInternalServerError)
	})

	_, err := c.Generate(context.Background(), "prompt", "sess-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestGenerate_NonJSONBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := c.Generate(context.Background(), "prompt", "sess-1")
	assert.Error(t, err)
}

func TestGenerate_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before use: connection refused

	c := NewClient(srv.URL, time.Second, logging.New(nil, "silent"))
	_, err := c.Generate(context.Background(), "prompt", "sess-1")
	assert.Error(t, err)
}

func TestGenerate_Timeout(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	c.client.Timeout = 20 * time.Millisecond

	_, err := c.Generate(context.Background(), "prompt", "sess-1")
	assert.Error(t, err)
}

func TestExtractAnswer_FieldOrder(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"output", `{"output":"from output","text":"from text"}`, "from output"},
		{"text", `{"text":"from text","response":"from response"}`, "from text"},
		{"response", `{"response":"from response"}`, "from response"},
		{"answer", `{"answer":"from answer"}`, "from answer"},
		{"content", `{"content":"from content"}`, "from content"},
		{"skips empty", `{"output":"","text":"from text"}`, "from text"},
		{"skips non-string", `{"output":42,"text":"from text"}`, "from text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractAnswer([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerate_ArrayBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"output":"ТМГ — это..."}]`))
	})

	answer, err := c.Generate(context.Background(), "Что такое ТМГ?", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "ТМГ — это...", answer)
}

func TestExtractAnswer_ArrayBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"first element field", `[{"output":"из массива"}]`, "из массива"},
		{"first element dominates", `[{"text":"первый"},{"text":"второй"}]`, "первый"},
		{"no candidate fields", `[{"data":1}]`, `[{"data":1}]`},
		{"empty array", `[]`, `[]`},
		{"scalar elements", `[1,2]`, `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractAnswer([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractAnswer_ScalarBody(t *testing.T) {
	got, err := ExtractAnswer([]byte(`"просто строка"`))
	require.NoError(t, err)
	assert.Equal(t, "просто строка", got)

	got, err = ExtractAnswer([]byte(`42`))
	require.NoError(t, err)
	assert.Equal(t, "42", got)
}

func TestExtractAnswer_FallbackDump(t *testing.T) {
	got, err := ExtractAnswer([]byte(`{"data":{"nested":true}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"nested":true}}`, got)
	assert.NotEmpty(t, got, "fallback must always yield visible content")
}

func TestExtractAnswer_Invalid(t *testing.T) {
	_, err := ExtractAnswer([]byte("not json"))
	assert.Error(t, err)
}

func TestNewClient_ZeroTimeoutUsesDefault(t *testing.T) {
	c := NewClient("http://example.com", 0, logging.New(nil, "silent"))
	assert.Equal(t, DefaultTimeout, c.client.Timeout)
}
