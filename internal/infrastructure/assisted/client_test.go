package assisted

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/genai"
)

func newTestServer(t *testing.T, answerJSON string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": answerJSON}},
				}},
			},
		}
		json.NewEncoder(w).Encode(payload)
	}))
}

func newTestClient(serverURL string) *Client {
	gen := genai.NewClient(serverURL, "test-key", "gemini-2.0-flash", zerolog.Nop())
	return NewClient(gen, zerolog.Nop())
}

func TestLookup_Success(t *testing.T) {
	server := newTestServer(t, `{
		"productName": "Baked Beans In Tomato Sauce",
		"brand": "Heinz",
		"size": "400g",
		"category": "canned-foods"
	}`)
	defer server.Close()

	client := newTestClient(server.URL)
	answer, err := client.Lookup(context.Background(), "5000112637922")

	require.NoError(t, err)
	assert.True(t, answer.OK())
	assert.Equal(t, "Baked Beans In Tomato Sauce", answer.ProductName)
	assert.Equal(t, "Heinz", answer.Brand)
	assert.Equal(t, "400g", answer.Size)
	assert.Equal(t, "canned-foods", answer.Category)
}

func TestLookup_ErrorField(t *testing.T) {
	server := newTestServer(t, `{"error": "not found"}`)
	defer server.Close()

	client := newTestClient(server.URL)
	answer, err := client.Lookup(context.Background(), "0000000000000")

	require.NoError(t, err)
	assert.False(t, answer.OK())
	assert.Equal(t, "not found", answer.Error)
}

func TestLookup_EmptyNameIsNotOK(t *testing.T) {
	server := newTestServer(t, `{"productName": "", "brand": "Heinz"}`)
	defer server.Close()

	client := newTestClient(server.URL)
	answer, err := client.Lookup(context.Background(), "5000112637922")

	require.NoError(t, err)
	assert.False(t, answer.OK())
}

func TestLookup_MalformedResponse(t *testing.T) {
	server := newTestServer(t, `this is not json`)
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Lookup(context.Background(), "5000112637922")

	assert.ErrorIs(t, err, domain.ErrLookupFailed)
}

func TestLookup_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream unavailable")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Lookup(context.Background(), "5000112637922")

	assert.ErrorIs(t, err, domain.ErrLookupFailed)
}

func TestLookup_EmptyBarcode(t *testing.T) {
	client := newTestClient("http://localhost:0")
	_, err := client.Lookup(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
