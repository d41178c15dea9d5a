package quotes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/genai"
)

var testRetailers = domain.RetailerCatalog{
	{ID: "tesco", Name: "Tesco"},
	{ID: "asda", Name: "ASDA"},
	{ID: "aldi", Name: "Aldi"},
}

var testProduct = domain.Product{
	Barcode: "5000112637922",
	Name:    "Baked Beans",
	Brand:   "Heinz",
	Size:    "400g",
}

func newTestServer(t *testing.T, handler func(prompt string) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)

		payload := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": handler(req.Contents[0].Parts[0].Text)}},
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

func TestGetQuotes_SingleBatchedCall(t *testing.T) {
	calls := 0
	server := newTestServer(t, func(prompt string) string {
		calls++
		// The single prompt must cover the full retailer set
		assert.Contains(t, prompt, "id: tesco")
		assert.Contains(t, prompt, "id: asda")
		assert.Contains(t, prompt, "id: aldi")
		assert.Contains(t, prompt, "Baked Beans")
		assert.Contains(t, prompt, "400g")
		return `{
			"tesco": {"price": 1.40, "available": true, "url": "https://tesco.example/beans", "matchedSize": "400g pack"},
			"asda":  {"price": null, "available": true, "matchedSize": "400g"},
			"aldi":  {"price": 1.09, "available": false}
		}`
	})
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.GetQuotes(context.Background(), testProduct, testRetailers)

	require.NoError(t, err)
	assert.Equal(t, 1, calls, "quote fetch must be one batched call")
	require.Len(t, result, 3)

	tesco := result["tesco"]
	require.NotNil(t, tesco.Price)
	assert.True(t, tesco.Price.Equal(decimal.NewFromFloat(1.40)))
	assert.True(t, tesco.Available)
	assert.Equal(t, "400g pack", tesco.MatchedSize)

	asda := result["asda"]
	assert.Nil(t, asda.Price, "null price must stay nil")
	assert.True(t, asda.Available)

	assert.False(t, result["aldi"].Available)
}

func TestGetQuotes_DropsUnknownRetailers(t *testing.T) {
	server := newTestServer(t, func(prompt string) string {
		return `{
			"tesco":   {"price": 1.40, "available": true},
			"walmart": {"price": 0.99, "available": true}
		}`
	})
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.GetQuotes(context.Background(), testProduct, testRetailers)

	require.NoError(t, err)
	assert.Contains(t, result, "tesco")
	assert.NotContains(t, result, "walmart")
}

func TestGetQuotes_MalformedResponse(t *testing.T) {
	server := newTestServer(t, func(prompt string) string {
		return `["not", "an", "object"]`
	})
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetQuotes(context.Background(), testProduct, testRetailers)

	assert.ErrorIs(t, err, domain.ErrLookupFailed)
}

func TestGetQuotes_EmptyCatalog(t *testing.T) {
	client := newTestClient("http://localhost:0")
	result, err := client.GetQuotes(context.Background(), testProduct, nil)

	require.NoError(t, err)
	assert.Empty(t, result)
}
