package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
)

func TestExtractReceipt(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req["image_base64"])
		assert.Equal(t, "image/jpeg", req["content_type"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"summary_fields": map[string]any{
				"vendor_name": map[string]any{"value": "ACME MARKET", "confidence": 0.97},
			},
			"line_items": []any{
				map[string]any{"item": map[string]any{"value": "MILK", "confidence": 0.9}},
			},
			"raw_text": "ACME MARKET\nMILK 3.99",
		})
	}))
	defer srv.Close()

	e := NewHTTPExtractor(srv.URL, "secret", 5*time.Second, nil)
	raw, err := e.ExtractReceipt(context.Background(), []byte("fake image"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "/v1/expense", gotPath)

	// Keys come back normalized to the canonical uppercase vocabulary.
	assert.Equal(t, "ACME MARKET", raw.SummaryFields["VENDOR_NAME"].Value)
	require.Len(t, raw.LineItems, 1)
	assert.Equal(t, "MILK", raw.LineItems[0]["ITEM"].Value)
	assert.Equal(t, "ACME MARKET\nMILK 3.99", raw.RawText)
}

func TestExtractReceiptNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := NewHTTPExtractor(srv.URL, "", 5*time.Second, nil)
	_, err := e.ExtractReceipt(context.Background(), []byte("x"), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestNormalizeKeys(t *testing.T) {
	raw := entity.RawExtraction{
		SummaryFields: map[string]entity.FieldValue{
			" total ": {Value: "7.01"},
		},
		LineItems: []map[string]entity.FieldValue{
			{"price": {Value: "3.99"}},
		},
		RawText: "text",
	}

	out := NormalizeKeys(raw)
	assert.Equal(t, "7.01", out.SummaryFields["TOTAL"].Value)
	assert.Equal(t, "3.99", out.LineItems[0]["PRICE"].Value)
	assert.Equal(t, "text", out.RawText)

	// input untouched
	_, stillThere := raw.SummaryFields[" total "]
	assert.True(t, stillThere)
}

func TestTextConfidence(t *testing.T) {
	assert.InDelta(t, 0.2, TextConfidence("hello"), 0.001)
	assert.InDelta(t, 0.7, TextConfidence("ACME MARKET 01/15/2024 $7.01"), 0.001)
	assert.Less(t, TextConfidence(""), TextConfidence("TOTAL $7.01 on 01/15/2024"))
}
