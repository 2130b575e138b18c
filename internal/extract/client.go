package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/receipt-extractor/internal/common"
	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
)

// HTTPExtractor speaks to an expense-extraction HTTP service: it posts
// image bytes and decodes the service's summary-field/line-item payload
// into a RawExtraction with normalized keys.
type HTTPExtractor struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *slog.Logger
}

func NewHTTPExtractor(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *HTTPExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPExtractor{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		log:     logger,
	}
}

type extractRequest struct {
	ImageBase64 string `json:"image_base64"`
	ContentType string `json:"content_type"`
}

type extractResponse struct {
	SummaryFields map[string]entity.FieldValue   `json:"summary_fields"`
	LineItems     []map[string]entity.FieldValue `json:"line_items"`
	RawText       string                         `json:"raw_text"`
}

func (e *HTTPExtractor) ExtractReceipt(ctx context.Context, image []byte, contentType string) (entity.RawExtraction, error) {
	reqID := uuid.New().String()
	start := time.Now()

	body := extractRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(image),
		ContentType: contentType,
	}
	bs, err := json.Marshal(body)
	if err != nil {
		return entity.RawExtraction{}, fmt.Errorf("encode extract request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/expense", bytes.NewReader(bs))
	if err != nil {
		return entity.RawExtraction{}, fmt.Errorf("build extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	e.log.Info("extract.request", "req_id", reqID, "image_bytes", len(image), "content_type", contentType)

	resp, err := e.client.Do(req)
	if err != nil {
		e.log.Error("extract.send_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return entity.RawExtraction{}, fmt.Errorf("%w: expense extraction call: %v", common.ErrCollaborator, err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			e.log.Warn("extract.response_body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	e.log.Info("extract.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return entity.RawExtraction{}, fmt.Errorf("%w: expense extraction status %d: %s", common.ErrCollaborator, resp.StatusCode, string(raw))
	}

	var out extractResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return entity.RawExtraction{}, fmt.Errorf("decode extract response: %w", err)
	}

	e.log.Info("extract.ok",
		"req_id", reqID,
		"summary_fields", len(out.SummaryFields),
		"line_items", len(out.LineItems),
		"text_confidence", TextConfidence(out.RawText),
	)

	return NormalizeKeys(entity.RawExtraction{
		SummaryFields: out.SummaryFields,
		LineItems:     out.LineItems,
		RawText:       out.RawText,
	}), nil
}
