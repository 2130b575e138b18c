package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/receipt-extractor/constants"
	"github.com/joseph-ayodele/receipt-extractor/internal/common"
	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
	"github.com/joseph-ayodele/receipt-extractor/internal/export"
	"github.com/joseph-ayodele/receipt-extractor/internal/extract"
	"github.com/joseph-ayodele/receipt-extractor/internal/pipeline"
	"github.com/joseph-ayodele/receipt-extractor/internal/repository"
)

var contentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"pdf":  "application/pdf",
}

// ReceiptHandler wires the upload/list/export endpoints to the
// extractor, the parsing pipeline and the stores.
type ReceiptHandler struct {
	extractor extract.Extractor
	pipeline  *pipeline.Pipeline
	receipts  repository.ReceiptRepository
	artifacts *repository.ArtifactCache
	exporter  *export.Service
	logger    *slog.Logger
}

func NewReceiptHandler(
	extractor extract.Extractor,
	pl *pipeline.Pipeline,
	receipts repository.ReceiptRepository,
	artifacts *repository.ArtifactCache,
	exporter *export.Service,
	logger *slog.Logger,
) *ReceiptHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReceiptHandler{
		extractor: extractor,
		pipeline:  pl,
		receipts:  receipts,
		artifacts: artifacts,
		exporter:  exporter,
		logger:    logger,
	}
}

// Create handles POST /v1/receipts: a multipart image upload that runs
// OCR extraction, parses the result and persists the record.
func (h *ReceiptHandler) Create(c *gin.Context) {
	start := time.Now()

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	defer file.Close()

	ext := constants.NormalizeExt(filepath.Ext(header.Filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported file type %q", ext)})
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}

	raw, err := h.extractor.ExtractReceipt(c.Request.Context(), image, contentTypes[ext])
	if err != nil {
		h.logger.Error("receipt.create.extract_failed", "filename", header.Filename, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not process receipt"})
		return
	}

	parsed, err := h.pipeline.Process(c.Request.Context(), raw)
	if err != nil {
		h.logger.Error("receipt.create.parse_failed", "filename", header.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process receipt"})
		return
	}

	receipt := &entity.Receipt{
		ID:            uuid.New(),
		ParsedReceipt: parsed,
		CreatedAt:     time.Now().UTC(),
	}
	if err := h.receipts.Save(c.Request.Context(), receipt); err != nil {
		h.logger.Error("receipt.create.save_failed", "receipt_id", receipt.ID.String(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process receipt"})
		return
	}
	if h.artifacts != nil {
		if err := h.artifacts.Put(receipt.ID, raw); err != nil {
			// The record is already saved; losing the raw artifact is
			// not fatal to the request.
			h.logger.Warn("receipt.create.artifact_failed", "receipt_id", receipt.ID.String(), "error", err)
		}
	}

	h.logger.Info("receipt.create.ok",
		"receipt_id", receipt.ID.String(),
		"merchant", receipt.Merchant,
		"total", receipt.Total,
		"confidence", receipt.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	c.JSON(http.StatusCreated, receipt)
}

// Get handles GET /v1/receipts/:id.
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid receipt id"})
		return
	}

	receipt, err := h.receipts.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "receipt not found"})
			return
		}
		h.logger.Error("receipt.get.failed", "receipt_id", id.String(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load receipt"})
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// List handles GET /v1/receipts with optional category/from/to/limit
// query parameters.
func (h *ReceiptHandler) List(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receipts, err := h.receipts.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("receipt.list.failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list receipts"})
		return
	}
	if receipts == nil {
		receipts = []*entity.Receipt{}
	}
	c.JSON(http.StatusOK, gin.H{"receipts": receipts, "count": len(receipts)})
}

// Export handles GET /v1/receipts/export and streams an XLSX workbook.
func (h *ReceiptHandler) Export(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := h.exporter.ExportReceiptsXLSX(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("receipt.export.failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not export receipts"})
		return
	}

	filename := fmt.Sprintf("receipts-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
}

// Categories handles GET /v1/categories.
func (h *ReceiptHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": constants.AsStringSlice()})
}

func filterFromQuery(c *gin.Context) (repository.ListFilter, error) {
	filter := repository.ListFilter{}
	if v := c.Query("category"); v != "" {
		// Synonyms ("grocery", "fuel") resolve to the canonical taxonomy
		// name; unrecognized values pass through verbatim.
		if cat, ok := constants.Canonicalize(v); ok {
			filter.Category = string(cat)
		} else {
			filter.Category = v
		}
	}
	for _, q := range []struct {
		name string
		dst  *string
	}{
		{"from", &filter.FromDate},
		{"to", &filter.ToDate},
	} {
		v := c.Query(q.name)
		if v == "" {
			continue
		}
		if _, err := time.Parse(constants.DateLayout, v); err != nil {
			return repository.ListFilter{}, fmt.Errorf("invalid %s date %q, want YYYY-MM-DD", q.name, v)
		}
		*q.dst = v
	}
	if v := c.Query("limit"); v != "" {
		var limit int
		if _, err := fmt.Sscanf(v, "%d", &limit); err != nil || limit < 0 {
			return repository.ListFilter{}, fmt.Errorf("invalid limit %q", v)
		}
		filter.Limit = limit
	}
	return filter, nil
}
