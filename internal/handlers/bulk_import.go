package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backend/internal/logger"
	"backend/internal/middleware"
)

// Exports tend to come from different tools, so every column accepts a
// few header spellings.
var bulkColumnAliases = map[string][]string{
	"title":          {"title", "name"},
	"description":    {"description"},
	"price":          {"price"},
	"compareAtPrice": {"compareatprice", "compare_at_price"},
	"category":       {"category"},
	"images":         {"images", "image"},
	"slug":           {"slug"},
	"sku":            {"sku"},
	"stock":          {"stock", "inventory"},
	"tags":           {"tags"},
	"featured":       {"featured", "isfeatured"},
}

func bulkField(row map[string]string, field string) string {
	for _, alias := range bulkColumnAliases[field] {
		if v, ok := row[alias]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseBulkProducts turns a CSV payload into create requests. Rows that
// fail validation are reported, not fatal.
func parseBulkProducts(data []byte) ([]createProductRequest, []string) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, []string{fmt.Sprintf("csv parse error: %v", err)}
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var requests []createProductRequest
	var errs []string
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: %v", line, err))
			continue
		}

		row := map[string]string{}
		for i, value := range record {
			if i < len(columns) {
				row[columns[i]] = value
			}
		}

		title := bulkField(row, "title")
		price, priceErr := strconv.ParseFloat(bulkField(row, "price"), 64)
		if title == "" || priceErr != nil || price < 0 {
			errs = append(errs, fmt.Sprintf("row %d: missing title or invalid price", line))
			continue
		}

		compareAt, _ := strconv.ParseFloat(bulkField(row, "compareAtPrice"), 64)
		stock, _ := strconv.Atoi(bulkField(row, "stock"))
		featured := strings.EqualFold(bulkField(row, "featured"), "true")

		requests = append(requests, createProductRequest{
			Title:          title,
			Description:    bulkField(row, "description"),
			Price:          price,
			CompareAtPrice: compareAt,
			Category:       bulkField(row, "category"),
			Images:         splitList(bulkField(row, "images")),
			Slug:           bulkField(row, "slug"),
			SKU:            bulkField(row, "sku"),
			Stock:          stock,
			Tags:           splitList(bulkField(row, "tags")),
			IsFeatured:     featured,
		})
	}

	return requests, errs
}

func capErrors(errs []string, max int) []string {
	if len(errs) > max {
		return errs[:max]
	}
	return errs
}

// BulkImportProducts accepts a CSV file and creates a product plus
// inventory row per valid line. The response reports counts and the
// first ten row errors.
func BulkImportProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		file, _, err := c.Request.FormFile("file")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "no file uploaded")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "could not read file")
			return
		}

		requests, errs := parseBulkProducts(data)

		scope := middleware.Scope(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
		defer cancel()

		success := 0
		for _, req := range requests {
			if _, err := insertProduct(ctx, scope, req); err != nil {
				errs = append(errs, fmt.Sprintf("failed to create %q: %v", req.Title, err))
				continue
			}
			success++
		}

		logger.L().Info("bulk import finished",
			zap.Int("success", success),
			zap.Int("failed", len(errs)),
		)

		c.JSON(http.StatusOK, gin.H{
			"success": success,
			"failed":  len(errs),
			"errors":  capErrors(errs, 10),
		})
	}
}
