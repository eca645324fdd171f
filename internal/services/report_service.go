package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"orgadmin/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ReportService interface {
	ExportConsolidatedCSV(ctx context.Context, user *models.User, requestedTenantIDs []uuid.UUID) (string, error)
}

type reportService struct {
	stocks  StockService
	storage StorageService
	bucket  string
}

func NewReportService(stocks StockService, storage StorageService, bucket string) ReportService {
	return &reportService{stocks: stocks, storage: storage, bucket: bucket}
}

// ExportConsolidatedCSV runs the consolidation, writes it as CSV to object
// storage, and returns a presigned download URL valid for one hour.
func (s *reportService) ExportConsolidatedCSV(ctx context.Context, user *models.User, requestedTenantIDs []uuid.UUID) (string, error) {
	result, err := s.stocks.Consolidated(ctx, user, requestedTenantIDs)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"product", "sku", "tenant", "quantity", "total_quantity"}); err != nil {
		return "", err
	}
	for _, group := range result.Groups {
		for _, tq := range group.ByTenant {
			record := []string{
				group.Product.Name,
				group.Product.SKU,
				tq.TenantName,
				strconv.Itoa(tq.Quantity),
				strconv.Itoa(group.TotalQuantity),
			}
			if err := w.Write(record); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("consolidated/%s/%s.csv", user.ID, time.Now().UTC().Format("20060102-150405"))
	if err := s.storage.Upload(ctx, s.bucket, objectName, "text/csv", &buf, int64(buf.Len())); err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}

	url, err := s.storage.PresignedURL(ctx, s.bucket, objectName, time.Hour)
	if err != nil {
		return "", err
	}
	log.Info().Str("object", objectName).Int("groups", len(result.Groups)).Msg("consolidated report exported")
	return url, nil
}
