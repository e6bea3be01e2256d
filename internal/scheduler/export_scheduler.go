package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/customer-records-backend/internal/app/model"
	"github.com/ikkim/customer-records-backend/internal/export"
	"github.com/ikkim/customer-records-backend/internal/storage"
	"github.com/ikkim/customer-records-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

type customerLister interface {
	ListAllCustomers(filter model.CustomerFilter) ([]model.CustomerSummary, error)
}

// ExportScheduler uploads an XLSX snapshot of every customer on a cron schedule
type ExportScheduler struct {
	cron      *cron.Cron
	schedule  string
	prefix    string
	customers customerLister
	uploader  storage.Uploader
	now       func() time.Time
}

func NewExportScheduler(schedule, prefix string, customers customerLister, uploader storage.Uploader) *ExportScheduler {
	return &ExportScheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		schedule:  schedule,
		prefix:    prefix,
		customers: customers,
		uploader:  uploader,
		now:       time.Now,
	}
}

// Start registers the job and starts the cron loop
func (s *ExportScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if _, err := s.RunOnce(ctx); err != nil {
			logger.Error("Scheduled customer export failed", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for customer export", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Customer export scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// Stop waits for a running export to finish
func (s *ExportScheduler) Stop() {
	logger.Info("Stopping customer export scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Customer export scheduler stopped")
}

// RunOnce renders the full listing and uploads it, returning the object URL
func (s *ExportScheduler) RunOnce(ctx context.Context) (string, error) {
	rows, err := s.customers.ListAllCustomers(model.CustomerFilter{})
	if err != nil {
		return "", fmt.Errorf("failed to collect customers: %w", err)
	}

	var buf bytes.Buffer
	if err := export.WriteCustomers(&buf, rows); err != nil {
		return "", fmt.Errorf("failed to render export: %w", err)
	}

	key := fmt.Sprintf("%s/customers-%s-%s.xlsx", s.prefix, s.now().UTC().Format("20060102T150405Z"), uuid.New().String())
	url, err := s.uploader.Upload(ctx, key, export.ContentType, &buf)
	if err != nil {
		return "", err
	}

	logger.Info("Customer export uploaded", map[string]interface{}{
		"key":       key,
		"url":       url,
		"customers": len(rows),
	})
	return url, nil
}
