package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Recorder is the write side of the event log, consumed by the other
// modules as an external log sink
type Recorder interface {
	Record(ctx context.Context, event *CompanyEvent) error
}

// Service provides the company event log
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates the event log service and migrates its table
func NewService(db *gorm.DB, logger *zap.Logger) (*Service, error) {
	if err := db.AutoMigrate(&CompanyEvent{}); err != nil {
		return nil, fmt.Errorf("failed to migrate company_events: %w", err)
	}
	return &Service{db: db, logger: logger}, nil
}

// Record appends an event to the log
func (s *Service) Record(ctx context.Context, event *CompanyEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to record company event: %w", err)
	}
	s.logger.Info("Company event recorded",
		zap.String("company_id", event.CompanyID.String()),
		zap.String("event_type", string(event.EventType)),
		zap.String("title", event.Title))
	return nil
}

// List returns events matching the filter, newest first
func (s *Service) List(ctx context.Context, filter EventFilter) ([]CompanyEvent, error) {
	q := s.db.WithContext(ctx).Model(&CompanyEvent{}).Order("created_at DESC")
	if filter.CompanyID != nil {
		q = q.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.EventType != nil {
		q = q.Where("event_type = ?", *filter.EventType)
	}
	if filter.Since != nil {
		q = q.Where("created_at >= ?", *filter.Since)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []CompanyEvent
	if err := q.Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list company events: %w", err)
	}
	return out, nil
}
