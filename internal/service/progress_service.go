package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pranaysuyash/advay-learning/internal/domain"
	"github.com/pranaysuyash/advay-learning/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DuplicateProgressError reports that the (profile, idempotency key) pair has
// already been persisted. It carries the existing record's id so retrying
// clients can reconcile without another round trip.
type DuplicateProgressError struct {
	ExistingID uuid.UUID
}

func (e *DuplicateProgressError) Error() string {
	return fmt.Sprintf("duplicate progress for idempotency key (existing id %s)", e.ExistingID)
}

var ErrInvalidProgressItem = errors.New("activity_type and content_id are required")

type ProgressService struct {
	progress repository.ProgressRepository
}

func NewProgressService(progress repository.ProgressRepository) *ProgressService {
	return &ProgressService{progress: progress}
}

type ProgressInput struct {
	ActivityType    string
	ContentID       string
	Score           int
	DurationSeconds int
	MetaData        datatypes.JSON
	IdempotencyKey  *string
	CompletedAt     *time.Time
}

func (in *ProgressInput) validate() error {
	if in.ActivityType == "" || in.ContentID == "" {
		return ErrInvalidProgressItem
	}
	if in.Score < 0 {
		return fmt.Errorf("score must be non-negative")
	}
	if in.DurationSeconds < 0 {
		return fmt.Errorf("duration_seconds must be non-negative")
	}
	return nil
}

// Create persists one progress record with at-most-once semantics per
// idempotency key.
//
// When a key is supplied, an existing (profile, key) row short-circuits into
// DuplicateProgressError. The check-then-insert window is closed by the unique
// constraint: if a concurrent racer wins the insert, the constraint violation
// is converted into a re-read of the winner and the same DuplicateProgressError.
// Records without a key always insert.
func (s *ProgressService) Create(ctx context.Context, profileID uuid.UUID, input ProgressInput) (*domain.Progress, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if input.IdempotencyKey != nil {
		existing, err := s.progress.GetByProfileAndKey(ctx, profileID, *input.IdempotencyKey)
		if err == nil {
			return nil, &DuplicateProgressError{ExistingID: existing.ID}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	completedAt := time.Now()
	if input.CompletedAt != nil {
		completedAt = *input.CompletedAt
	}
	meta := input.MetaData
	if meta == nil {
		meta = datatypes.JSON([]byte("{}"))
	}

	record := &domain.Progress{
		ID:              uuid.New(),
		ProfileID:       profileID,
		ActivityType:    input.ActivityType,
		ContentID:       input.ContentID,
		Score:           input.Score,
		DurationSeconds: input.DurationSeconds,
		MetaData:        meta,
		IdempotencyKey:  input.IdempotencyKey,
		CompletedAt:     completedAt,
	}

	err := s.progress.Create(ctx, record)
	if err == nil {
		return record, nil
	}

	if errors.Is(err, domain.ErrDuplicateKey) && input.IdempotencyKey != nil {
		existing, lookupErr := s.progress.GetByProfileAndKey(ctx, profileID, *input.IdempotencyKey)
		if lookupErr == nil {
			return nil, &DuplicateProgressError{ExistingID: existing.ID}
		}
	}
	return nil, err
}

const (
	BatchStatusOK        = "ok"
	BatchStatusDuplicate = "duplicate"
	BatchStatusError     = "error"
)

// BatchItemResult is the tagged outcome for one batch item. Exactly one of
// ServerID or Error is meaningful, selected by Status.
type BatchItemResult struct {
	IdempotencyKey *string   `json:"idempotency_key,omitempty"`
	Status         string    `json:"status"`
	ServerID       uuid.UUID `json:"server_id,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// SubmitBatch applies items sequentially in input order against the same
// database session, so later items observe earlier ones and within-batch
// duplicates are detected. Results line up with input indexes. One item
// failing never aborts the rest; committed items stay committed if the
// request dies mid-batch, which is safe because every keyed item is
// idempotent and retryable.
func (s *ProgressService) SubmitBatch(ctx context.Context, profileID uuid.UUID, items []ProgressInput) []BatchItemResult {
	results := make([]BatchItemResult, 0, len(items))

	for _, item := range items {
		result := BatchItemResult{IdempotencyKey: item.IdempotencyKey}

		record, err := s.Create(ctx, profileID, item)
		switch {
		case err == nil:
			result.Status = BatchStatusOK
			result.ServerID = record.ID
		default:
			var dup *DuplicateProgressError
			if errors.As(err, &dup) {
				result.Status = BatchStatusDuplicate
				result.ServerID = dup.ExistingID
			} else {
				result.Status = BatchStatusError
				result.Error = err.Error()
			}
		}

		results = append(results, result)
	}

	return results
}

func (s *ProgressService) GetByProfile(ctx context.Context, profileID uuid.UUID) ([]*domain.Progress, error) {
	return s.progress.GetByProfileID(ctx, profileID)
}

type ProgressStats struct {
	TotalActivities  int      `json:"total_activities"`
	TotalScore       int      `json:"total_score"`
	AverageScore     float64  `json:"average_score"`
	CompletedContent []string `json:"completed_content"`
	CompletionCount  int      `json:"completion_count"`
}

const completionScoreThreshold = 80

// Stats aggregates a profile's history. Content counts as completed once any
// record for it scores at or above the threshold.
func (s *ProgressService) Stats(ctx context.Context, profileID uuid.UUID) (*ProgressStats, error) {
	records, err := s.progress.GetByProfileID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	stats := &ProgressStats{CompletedContent: []string{}}
	seen := make(map[string]bool)
	for _, r := range records {
		stats.TotalActivities++
		stats.TotalScore += r.Score
		if r.Score >= completionScoreThreshold && !seen[r.ContentID] {
			seen[r.ContentID] = true
			stats.CompletedContent = append(stats.CompletedContent, r.ContentID)
		}
	}
	stats.CompletionCount = len(stats.CompletedContent)
	if stats.TotalActivities > 0 {
		stats.AverageScore = float64(stats.TotalScore) / float64(stats.TotalActivities)
	}

	return stats, nil
}
