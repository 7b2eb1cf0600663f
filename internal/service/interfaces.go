// Package service defines the collaborator interfaces shared across packages.
package service

import (
	"context"

	"github.com/Veraticus/khru/internal/model"
)

// Storage is the persistence collaborator. Values are whole documents stored
// under a top-level key; there is no transactional grouping across keys.
type Storage interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error

	RecordActivity(ctx context.Context, a model.Activity) error
	RecentActivity(ctx context.Context, limit int) ([]model.Activity, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Gate checks the shared edit passphrase.
type Gate interface {
	Check(passphrase string) error
}

// TipsRequest describes one student's standing in one subject.
type TipsRequest struct {
	StudentName string
	SubjectName string
	ClassName   string
	Score       model.StudentScore
	Max         model.MaxScores
}

// IndicatorRequest asks for curriculum indicators matching a subject query.
type IndicatorRequest struct {
	Query     string
	ClassName string
}

// Advisor is the AI text-generation collaborator.
type Advisor interface {
	StudyTips(ctx context.Context, req TipsRequest) (string, error)
	SuggestIndicators(ctx context.Context, req IndicatorRequest) ([]string, error)
}
