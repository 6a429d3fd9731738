package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"scaffoldapi/internal/model"
)

// ExampleService holds placeholder business operations. Replace it with real domain logic;
// it has no dependency on the HTTP layer or on settings.
type ExampleService interface {
	// FetchExampleData returns a fixed-shape payload stamped with the current time.
	FetchExampleData(ctx context.Context) (*model.ExampleData, error)

	// ProcessUserData summarizes data for userID. Any user id is accepted, including "".
	ProcessUserData(ctx context.Context, userID string, data map[string]any) (*model.ProcessResult, error)
}

// Option configures an exampleService.
type Option func(*exampleService)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *exampleService) { s.now = now }
}

type exampleService struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewExampleService constructs a new ExampleService.
func NewExampleService(logger *zap.Logger, opts ...Option) ExampleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &exampleService{logger: logger.Named("service"), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *exampleService) FetchExampleData(ctx context.Context) (*model.ExampleData, error) {
	s.logger.Info("fetching example data")

	return &model.ExampleData{
		Message:   "Hello from service layer",
		Timestamp: s.timestamp(),
		Data:      map[string]string{"key": "value"},
	}, nil
}

func (s *exampleService) ProcessUserData(ctx context.Context, userID string, data map[string]any) (*model.ProcessResult, error) {
	s.logger.Info("processing user data", zap.String("user_id", userID))

	return &model.ProcessResult{
		UserID:      userID,
		ProcessedAt: s.timestamp(),
		Result:      fmt.Sprintf("Processed %d items", len(data)),
	}, nil
}

func (s *exampleService) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
