package api

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/service"
)

// mockCardService mocks the service.CardService interface.
type mockCardService struct {
	mock.Mock
}

func (m *mockCardService) Create(
	ctx context.Context,
	question, answer string,
	tags []string,
) (*domain.Card, error) {
	args := m.Called(ctx, question, answer, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *mockCardService) Get(ctx context.Context, id int64) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *mockCardService) Update(
	ctx context.Context,
	id int64,
	patch domain.CardPatch,
) (*domain.Card, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *mockCardService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCardService) NextDue(ctx context.Context, tag string) (*domain.Card, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *mockCardService) RecordSuccess(ctx context.Context, id int64) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *mockCardService) RecordFailure(ctx context.Context, id int64) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *mockCardService) SetDueDate(
	ctx context.Context,
	id int64,
	due time.Time,
) (*domain.Card, error) {
	args := m.Called(ctx, id, due)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *mockCardService) List(ctx context.Context) ([]*domain.Card, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Card), args.Error(1)
}

func (m *mockCardService) BulkUpsert(
	ctx context.Context,
	cards []*domain.Card,
) (service.UpsertSummary, error) {
	args := m.Called(ctx, cards)
	return args.Get(0).(service.UpsertSummary), args.Error(1)
}

// mockDocumentService mocks the service.DocumentService interface.
type mockDocumentService struct {
	mock.Mock
}

func (m *mockDocumentService) Create(
	ctx context.Context,
	title, content string,
	tags []string,
) (*domain.Document, error) {
	args := m.Called(ctx, title, content, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *mockDocumentService) Get(ctx context.Context, title string) (*domain.Document, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *mockDocumentService) Update(
	ctx context.Context,
	title string,
	patch domain.DocumentPatch,
) (*domain.Document, error) {
	args := m.Called(ctx, title, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *mockDocumentService) Delete(ctx context.Context, title string) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

func (m *mockDocumentService) Titles(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockDocumentService) TitlesByTags(
	ctx context.Context,
	tags []string,
) ([]string, error) {
	args := m.Called(ctx, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockDocumentService) FindByTags(
	ctx context.Context,
	tags []string,
) ([]*domain.Document, error) {
	args := m.Called(ctx, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Document), args.Error(1)
}

func (m *mockDocumentService) Search(ctx context.Context, query string) ([]string, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockDocumentService) List(ctx context.Context) ([]*domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Document), args.Error(1)
}

func (m *mockDocumentService) BulkUpload(
	ctx context.Context,
	docs []*domain.Document,
) (service.UpsertSummary, error) {
	args := m.Called(ctx, docs)
	return args.Get(0).(service.UpsertSummary), args.Error(1)
}
