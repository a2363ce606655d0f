package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Dnicola11/repuestos/internal/backend"
	"github.com/Dnicola11/repuestos/internal/models"
	"github.com/Dnicola11/repuestos/internal/store"
)

// CategoriesService mirrors the part actions without the write timeout and
// without image handling; each operation carries one fixed failure message.
type CategoriesService struct {
	store      *store.Store
	categories CategoryRepositoryPort
	log        *zap.Logger
	now        func() time.Time
}

// CategoryRepositoryPort is the slice of the document store the category
// actions use.
type CategoryRepositoryPort interface {
	Insert(ctx context.Context, draft models.CategoryDraft, now time.Time) (string, error)
	ListAll(ctx context.Context) ([]models.Category, error)
	UpdateFields(ctx context.Context, id string, fields models.CategoryUpdate) error
	Delete(ctx context.Context, id string) error
}

func NewCategoriesService(st *store.Store, categories CategoryRepositoryPort, log *zap.Logger) *CategoriesService {
	return &CategoriesService{
		store:      st,
		categories: categories,
		log:        log,
		now:        time.Now,
	}
}

func (s *CategoriesService) ListCategories(ctx context.Context) error {
	s.store.Apply(store.SetCategoriesLoading{Value: true})
	s.store.Apply(store.ClearError{})
	defer s.store.Apply(store.SetCategoriesLoading{Value: false})

	categories, err := s.categories.ListAll(ctx)
	if err != nil {
		return s.fail("list categories", "Could not load categories", err)
	}

	s.store.Apply(store.SetCategories{Categories: categories})
	return nil
}

func (s *CategoriesService) CreateCategory(ctx context.Context, draft models.CategoryDraft) (models.Category, error) {
	s.store.Apply(store.SetLoading{Value: true})
	s.store.Apply(store.ClearError{})
	defer s.store.Apply(store.SetLoading{Value: false})

	now := s.now()
	id, err := s.categories.Insert(ctx, draft, now)
	if err != nil {
		return models.Category{}, s.fail("create category", "Could not create category", err)
	}

	category := models.Category{
		ID:          id,
		Name:        draft.Name,
		Description: draft.Description,
		Color:       draft.Color,
		CreatedAt:   now,
	}
	s.store.Apply(store.AddCategory{Category: category})
	return category, nil
}

func (s *CategoriesService) UpdateCategory(ctx context.Context, id string, fields models.CategoryUpdate) error {
	s.store.Apply(store.SetLoading{Value: true})
	s.store.Apply(store.ClearError{})
	defer s.store.Apply(store.SetLoading{Value: false})

	if err := s.categories.UpdateFields(ctx, id, fields); err != nil {
		return s.fail("update category", "Could not update category", err)
	}

	s.store.Apply(store.UpdateCategory{ID: id, Fields: fields})
	return nil
}

func (s *CategoriesService) DeleteCategory(ctx context.Context, id string) error {
	s.store.Apply(store.SetLoading{Value: true})
	s.store.Apply(store.ClearError{})
	defer s.store.Apply(store.SetLoading{Value: false})

	if err := s.categories.Delete(ctx, id); err != nil {
		return s.fail("delete category", "Could not delete category", err)
	}

	s.store.Apply(store.RemoveCategory{ID: id})
	return nil
}

func (s *CategoriesService) fail(action, msg string, cause error) error {
	s.store.Apply(store.SetError{Message: msg})
	s.log.Warn(action+" failed", zap.Error(cause))
	return backend.Wrap(backend.KindOf(cause), msg, cause)
}
