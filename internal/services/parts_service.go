package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Dnicola11/repuestos/internal/backend"
	"github.com/Dnicola11/repuestos/internal/models"
	"github.com/Dnicola11/repuestos/internal/store"
)

// writeTimeout bounds create and update writes. When it expires the action
// reports failure but the in-flight write is not rolled back server-side;
// callers must treat a timeout as "outcome unknown".
const writeTimeout = 10 * time.Second

const msgNotAuthenticated = "Not authenticated. Sign in again"

// PartsService exposes the part CRUD actions over the document store.
type PartsService struct {
	store *store.Store
	parts PartRepositoryPort
	blobs BlobService
	log   *zap.Logger
	now   func() time.Time
}

// PartRepositoryPort is the slice of the document store the part actions use.
type PartRepositoryPort interface {
	Insert(ctx context.Context, draft models.PartDraft, now time.Time) (string, error)
	ListAll(ctx context.Context) ([]models.Part, error)
	UpdateFields(ctx context.Context, id string, fields models.PartUpdate, now time.Time) error
	Delete(ctx context.Context, id string) error
}

func NewPartsService(st *store.Store, parts PartRepositoryPort, blobs BlobService, log *zap.Logger) *PartsService {
	return &PartsService{
		store: st,
		parts: parts,
		blobs: blobs,
		log:   log,
		now:   time.Now,
	}
}

// ListParts replaces the local part list with the backend's current truth,
// ordered by creation time descending.
func (s *PartsService) ListParts(ctx context.Context) error {
	s.store.Apply(store.SetPartsLoading{Value: true})
	s.store.Apply(store.ClearError{})
	defer s.store.Apply(store.SetPartsLoading{Value: false})

	parts, err := s.parts.ListAll(ctx)
	if err != nil {
		return s.fail("list parts", "Could not load parts", err)
	}

	s.store.Apply(store.SetParts{Parts: parts})
	return nil
}

// CreatePart writes the draft and, on success, appends the complete part to
// local state and returns it. Requires an authenticated session; no network
// call is attempted without one.
func (s *PartsService) CreatePart(ctx context.Context, draft models.PartDraft) (models.Part, error) {
	s.store.Apply(store.SetLoading{Value: true})
	s.store.Apply(store.ClearError{})
	defer s.store.Apply(store.SetLoading{Value: false})

	if s.store.CurrentUser() == nil {
		err := backend.New(backend.KindUnauthenticated, "create part: not authenticated")
		return models.Part{}, s.fail("create part", msgNotAuthenticated, err)
	}

	if draft.Category == "" {
		draft.Category = models.DefaultCategory
	}

	// One timestamp serves both creation and modification.
	now := s.now()

	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	id, err := s.parts.Insert(wctx, draft, now)
	if err != nil {
		return models.Part{}, s.fail("create part", writeMessage("create", err), err)
	}

	part := models.Part{
		ID:          id,
		Name:        draft.Name,
		Description: draft.Description,
		Quantity:    draft.Quantity,
		Price:       draft.Price,
		Category:    draft.Category,
		MinStock:    draft.MinStock,
		ImageURL:    draft.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.store.Apply(store.AddPart{Part: part})
	return part, nil
}

// UpdatePart merges the given fields remotely and then locally. The server
// and the local merge stamp modification times independently; the two values
// are close but not guaranteed identical.
func (s *PartsService) UpdatePart(ctx context.Context, id string, fields models.PartUpdate) error {
	s.store.Apply(store.SetLoading{Value: true})
	s.store.Apply(store.ClearError{})
	defer s.store.Apply(store.SetLoading{Value: false})

	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := s.parts.UpdateFields(wctx, id, fields, s.now()); err != nil {
		return s.fail("update part", writeMessage("update", err), err)
	}

	s.store.Apply(store.UpdatePart{ID: id, Fields: fields})
	return nil
}

// DeletePart removes the document and its local entry. An associated image
// is cleaned up best-effort first; a cleanup failure is logged and never
// blocks the delete.
func (s *PartsService) DeletePart(ctx context.Context, id string) error {
	s.store.Apply(store.SetLoading{Value: true})
	s.store.Apply(store.ClearError{})
	defer s.store.Apply(store.SetLoading{Value: false})

	if part, ok := s.store.PartByID(id); ok && part.ImageURL != "" {
		if err := s.blobs.DeleteByURL(ctx, part.ImageURL); err != nil {
			s.log.Warn("image cleanup failed",
				zap.String("part_id", id),
				zap.String("image_url", part.ImageURL),
				zap.Error(err))
		}
	}

	if err := s.parts.Delete(ctx, id); err != nil {
		return s.fail("delete part", "Could not delete part", err)
	}

	s.store.Apply(store.RemovePart{ID: id})
	return nil
}

func (s *PartsService) fail(action, msg string, cause error) error {
	s.store.Apply(store.SetError{Message: msg})
	s.log.Warn(action+" failed", zap.Error(cause))
	return backend.Wrap(backend.KindOf(cause), msg, cause)
}

func writeMessage(verb string, err error) string {
	switch backend.KindOf(err) {
	case backend.KindTimeout:
		return "The " + verb + " took too long. It may still complete on the server; refresh to check"
	case backend.KindPermissionDenied:
		return "You do not have permission to " + verb + " parts"
	case backend.KindUnavailable:
		return "Service unavailable. Check your connection"
	case backend.KindUnauthenticated:
		return msgNotAuthenticated
	default:
		return err.Error()
	}
}
