package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dnicola11/repuestos/internal/backend"
	"github.com/Dnicola11/repuestos/internal/models"
	"github.com/Dnicola11/repuestos/internal/store"
)

type mockPartRepo struct {
	mock.Mock
}

func (m *mockPartRepo) Insert(ctx context.Context, draft models.PartDraft, now time.Time) (string, error) {
	args := m.Called(ctx, draft, now)
	return args.String(0), args.Error(1)
}

func (m *mockPartRepo) ListAll(ctx context.Context) ([]models.Part, error) {
	args := m.Called(ctx)
	if parts := args.Get(0); parts != nil {
		return parts.([]models.Part), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPartRepo) UpdateFields(ctx context.Context, id string, fields models.PartUpdate, now time.Time) error {
	args := m.Called(ctx, id, fields, now)
	return args.Error(0)
}

func (m *mockPartRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockBlobService struct {
	mock.Mock
}

func (m *mockBlobService) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockBlobService) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string, metadata map[string]string) error {
	args := m.Called(ctx, key, reader, size, contentType, metadata)
	return args.Error(0)
}

func (m *mockBlobService) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *mockBlobService) DeleteByURL(ctx context.Context, rawURL string) error {
	args := m.Called(ctx, rawURL)
	return args.Error(0)
}

func signedInStore() *store.Store {
	st := store.New()
	st.Apply(store.SetUser{User: &models.User{ID: "u1", Email: "ana@example.com"}})
	return st
}

func TestCreatePartFailsFastWhenNotAuthenticated(t *testing.T) {
	st := store.New()
	repo := new(mockPartRepo)
	blobs := new(mockBlobService)
	svc := NewPartsService(st, repo, blobs, zap.NewNop())

	_, err := svc.CreatePart(context.Background(), models.PartDraft{Name: "Brake pad"})

	require.Error(t, err)
	assert.Equal(t, backend.KindUnauthenticated, backend.KindOf(err))
	assert.Equal(t, msgNotAuthenticated, st.LastError())
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePartAppendsToState(t *testing.T) {
	st := signedInStore()
	repo := new(mockPartRepo)
	blobs := new(mockBlobService)
	svc := NewPartsService(st, repo, blobs, zap.NewNop())

	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	repo.On("Insert", mock.Anything, mock.Anything, fixed).Return("p1", nil)

	part, err := svc.CreatePart(context.Background(), models.PartDraft{Name: "Brake pad", Quantity: 4, Price: 25})

	require.NoError(t, err)
	assert.Equal(t, "p1", part.ID)
	assert.Equal(t, models.DefaultCategory, part.Category, "empty category gets the default")
	assert.Equal(t, fixed, part.CreatedAt)
	assert.Equal(t, fixed, part.UpdatedAt)

	got, ok := st.PartByID("p1")
	require.True(t, ok)
	assert.Equal(t, part, got)
	assert.Equal(t, "", st.LastError())
	assert.False(t, st.Snapshot().Loading)
}

func TestCreatePartTimeoutMessage(t *testing.T) {
	st := signedInStore()
	repo := new(mockPartRepo)
	svc := NewPartsService(st, repo, new(mockBlobService), zap.NewNop())

	timeoutErr := backend.Wrap(backend.KindTimeout, "insert deadline exceeded", context.DeadlineExceeded)
	repo.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return("", timeoutErr)

	_, err := svc.CreatePart(context.Background(), models.PartDraft{Name: "Brake pad"})

	require.Error(t, err)
	assert.Equal(t, backend.KindTimeout, backend.KindOf(err))
	assert.Contains(t, st.LastError(), "may still complete on the server")
	assert.Empty(t, st.Parts(), "a timed-out create must not reach local state")
	assert.False(t, st.Snapshot().Loading)
}

func TestUpdatePartDispatchesLocalMerge(t *testing.T) {
	st := signedInStore()
	st.Apply(store.AddPart{Part: models.Part{ID: "p1", Name: "Brake pad", Quantity: 4}})

	repo := new(mockPartRepo)
	svc := NewPartsService(st, repo, new(mockBlobService), zap.NewNop())
	repo.On("UpdateFields", mock.Anything, "p1", mock.Anything, mock.Anything).Return(nil)

	qty := 9
	err := svc.UpdatePart(context.Background(), "p1", models.PartUpdate{Quantity: &qty})

	require.NoError(t, err)
	got, ok := st.PartByID("p1")
	require.True(t, ok)
	assert.Equal(t, 9, got.Quantity)
	assert.Equal(t, "Brake pad", got.Name)
}

func TestUpdatePartEmptyFieldsStillWritesAndRestamps(t *testing.T) {
	st := signedInStore()
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	original := models.Part{
		ID: "p1", Name: "Brake pad", Description: "front axle",
		Quantity: 4, Price: 25, Category: "Frenos", MinStock: 5,
		CreatedAt: created, UpdatedAt: created,
	}
	st.Apply(store.SetParts{Parts: []models.Part{original}})

	repo := new(mockPartRepo)
	svc := NewPartsService(st, repo, new(mockBlobService), zap.NewNop())
	repo.On("UpdateFields", mock.Anything, "p1", models.PartUpdate{}, mock.Anything).Return(nil)

	require.NoError(t, svc.UpdatePart(context.Background(), "p1", models.PartUpdate{}))

	got, ok := st.PartByID("p1")
	require.True(t, ok)
	assert.True(t, got.UpdatedAt.After(original.UpdatedAt), "an empty update still advances the modification time")

	got.UpdatedAt = original.UpdatedAt
	assert.Equal(t, original, got, "every other field is untouched")
	repo.AssertCalled(t, "UpdateFields", mock.Anything, "p1", models.PartUpdate{}, mock.Anything)
}

func TestUpdatePartFailureLeavesStateUntouched(t *testing.T) {
	st := signedInStore()
	st.Apply(store.AddPart{Part: models.Part{ID: "p1", Quantity: 4}})

	repo := new(mockPartRepo)
	svc := NewPartsService(st, repo, new(mockBlobService), zap.NewNop())
	repo.On("UpdateFields", mock.Anything, "p1", mock.Anything, mock.Anything).
		Return(backend.New(backend.KindNotFound, "no part"))

	qty := 9
	err := svc.UpdatePart(context.Background(), "p1", models.PartUpdate{Quantity: &qty})

	require.Error(t, err)
	got, _ := st.PartByID("p1")
	assert.Equal(t, 4, got.Quantity)
	assert.NotEmpty(t, st.LastError())
}

func TestDeletePartSwallowsImageCleanupFailure(t *testing.T) {
	st := signedInStore()
	st.Apply(store.AddPart{Part: models.Part{ID: "p1", ImageURL: "http://localhost:9000/repuestos-images/repuestos/1.jpg"}})

	repo := new(mockPartRepo)
	blobs := new(mockBlobService)
	svc := NewPartsService(st, repo, blobs, zap.NewNop())

	blobs.On("DeleteByURL", mock.Anything, "http://localhost:9000/repuestos-images/repuestos/1.jpg").
		Return(backend.New(backend.KindUnavailable, "blob store down"))
	repo.On("Delete", mock.Anything, "p1").Return(nil)

	err := svc.DeletePart(context.Background(), "p1")

	require.NoError(t, err, "image cleanup failure must not block the delete")
	_, ok := st.PartByID("p1")
	assert.False(t, ok)
	assert.Equal(t, "", st.LastError())
	blobs.AssertExpectations(t)
}

func TestDeletePartSkipsBlobWhenNoImage(t *testing.T) {
	st := signedInStore()
	st.Apply(store.AddPart{Part: models.Part{ID: "p1"}})

	repo := new(mockPartRepo)
	blobs := new(mockBlobService)
	svc := NewPartsService(st, repo, blobs, zap.NewNop())
	repo.On("Delete", mock.Anything, "p1").Return(nil)

	require.NoError(t, svc.DeletePart(context.Background(), "p1"))
	blobs.AssertNotCalled(t, "DeleteByURL", mock.Anything, mock.Anything)
}

func TestListPartsReplacesStateAndClearsLoading(t *testing.T) {
	st := signedInStore()
	st.Apply(store.AddPart{Part: models.Part{ID: "stale"}})

	repo := new(mockPartRepo)
	svc := NewPartsService(st, repo, new(mockBlobService), zap.NewNop())

	fresh := []models.Part{{ID: "p1", Name: "Brake pad"}, {ID: "p2", Name: "Oil filter"}}
	repo.On("ListAll", mock.Anything).Return(fresh, nil)

	require.NoError(t, svc.ListParts(context.Background()))

	assert.Equal(t, fresh, st.Parts())
	assert.False(t, st.Snapshot().LoadingParts)
}

func TestListPartsFailureSetsError(t *testing.T) {
	st := signedInStore()
	repo := new(mockPartRepo)
	svc := NewPartsService(st, repo, new(mockBlobService), zap.NewNop())
	repo.On("ListAll", mock.Anything).Return(nil, backend.New(backend.KindUnavailable, "down"))

	err := svc.ListParts(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Could not load parts", st.LastError())
	assert.False(t, st.Snapshot().LoadingParts)
}
