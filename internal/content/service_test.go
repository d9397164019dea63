package content

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/second-brain/backend/internal/apperr"
	"github.com/ayush/second-brain/backend/internal/models"
	"github.com/ayush/second-brain/backend/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	return NewService(mem, mem, "http://localhost:5173/", discardLogger()), mem
}

func mustUser(t *testing.T, mem *store.MemoryStore, name string) *models.User {
	t.Helper()
	u, err := mem.CreateUser(context.Background(), name, "Sup3r!Secret")
	require.NoError(t, err)
	return u
}

func video(title string) models.CreateContentRequest {
	return models.CreateContentRequest{
		Types: models.TypeYouTube,
		Link:  "https://youtube.com/watch?v=" + title,
		Title: title,
		Tags:  "go,talks",
	}
}

func TestAddContent_RequiresUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddContent(context.Background(), "", video("x"))
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestAddContent_UnknownUserPersistsNothing(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddContent(ctx, "no-such-user", video("x"))
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)

	items, err := mem.FindContentByOwner(ctx, "no-such-user", "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAddContent_InvalidPayloadPersistsNothing(t *testing.T) {
	svc, mem := newTestService(t)
	alice := mustUser(t, mem, "alice")
	ctx := context.Background()

	cases := map[string]models.CreateContentRequest{
		"bad url":      {Types: models.TypeYouTube, Link: "not a url", Title: "t", Tags: "x"},
		"empty title":  {Types: models.TypeYouTube, Link: "https://example.com", Tags: "x"},
		"empty tags":   {Types: models.TypeYouTube, Link: "https://example.com", Title: "t"},
		"unknown type": {Types: "podcast", Link: "https://example.com", Title: "t", Tags: "x"},
		"link type":    {Types: models.TypeLink, Link: "https://example.com", Title: "t", Tags: "x"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.AddContent(ctx, alice.ID, req)
			require.ErrorIs(t, err, apperr.ErrValidation)
			assert.NotEmpty(t, apperr.Details(err))
		})
	}

	items, err := svc.ListOwnContent(ctx, alice.ID, "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListOwnContent_OnlyOwnersItems(t *testing.T) {
	svc, mem := newTestService(t)
	alice, bob := mustUser(t, mem, "alice"), mustUser(t, mem, "bob")
	ctx := context.Background()

	_, err := svc.AddContent(ctx, alice.ID, video("a1"))
	require.NoError(t, err)
	_, err = svc.AddContent(ctx, bob.ID, video("b1"))
	require.NoError(t, err)
	_, err = svc.AddContent(ctx, alice.ID, models.CreateContentRequest{
		Types: models.TypeTwitter, Link: "https://x.com/post/1", Title: "a2", Tags: "news",
	})
	require.NoError(t, err)

	items, err := svc.ListOwnContent(ctx, alice.ID, "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, alice.ID, it.UserID)
	}
	assert.Equal(t, "a1", items[0].Title)
	assert.Equal(t, "a2", items[1].Title)

	items, err = svc.ListOwnContent(ctx, alice.ID, models.TypeTwitter)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a2", items[0].Title)

	_, err = svc.ListOwnContent(ctx, alice.ID, "podcast")
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.ListOwnContent(ctx, "", "")
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestDeleteContent(t *testing.T) {
	svc, mem := newTestService(t)
	alice := mustUser(t, mem, "alice")
	ctx := context.Background()

	item, err := svc.AddContent(ctx, alice.ID, video("a1"))
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteContent(ctx, alice.ID, ""), apperr.ErrValidation)
	require.ErrorIs(t, svc.DeleteContent(ctx, alice.ID, "nope"), apperr.ErrNotFound)

	require.NoError(t, svc.DeleteContent(ctx, alice.ID, item.ID.Hex()))
	require.ErrorIs(t, svc.DeleteContent(ctx, alice.ID, item.ID.Hex()), apperr.ErrNotFound)
}

// Deletion is not restricted to the owner.
func TestDeleteContent_AnyCallerCanDelete(t *testing.T) {
	svc, mem := newTestService(t)
	alice, mallory := mustUser(t, mem, "alice"), mustUser(t, mem, "mallory")
	ctx := context.Background()

	item, err := svc.AddContent(ctx, alice.ID, video("a1"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteContent(ctx, mallory.ID, item.ID.Hex()))

	items, err := svc.ListOwnContent(ctx, alice.ID, "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestShareLinkRotation(t *testing.T) {
	svc, mem := newTestService(t)
	alice := mustUser(t, mem, "alice")
	ctx := context.Background()
	_, err := svc.AddContent(ctx, alice.ID, video("a1"))
	require.NoError(t, err)

	tokens := []string{"tok-1", "tok-2"}
	svc.newToken = func() string {
		next := tokens[0]
		tokens = tokens[1:]
		return next
	}

	link1, err := svc.GenerateShareLink(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173/shared/tok-1", link1)

	shared, err := svc.GetSharedContent(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", shared.OwnerName)
	require.Len(t, shared.Contents, 1)

	again, err := svc.GetSharedContent(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, shared, again)

	link2, err := svc.GenerateShareLink(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173/shared/tok-2", link2)

	_, err = svc.GetSharedContent(ctx, "tok-1")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.GetSharedContent(ctx, "tok-2")
	require.NoError(t, err)
}

func TestGenerateShareLink_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GenerateShareLink(ctx, "")
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = svc.GenerateShareLink(ctx, "ghost")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetSharedContent_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetSharedContent(ctx, "")
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.GetSharedContent(ctx, "never-issued")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

type failingStore struct{ Store }

func (failingStore) FindContentByOwner(context.Context, string, models.ContentType) ([]models.Content, error) {
	return nil, errors.Join(apperr.ErrStore, errors.New("mongo unreachable"))
}

func TestListOwnContent_StoreFailure(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := NewService(failingStore{mem}, mem, "http://localhost:5173", discardLogger())

	_, err := svc.ListOwnContent(context.Background(), "u-1", "")
	require.ErrorIs(t, err, apperr.ErrStore)
}
