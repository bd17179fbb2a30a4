package repository_test

import (
	"context"
	"testing"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/database"
	"github.com/fadilmartias/grant-portal/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, database.MigrateRemote(db))
	require.NoError(t, database.MigrateLocal(db))
	return db
}

func TestDocumentRepository_SetGet(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewDocumentRepository(newDB(t))

	_, err := repo.GetDocument(ctx, "users", "u1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.NoError(t, repo.SetDocument(ctx, "users", "u1", repository.Document{"uid": "u1", "role": "applicant"}, false))
	doc, err := repo.GetDocument(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "applicant", doc["role"])

	// overwrite without merge drops untouched fields
	require.NoError(t, repo.SetDocument(ctx, "users", "u1", repository.Document{"uid": "u1"}, false))
	doc, err = repo.GetDocument(ctx, "users", "u1")
	require.NoError(t, err)
	assert.NotContains(t, doc, "role")
}

func TestDocumentRepository_MergeIsDeep(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewDocumentRepository(newDB(t))

	require.NoError(t, repo.SetDocument(ctx, "applications", "a1", repository.Document{
		"projectTitle": "Garden",
		"formData":     map[string]any{"contactEmail": "a@example.org", "orgType": "Charity"},
	}, false))
	require.NoError(t, repo.SetDocument(ctx, "applications", "a1", repository.Document{
		"status":   "Submitted-Stage2",
		"formData": map[string]any{"charityNumber": "1234", "orgType": "CIO"},
	}, true))

	doc, err := repo.GetDocument(ctx, "applications", "a1")
	require.NoError(t, err)
	assert.Equal(t, "Garden", doc["projectTitle"])
	assert.Equal(t, "Submitted-Stage2", doc["status"])
	formData := doc["formData"].(map[string]any)
	assert.Equal(t, "a@example.org", formData["contactEmail"])
	assert.Equal(t, "1234", formData["charityNumber"])
	assert.Equal(t, "CIO", formData["orgType"])
}

func TestDocumentRepository_MergeCreatesMissing(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewDocumentRepository(newDB(t))

	require.NoError(t, repo.SetDocument(ctx, "portalSettings", "global", repository.Document{"votingOpen": true}, true))
	doc, err := repo.GetDocument(ctx, "portalSettings", "global")
	require.NoError(t, err)
	assert.Equal(t, true, doc["votingOpen"])
}

func TestDocumentRepository_QueryAndList(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewDocumentRepository(newDB(t))

	require.NoError(t, repo.SetDocument(ctx, "scores", "a1_s1", repository.Document{"appId": "a1", "scorerId": "s1", "total": 3}, false))
	require.NoError(t, repo.SetDocument(ctx, "scores", "a2_s1", repository.Document{"appId": "a2", "scorerId": "s1", "total": 5}, false))
	require.NoError(t, repo.SetDocument(ctx, "scores", "a1_s2", repository.Document{"appId": "a1", "scorerId": "s2", "total": 5}, false))
	require.NoError(t, repo.SetDocument(ctx, "users", "s1", repository.Document{"uid": "s1"}, false))

	all, err := repo.GetAllDocuments(ctx, "scores")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byScorer, err := repo.QueryDocuments(ctx, "scores", "scorerId", "s1")
	require.NoError(t, err)
	require.Len(t, byScorer, 2)
	assert.Equal(t, "a1_s1", byScorer[0].ID)
	assert.Equal(t, "a2_s1", byScorer[1].ID)

	byTotal, err := repo.QueryDocuments(ctx, "scores", "total", 5)
	require.NoError(t, err)
	assert.Len(t, byTotal, 2)

	none, err := repo.QueryDocuments(ctx, "scores", "missing", "x")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDocumentRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewDocumentRepository(newDB(t))

	assert.ErrorIs(t, repo.DeleteDocument(ctx, "users", "ghost"), apperror.ErrNotFound)

	require.NoError(t, repo.SetDocument(ctx, "users", "u1", repository.Document{"uid": "u1"}, false))
	require.NoError(t, repo.DeleteDocument(ctx, "users", "u1"))
	_, err := repo.GetDocument(ctx, "users", "u1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDocumentRepository_CommitBatch(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewDocumentRepository(newDB(t))
	require.NoError(t, repo.SetDocument(ctx, "scores", "old", repository.Document{"scorerId": "s1"}, false))

	err := repo.CommitBatch(ctx, []repository.BatchWrite{
		{Op: repository.BatchSet, Collection: "users", ID: "u1", Data: repository.Document{"uid": "u1"}},
		{Op: repository.BatchSet, Collection: "users", ID: "u2", Data: repository.Document{"uid": "u2"}},
		{Op: repository.BatchDelete, Collection: "scores", ID: "old"},
		{Op: repository.BatchDelete, Collection: "scores", ID: "never-existed"},
	})
	require.NoError(t, err)

	users, err := repo.GetAllDocuments(ctx, "users")
	require.NoError(t, err)
	assert.Len(t, users, 2)
	scores, err := repo.GetAllDocuments(ctx, "scores")
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestDocumentRepository_CommitBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewDocumentRepository(newDB(t))

	err := repo.CommitBatch(ctx, []repository.BatchWrite{
		{Op: repository.BatchSet, Collection: "users", ID: "u1", Data: repository.Document{"uid": "u1"}},
		{Op: "rename", Collection: "users", ID: "u1"},
	})
	require.Error(t, err)

	users, err := repo.GetAllDocuments(ctx, "users")
	require.NoError(t, err)
	assert.Empty(t, users, "a failed batch must not leave partial writes")
}

func TestLocalStorageRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLocalStorageRepository(newDB(t))

	_, ok, err := repo.GetItem(ctx, "users")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetItem(ctx, "users", `[{"uid":"u1"}]`))
	require.NoError(t, repo.SetItem(ctx, "users", `[{"uid":"u2"}]`))
	value, ok, err := repo.GetItem(ctx, "users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"uid":"u2"}]`, value)

	require.NoError(t, repo.RemoveItem(ctx, "users"))
	_, ok, err = repo.GetItem(ctx, "users")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIdentityRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewIdentityRepository(newDB(t))

	require.NoError(t, repo.Create(ctx, &repository.Identity{UID: "u1", Email: "Jo@Example.org", PasswordHash: "x"}))
	err := repo.Create(ctx, &repository.Identity{UID: "u2", Email: "jo@example.org", PasswordHash: "y"})
	assert.ErrorIs(t, err, apperror.ErrDuplicateAccount)

	found, err := repo.FindByEmail(ctx, "JO@example.org")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.UID)

	_, err = repo.FindByEmail(ctx, "nobody@example.org")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
