package repository

import (
	"testing"
	"time"

	"looppilot/internal/sequence/domain"
	"looppilot/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Template{}, &domain.Sequence{}))
	return db
}

func TestTemplateCreate_SingleDefault(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTemplateRepository(db)

	first := &domain.Template{UserID: "u1", Name: "first", Body: "b", IsDefault: true}
	require.NoError(t, repo.Create(first))
	other := &domain.Template{UserID: "u2", Name: "other", Body: "b", IsDefault: true}
	require.NoError(t, repo.Create(other))
	time.Sleep(5 * time.Millisecond)
	second := &domain.Template{UserID: "u1", Name: "second", Body: "b", IsDefault: true,
		Placeholders: datatypes.NewJSONSlice([]string{"first_name"})}
	require.NoError(t, repo.Create(second))

	templates, err := repo.FindByUserID("u1")
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "second", templates[0].Name)
	assert.True(t, templates[0].IsDefault)
	assert.Equal(t, []string{"first_name"}, []string(templates[0].Placeholders))
	assert.False(t, templates[1].IsDefault)

	// Other users keep their default.
	others, err := repo.FindByUserID("u2")
	require.NoError(t, err)
	assert.True(t, others[0].IsDefault)
}

func TestTemplateCountOwned(t *testing.T) {
	repo := NewGormTemplateRepository(newTestDB(t))
	mine := &domain.Template{UserID: "u1", Name: "a", Body: "b"}
	theirs := &domain.Template{UserID: "u2", Name: "a", Body: "b"}
	require.NoError(t, repo.Create(mine))
	require.NoError(t, repo.Create(theirs))

	n, err := repo.CountOwned("u1", []string{mine.ID, theirs.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.CountOwned("u1", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSequenceLifecycle(t *testing.T) {
	repo := NewGormSequenceRepository(newTestDB(t))

	seq := &domain.Sequence{UserID: "u1", Name: "nudge", Steps: datatypes.NewJSONSlice([]domain.SequenceStep{
		{DayOffset: 3, TemplateID: "t1"},
		{DayOffset: 7, TemplateID: "t2"},
	})}
	require.NoError(t, repo.Create(seq))
	require.NotEmpty(t, seq.ID)

	got, err := repo.FindByID("u1", seq.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Steps, 2)
	assert.Equal(t, 7, got.Steps[1].DayOffset)

	hidden, err := repo.FindByID("u2", seq.ID)
	require.NoError(t, err)
	assert.Nil(t, hidden)

	got.Name = "renamed"
	require.NoError(t, repo.Update(got))
	list, err := repo.FindByUserID("u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "renamed", list[0].Name)

	deleted, err := repo.Delete("u2", seq.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.Delete("u1", seq.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}
