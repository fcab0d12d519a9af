// ABOUTME: Shared behavioural tests for Repository implementations
// ABOUTME: Every backend must pass the same suite

package storage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/harper/tiers/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boundaryRow struct {
	Time  float64
	Label string
}

func tierRows(t *models.Tier) []boundaryRow {
	var out []boundaryRow
	for _, p := range t.Positions() {
		out = append(out, boundaryRow{p.Time, p.Label})
	}
	return out
}

// sampleAnnotation builds an annotation with one interval and one point tier.
func sampleAnnotation(t *testing.T, name string) *models.Annotation {
	t.Helper()
	a := models.NewAnnotation(name, 0, 2)

	words, err := a.AddTier("words", models.IntervalTier)
	require.NoError(t, err)
	_, _, err = words.InsertInterval(0, 0.8, "hello")
	require.NoError(t, err)
	_, _, err = words.InsertInterval(0.8, 1.5, "world")
	require.NoError(t, err)

	tones, err := a.AddTier("tones", models.PointTier)
	require.NoError(t, err)
	_, err = tones.AddPoint(0.3, "H*")
	require.NoError(t, err)
	_, err = tones.AddPoint(1.4, "L%")
	require.NoError(t, err)
	return a
}

func runRepositoryTests(t *testing.T, open func(t *testing.T) Repository) {
	t.Run("CreateAndGet", func(t *testing.T) {
		repo := open(t)
		a := sampleAnnotation(t, "rec1")
		require.NoError(t, repo.CreateAnnotation(a))

		got, err := repo.GetAnnotationByID(a.ID)
		require.NoError(t, err)
		assert.Equal(t, "rec1", got.Name)
		assert.Equal(t, 2.0, got.End)
		require.Len(t, got.Tiers, 2)
		assert.Equal(t, "words", got.Tiers[0].Name)
		assert.Equal(t, a.Tiers[0].ID, got.Tiers[0].ID)
		assert.Equal(t, tierRows(a.Tiers[0]), tierRows(got.Tiers[0]))
		assert.Equal(t, tierRows(a.Tiers[1]), tierRows(got.Tiers[1]))

		byName, err := repo.GetAnnotationByName("rec1")
		require.NoError(t, err)
		assert.Equal(t, a.ID, byName.ID)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		repo := open(t)
		require.NoError(t, repo.CreateAnnotation(models.NewAnnotation("dup", 0, 1)))
		err := repo.CreateAnnotation(models.NewAnnotation("dup", 0, 1))
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := open(t)
		_, err := repo.GetAnnotationByID(uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.GetAnnotationByName("nope")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.DeleteAnnotation(uuid.New()), ErrNotFound)
		assert.ErrorIs(t, repo.SaveTier(uuid.New(), models.NewPointTier("p", 0, 1)), ErrNotFound)
	})

	t.Run("ListSortedByName", func(t *testing.T) {
		repo := open(t)
		require.NoError(t, repo.CreateAnnotation(models.NewAnnotation("zeta", 0, 1)))
		require.NoError(t, repo.CreateAnnotation(sampleAnnotation(t, "alpha")))

		list, err := repo.ListAnnotations()
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "alpha", list[0].Name)
		assert.Equal(t, "zeta", list[1].Name)
		assert.Len(t, list[0].Tiers, 2)
	})

	t.Run("SaveTierReplacesMarkers", func(t *testing.T) {
		repo := open(t)
		a := sampleAnnotation(t, "edit")
		require.NoError(t, repo.CreateAnnotation(a))

		words := a.Tiers[0]
		_, err := words.RemoveBoundaryAt(2)
		require.NoError(t, err)
		require.NoError(t, repo.SaveTier(a.ID, words))

		got, err := repo.GetAnnotationByID(a.ID)
		require.NoError(t, err)
		assert.Equal(t, []boundaryRow{{0, "hello"}, {0.8, "world"}, {2, ""}}, tierRows(got.Tiers[0]))
	})

	t.Run("SaveTierAddsNewTier", func(t *testing.T) {
		repo := open(t)
		a := sampleAnnotation(t, "grow")
		require.NoError(t, repo.CreateAnnotation(a))

		phones, err := a.AddTier("phones", models.IntervalTier)
		require.NoError(t, err)
		_, err = phones.SplitAt(1, "b")
		require.NoError(t, err)
		require.NoError(t, repo.SaveTier(a.ID, phones))

		got, err := repo.GetAnnotationByID(a.ID)
		require.NoError(t, err)
		require.Len(t, got.Tiers, 3)
		assert.Equal(t, "phones", got.Tiers[2].Name)
		assert.Equal(t, 3, got.Tiers[2].Len())
	})

	t.Run("SaveTierDuplicateName", func(t *testing.T) {
		repo := open(t)
		a := sampleAnnotation(t, "clash")
		require.NoError(t, repo.CreateAnnotation(a))

		err := repo.SaveTier(a.ID, models.NewPointTier("words", 0, 2))
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("DeleteTier", func(t *testing.T) {
		repo := open(t)
		a := sampleAnnotation(t, "shrink")
		require.NoError(t, repo.CreateAnnotation(a))

		require.NoError(t, repo.DeleteTier(a.ID, a.Tiers[1].ID))
		assert.ErrorIs(t, repo.DeleteTier(a.ID, a.Tiers[1].ID), ErrNotFound)

		got, err := repo.GetAnnotationByID(a.ID)
		require.NoError(t, err)
		require.Len(t, got.Tiers, 1)
		assert.Equal(t, "words", got.Tiers[0].Name)
	})

	t.Run("DeleteAnnotation", func(t *testing.T) {
		repo := open(t)
		a := sampleAnnotation(t, "gone")
		require.NoError(t, repo.CreateAnnotation(a))
		require.NoError(t, repo.DeleteAnnotation(a.ID))

		_, err := repo.GetAnnotationByName("gone")
		assert.ErrorIs(t, err, ErrNotFound)

		// The name is free again.
		require.NoError(t, repo.CreateAnnotation(models.NewAnnotation("gone", 0, 1)))
	})

	t.Run("Reset", func(t *testing.T) {
		repo := open(t)
		require.NoError(t, repo.CreateAnnotation(sampleAnnotation(t, "a")))
		require.NoError(t, repo.Reset())

		list, err := repo.ListAnnotations()
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
