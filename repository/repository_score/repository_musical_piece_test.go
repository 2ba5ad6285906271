package repository_score

import (
	"context"
	"errors"
	"testing"

	"github.com/scorecatalog/mutopia-catalog/domain"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_models"
	"github.com/scorecatalog/mutopia-catalog/logger"
	"github.com/scorecatalog/mutopia-catalog/mongo/mongotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMusicalPieceLookups(t *testing.T) {
	db := mongotest.NewDatabase()
	coll := db.Coll("pieces")
	coll.Seed(
		bson.M{"title": "Nocturne", "composer": "Chopin, Frédéric", "style": "Romantic", "instruments": "Piano", "music_id_number": "123", "pdf_url": "https://x/a4/noct.pdf"},
		bson.M{"title": "Invention", "composer": "J. S. Bach", "style": "Baroque", "instruments": "Harpsichord, Piano", "music_id_number": "456"},
	)
	repo := NewMusicalPieceRepository(db, "pieces", logger.NewNop())
	ctx := context.Background()

	byID, err := repo.GetByMusicIDNumber(ctx, "123")
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "Nocturne", byID.Title)

	byPDF, err := repo.GetByPDFURL(ctx, "https://x/a4/noct.pdf")
	require.NoError(t, err)
	require.NotNil(t, byPDF)
	assert.Equal(t, "123", byPDF.MusicIDNumber)

	none, err := repo.GetByMusicIDNumber(ctx, "999")
	require.NoError(t, err)
	assert.Nil(t, none)

	composers, err := repo.GetByComposer(ctx, "bach")
	require.NoError(t, err)
	require.Len(t, composers, 1)
	assert.Equal(t, "Invention", composers[0].Title)

	found, err := repo.Search(ctx, "piano")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	styles, err := repo.GetAllStyles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Baroque", "Romantic"}, styles)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestMusicalPieceCountMatchesListing(t *testing.T) {
	db := mongotest.NewDatabase()
	db.Coll("pieces").Seed(
		bson.M{"title": "Valid"},
		bson.M{"title": "   "},
		bson.M{"composer": "no title"},
	)
	repo := NewMusicalPieceRepository(db, "pieces", logger.NewNop())
	ctx := context.Background()

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	count, err := repo.Count(ctx)
	require.NoError(t, err)

	assert.Len(t, all, 1)
	assert.EqualValues(t, len(all), count)
}

func TestMusicalPieceSearchSurfacesIterationFailure(t *testing.T) {
	db := mongotest.NewDatabase()
	coll := db.Coll("pieces")
	coll.Seed(bson.M{"title": "Nocturne"}, bson.M{"title": "Nocturne II"})
	coll.IterateErr = errors.New("network timeout")
	coll.IterateErrAfter = 1
	repo := NewMusicalPieceRepository(db, "pieces", logger.NewNop())

	_, err := repo.Search(context.Background(), "nocturne")
	assert.ErrorContains(t, err, "network timeout")
}

func TestMusicalPieceStyleIgnoresCasing(t *testing.T) {
	db := mongotest.NewDatabase()
	db.Coll("pieces").Seed(
		bson.M{"title": "Blue", "style": "Jazz"},
		bson.M{"title": "Green", "style": "jazz"},
	)
	repo := NewMusicalPieceRepository(db, "pieces", logger.NewNop())

	lower, err := repo.GetByStyle(context.Background(), "jazz")
	require.NoError(t, err)
	upper, err := repo.GetByStyle(context.Background(), "JAZZ")
	require.NoError(t, err)
	assert.Len(t, lower, 2)
	assert.Len(t, upper, 2)
}

func TestUpdateNotes(t *testing.T) {
	db := mongotest.NewDatabase()
	repo := NewMusicalPieceRepository(db, "pieces", logger.NewNop())
	ctx := context.Background()

	id, err := repo.Insert(ctx, &score_models.MusicalPiece{Title: "Minuet", PDFURL: "https://x/m.pdf"})
	require.NoError(t, err)

	notes := []score_models.NoteEvent{
		{Time: "0:0:0", Note: "C4", Duration: "8n", Velocity: 0.8},
		{Time: "0:0:2", Note: "E4", Duration: "8n", Velocity: 0.7},
	}
	require.NoError(t, repo.UpdateNotes(ctx, id, notes))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, notes, got.Notes)
	assert.True(t, got.HasNotes())

	err = repo.UpdateNotes(ctx, "nope", notes)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
