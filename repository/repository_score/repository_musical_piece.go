package repository_score

import (
	"context"
	"fmt"
	"regexp"

	"github.com/scorecatalog/mutopia-catalog/domain"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_interface"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_models"
	"github.com/scorecatalog/mutopia-catalog/logger"
	"github.com/scorecatalog/mutopia-catalog/mongo"
	"github.com/scorecatalog/mutopia-catalog/repository"
	"go.mongodb.org/mongo-driver/bson"
)

type musicalPieceRepository struct {
	base *repository.BaseMongoRepository[score_models.MusicalPiece, *score_models.MusicalPiece]
}

func NewMusicalPieceRepository(db mongo.Database, collection string, log *logger.Logger) score_interface.MusicalPieceRepository {
	return &musicalPieceRepository{
		base: repository.NewBaseMongoRepository[score_models.MusicalPiece, *score_models.MusicalPiece](db, collection, log),
	}
}

func (r *musicalPieceRepository) Insert(ctx context.Context, piece *score_models.MusicalPiece) (string, error) {
	return r.base.Insert(ctx, piece)
}

func (r *musicalPieceRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.base.DeleteAll(ctx)
}

func (r *musicalPieceRepository) GetByID(ctx context.Context, id string) (*score_models.MusicalPiece, error) {
	return r.base.FindByID(ctx, id)
}

func (r *musicalPieceRepository) GetByMusicIDNumber(ctx context.Context, musicID string) (*score_models.MusicalPiece, error) {
	return r.base.FindByField(ctx, "music_id_number", musicID)
}

func (r *musicalPieceRepository) GetByPDFURL(ctx context.Context, pdfURL string) (*score_models.MusicalPiece, error) {
	return r.base.FindByField(ctx, "pdf_url", pdfURL)
}

func (r *musicalPieceRepository) GetAll(ctx context.Context) ([]*score_models.MusicalPiece, error) {
	return r.base.FindAll(ctx)
}

func (r *musicalPieceRepository) GetByTitle(ctx context.Context, title string) ([]*score_models.MusicalPiece, error) {
	return r.base.FindByFieldContains(ctx, "title", title)
}

func (r *musicalPieceRepository) GetByComposer(ctx context.Context, composer string) ([]*score_models.MusicalPiece, error) {
	return r.base.FindByFieldContains(ctx, "composer", composer)
}

func (r *musicalPieceRepository) GetByStyle(ctx context.Context, style string) ([]*score_models.MusicalPiece, error) {
	return r.base.FindByFieldVariants(ctx, "style", style)
}

func (r *musicalPieceRepository) GetByInstrument(ctx context.Context, instrument string) ([]*score_models.MusicalPiece, error) {
	return r.base.FindByFieldVariants(ctx, "instruments", instrument)
}

// Search matches query anywhere in the descriptive fields, ignoring case.
func (r *musicalPieceRepository) Search(ctx context.Context, query string) ([]*score_models.MusicalPiece, error) {
	pattern := bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"composer": pattern},
		bson.M{"style": pattern},
		bson.M{"instruments": pattern},
		bson.M{"opus": pattern},
	}}
	return r.base.FindByFilter(ctx, filter)
}

// Count reports the number of valid pieces, matching what GetAll lists.
func (r *musicalPieceRepository) Count(ctx context.Context) (int64, error) {
	return r.base.CountValid(ctx, bson.M{})
}

func (r *musicalPieceRepository) GetAllStyles(ctx context.Context) ([]string, error) {
	return r.base.Distinct(ctx, "style")
}

func (r *musicalPieceRepository) GetAllInstruments(ctx context.Context) ([]string, error) {
	return r.base.Distinct(ctx, "instruments")
}

func (r *musicalPieceRepository) GetAllComposers(ctx context.Context) ([]string, error) {
	return r.base.Distinct(ctx, "composer")
}

// UpdateNotes caches a transcription on the piece.
func (r *musicalPieceRepository) UpdateNotes(ctx context.Context, id string, notes []score_models.NoteEvent) error {
	matched, err := r.base.UpdateFieldsByID(ctx, id, bson.M{"notes": notes})
	if err != nil {
		return err
	}
	if !matched {
		return fmt.Errorf("piece %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
