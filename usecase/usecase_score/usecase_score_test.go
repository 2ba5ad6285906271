package usecase_score

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/scorecatalog/mutopia-catalog/domain"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_interface"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_models"
	"github.com/scorecatalog/mutopia-catalog/logger"
	"github.com/scorecatalog/mutopia-catalog/mongo/mongotest"
	"github.com/scorecatalog/mutopia-catalog/repository/repository_score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

const testCollection = "pieces_metadata"

func newRepo() (score_interface.MusicalPieceRepository, *mongotest.Database) {
	db := mongotest.NewDatabase()
	return repository_score.NewMusicalPieceRepository(db, testCollection, logger.NewNop()), db
}

// fakeSource serves pieces keyed by page URL; a missing entry fails like a
// page without a metadata table.
type fakeSource struct {
	pages       []string
	pieces      map[string]score_models.MusicalPiece
	discoverErr error
	block       chan struct{}
}

func (s *fakeSource) DiscoverPieceURLs(ctx context.Context) ([]string, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.pages, s.discoverErr
}

func (s *fakeSource) ExtractPiece(_ context.Context, pageURL string) (*score_models.MusicalPiece, error) {
	p, ok := s.pieces[pageURL]
	if !ok {
		return nil, errors.New("no metadata table found on piece page")
	}
	return &p, nil
}

type fakeImages struct {
	link    string
	err     error
	queries []string
}

func (f *fakeImages) SearchImage(_ context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return f.link, f.err
}

type sleepRecorder struct {
	mu    sync.Mutex
	calls []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, d)
	return nil
}

func newRunner(source *fakeSource, images score_interface.ImageSearcher, repo score_interface.MusicalPieceRepository, rec *sleepRecorder) *IngestionRunner {
	r := NewIngestionRunner(context.Background(), source, images, repo, IngestionConfig{Delay: time.Second}, logger.NewNop())
	return r.WithSleep(rec.sleep)
}

func TestIngestionIsIdempotent(t *testing.T) {
	repo, db := newRepo()
	source := &fakeSource{
		pages:  []string{"p1"},
		pieces: map[string]score_models.MusicalPiece{"p1": {Title: "Sonata", MusicIDNumber: "123"}},
	}
	runner := newRunner(source, nil, repo, &sleepRecorder{})

	first, err := runner.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Inserted)

	second, err := runner.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 1, second.Duplicates)
	assert.NotEqual(t, first.RunID, second.RunID)

	assert.Len(t, db.Coll(testCollection).Docs(), 1)
}

func TestIngestionHonoursMaxPieces(t *testing.T) {
	repo, db := newRepo()
	source := &fakeSource{
		pages: []string{"p1", "p2", "p3"},
		pieces: map[string]score_models.MusicalPiece{
			"p1": {Title: "One", MusicIDNumber: "1"},
			"p2": {Title: "Two", MusicIDNumber: "2"},
			"p3": {Title: "Three", MusicIDNumber: "3"},
		},
	}
	runner := newRunner(source, nil, repo, &sleepRecorder{})

	report, err := runner.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.MaxPieces)
	assert.Equal(t, 1, report.Discovered)
	assert.Equal(t, 1, report.Inserted)
	assert.Len(t, db.Coll(testCollection).Docs(), 1)
}

func TestIngestionSkipsFailingPages(t *testing.T) {
	repo, db := newRepo()
	source := &fakeSource{pages: []string{"no-table"}}
	runner := newRunner(source, nil, repo, &sleepRecorder{})

	report, err := runner.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Inserted)
	assert.Empty(t, report.Error)
	assert.False(t, report.Running)
	require.NotNil(t, report.FinishedAt)
	assert.Empty(t, db.Coll(testCollection).Docs())
}

func TestIngestionDelayWaivedAfterDuplicateAndLastPage(t *testing.T) {
	repo, db := newRepo()
	db.Coll(testCollection).Seed(bson.M{"title": "Known", "music_id_number": "2"})
	source := &fakeSource{
		pages: []string{"p1", "p2", "broken", "p3"},
		pieces: map[string]score_models.MusicalPiece{
			"p1": {Title: "One", MusicIDNumber: "1"},
			"p2": {Title: "Two again", MusicIDNumber: "2"},
			"p3": {Title: "Three", MusicIDNumber: "3"},
		},
	}
	rec := &sleepRecorder{}
	runner := newRunner(source, nil, repo, rec)

	report, err := runner.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 4, report.Processed)
	// after p1 and after the broken page; not after the duplicate, not after the last page
	assert.Equal(t, []time.Duration{time.Second, time.Second}, rec.calls)
}

func TestIngestionImageAnnotationIsBestEffort(t *testing.T) {
	repo, _ := newRepo()
	source := &fakeSource{
		pages:  []string{"p1"},
		pieces: map[string]score_models.MusicalPiece{"p1": {Title: "Air", Style: "Baroque", Composer: "Bach", Instruments: "Violin"}},
	}
	images := &fakeImages{link: "https://img/air.jpg"}
	runner := newRunner(source, images, repo, &sleepRecorder{})

	_, err := runner.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Baroque Bach music sheet Violin"}, images.queries)

	stored, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "https://img/air.jpg", stored[0].ImageURL)

	repo2, _ := newRepo()
	failing := &fakeImages{err: fmt.Errorf("%w: quota", domain.ErrImageSearch)}
	report, err := newRunner(source, failing, repo2, &sleepRecorder{}).Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
}

func TestIngestionDiscoveryFailureIsReported(t *testing.T) {
	repo, _ := newRepo()
	source := &fakeSource{discoverErr: errors.New("status 503")}
	runner := newRunner(source, nil, repo, &sleepRecorder{})

	report, err := runner.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "status 503", report.Error)
	assert.False(t, report.Running)
}

func TestIngestionRejectsOverlappingRuns(t *testing.T) {
	repo, _ := newRepo()
	source := &fakeSource{block: make(chan struct{})}
	runner := newRunner(source, nil, repo, &sleepRecorder{})

	assert.Nil(t, runner.Status())

	started, err := runner.Start(0)
	require.NoError(t, err)
	assert.True(t, started.Running)

	again, err := runner.Start(5)
	assert.ErrorIs(t, err, domain.ErrScrapeRunning)
	require.NotNil(t, again)
	assert.Equal(t, started.RunID, again.RunID)

	close(source.block)
	runner.Wait()

	final := runner.Status()
	assert.False(t, final.Running)
	assert.Equal(t, started.RunID, final.RunID)

	next, err := runner.Start(0)
	require.NoError(t, err)
	assert.NotEqual(t, started.RunID, next.RunID)
	runner.Wait()
}

func TestDedupGatePrecedence(t *testing.T) {
	repo, db := newRepo()
	coll := db.Coll(testCollection)
	coll.Seed(
		bson.M{"_id": "by-music", "title": "A", "music_id_number": "1", "pdf_url": "https://x/a.pdf"},
		bson.M{"_id": "by-pdf", "title": "B", "pdf_url": "https://x/b.pdf"},
	)
	gate := NewDedupGate(repo)
	ctx := context.Background()

	before := coll.FindCalls
	existing, err := gate.Existing(ctx, &score_models.MusicalPiece{Title: "A2", MusicIDNumber: "1", PDFURL: "https://x/b.pdf"})
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, "by-music", existing.ID)
	assert.Equal(t, 1, coll.FindCalls-before, "no pdf lookup after a music id hit")

	existing, err = gate.Existing(ctx, &score_models.MusicalPiece{Title: "B2", MusicIDNumber: "9", PDFURL: "https://x/b.pdf"})
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, "by-pdf", existing.ID)

	_, err = gate.Admit(ctx, &score_models.MusicalPiece{Title: "B3", PDFURL: "https://x/b.pdf"})
	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "by-pdf", dup.ExistingID)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	id, err := gate.Admit(ctx, &score_models.MusicalPiece{Title: "New"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestMusicalPieceUsecase(t *testing.T) {
	repo, db := newRepo()
	db.Coll(testCollection).Seed(bson.M{"_id": "p-1", "title": "Prelude", "music_id_number": "77"})
	uc := NewMusicalPieceUsecase(repo, time.Second)
	ctx := context.Background()

	got, err := uc.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Prelude", got.Title)

	_, err = uc.GetByID(ctx, "p-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(ctx, &score_models.MusicalPiece{Title: "Prelude copy", MusicIDNumber: "77"})
	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "p-1", dup.ExistingID)

	_, err = uc.Create(ctx, &score_models.MusicalPiece{})
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)

	id, err := uc.Create(ctx, &score_models.MusicalPiece{ID: "client-chosen", Title: "Fresh", Notes: []score_models.NoteEvent{}})
	require.NoError(t, err)
	assert.NotEqual(t, "client-chosen", id)
	fresh, err := uc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, fresh.HasNotes())

	n, err := uc.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

type fakeTranscriber struct {
	mu    sync.Mutex
	calls int
	notes []score_models.NoteEvent
	err   error
}

func (f *fakeTranscriber) Transcribe(context.Context, string) ([]score_models.NoteEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.notes, f.err
}

type fakeInfo struct {
	text string
	err  error
}

func (f *fakeInfo) Describe(context.Context, string) (string, error) {
	return f.text, f.err
}

func TestGetNotes(t *testing.T) {
	repo, db := newRepo()
	db.Coll(testCollection).Seed(
		bson.M{"_id": "cached", "title": "C", "notes": bson.A{bson.M{"time": "0:0:0", "note": "C4", "duration": "4n", "velocity": 0.8}}},
		bson.M{"_id": "fresh", "title": "F", "pdf_url": "https://x/f.pdf"},
		bson.M{"_id": "nopdf", "title": "N"},
	)
	notes := []score_models.NoteEvent{{Time: "0:0:0", Note: "G4", Duration: "8n", Velocity: 0.5}}
	tr := &fakeTranscriber{notes: notes}
	uc := NewEnrichmentUsecase(repo, nil, tr, nil, time.Second, time.Second, logger.NewNop())
	ctx := context.Background()

	cached, err := uc.GetNotes(ctx, "cached")
	require.NoError(t, err)
	assert.Equal(t, "C4", cached[0].Note)
	assert.Zero(t, tr.calls)

	got, err := uc.GetNotes(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, notes, got)
	got, err = uc.GetNotes(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, notes, got)
	assert.Equal(t, 1, tr.calls, "second request is served from the cache")

	_, err = uc.GetNotes(ctx, "nopdf")
	assert.ErrorIs(t, err, domain.ErrPDFMissing)

	_, err = uc.GetNotes(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetNotesPropagatesModelErrors(t *testing.T) {
	repo, db := newRepo()
	db.Coll(testCollection).Seed(bson.M{"_id": "fresh", "title": "F", "pdf_url": "https://x/f.pdf"})
	tr := &fakeTranscriber{err: fmt.Errorf("%w: 500", domain.ErrModelUnavailable)}
	uc := NewEnrichmentUsecase(repo, nil, tr, nil, time.Second, time.Second, logger.NewNop())

	_, err := uc.GetNotes(context.Background(), "fresh")
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)

	piece, err := repo.GetByID(context.Background(), "fresh")
	require.NoError(t, err)
	assert.False(t, piece.HasNotes())

	noModel := NewEnrichmentUsecase(repo, nil, nil, nil, time.Second, time.Second, logger.NewNop())
	_, err = noModel.GetNotes(context.Background(), "fresh")
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestComposerAndPieceInfo(t *testing.T) {
	repo, _ := newRepo()
	images := &fakeImages{link: "https://img/chopin.jpg"}
	uc := NewEnrichmentUsecase(repo, &fakeInfo{text: "Polish composer."}, nil, images, time.Second, time.Second, logger.NewNop())
	ctx := context.Background()

	info, err := uc.ComposerInfo(ctx, "Chopin")
	require.NoError(t, err)
	assert.Equal(t, &score_models.ComposerPieceInfo{Info: "Polish composer.", ImageURL: "https://img/chopin.jpg"}, info)
	assert.Equal(t, []string{"Chopin"}, images.queries)

	piece, err := uc.PieceInfo(ctx, "Nocturne")
	require.NoError(t, err)
	assert.Equal(t, "Polish composer.", piece.Info)

	noImages := NewEnrichmentUsecase(repo, &fakeInfo{text: "x"}, nil, nil, time.Second, time.Second, logger.NewNop())
	_, err = noImages.ComposerInfo(ctx, "Chopin")
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)

	failing := NewEnrichmentUsecase(repo, &fakeInfo{err: domain.ErrModelUnavailable}, nil, images, time.Second, time.Second, logger.NewNop())
	_, err = failing.PieceInfo(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()

	repo, db := newRepo()
	skipped := NewHealthUsecase(db.Client(), repo, false, time.Second, logger.NewNop()).Check(ctx)
	assert.Equal(t, &score_models.HealthReport{Status: "ok", DB: "skipped"}, skipped)
	assert.Zero(t, db.FakeClient().Pings)

	uninit := NewHealthUsecase(nil, repo, true, time.Second, logger.NewNop()).Check(ctx)
	assert.Equal(t, "not_initialized", uninit.DB)

	empty := NewHealthUsecase(db.Client(), repo, true, time.Second, logger.NewNop()).Check(ctx)
	assert.Equal(t, "ok", empty.DB)
	require.NotNil(t, empty.Pieces)
	assert.Equal(t, "empty", empty.Pieces.Status)
	require.NotNil(t, empty.Pieces.Count)
	assert.Zero(t, *empty.Pieces.Count)

	db.Coll(testCollection).Seed(bson.M{"title": "x"})
	present := NewHealthUsecase(db.Client(), repo, true, time.Second, logger.NewNop()).Check(ctx)
	assert.Equal(t, "present", present.Pieces.Status)
	assert.EqualValues(t, 1, *present.Pieces.Count)

	db.FakeClient().PingErr = errors.New("no reachable servers")
	down := NewHealthUsecase(db.Client(), repo, true, time.Second, logger.NewNop()).Check(ctx)
	assert.Equal(t, "unhealthy", down.DB)
	assert.Equal(t, "unknown", down.Pieces.Status)
}
