package hevysync

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/meltforce/liftlog/internal/models"
)

type StateDBSuite struct {
	suite.Suite
	state *StateDB
	clock time.Time
}

func (s *StateDBSuite) SetupTest() {
	state, err := OpenStateDB(s.T().TempDir())
	s.Require().NoError(err)
	s.clock = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	state.now = func() time.Time { return s.clock }
	s.state = state
}

func (s *StateDBSuite) TearDownTest() {
	s.Require().NoError(s.state.Close())
}

func (s *StateDBSuite) tick(d time.Duration) {
	s.clock = s.clock.Add(d)
}

func (s *StateDBSuite) TestNoSuccessfulRun() {
	_, ok, err := s.state.LastSuccessfulSync(context.Background())
	s.Require().NoError(err)
	s.Assert().False(ok)
}

func (s *StateDBSuite) TestLastSuccessfulSyncIgnoresFailures() {
	ctx := context.Background()

	ok1, err := s.state.StartRun(ctx, "")
	s.Require().NoError(err)
	s.Require().NoError(s.state.FinishRun(ctx, ok1, 10, 10, nil))
	firstStart := s.clock

	s.tick(time.Hour)
	failed, err := s.state.StartRun(ctx, firstStart.Format(time.RFC3339))
	s.Require().NoError(err)
	s.Require().NoError(s.state.FinishRun(ctx, failed, 0, 0, errors.New("boom")))

	last, ok, err := s.state.LastSuccessfulSync(ctx)
	s.Require().NoError(err)
	s.Assert().True(ok)
	s.Assert().True(last.Equal(firstStart), "last = %s, want %s", last, firstStart)
}

func (s *StateDBSuite) TestRunsNewestFirst() {
	ctx := context.Background()

	first, err := s.state.StartRun(ctx, "")
	s.Require().NoError(err)
	s.Require().NoError(s.state.FinishRun(ctx, first, 3, 2, nil))

	s.tick(500 * time.Millisecond)
	second, err := s.state.StartRun(ctx, "cursor")
	s.Require().NoError(err)

	runs, err := s.state.Runs(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(runs, 2)

	s.Assert().Equal(second, runs[0].ID)
	s.Assert().Equal(StatusRunning, runs[0].Status)
	s.Assert().Equal("cursor", runs[0].After)
	s.Assert().Nil(runs[0].FinishedAt)

	s.Assert().Equal(first, runs[1].ID)
	s.Assert().Equal(StatusSuccess, runs[1].Status)
	s.Assert().Equal(3, runs[1].EntriesReceived)
	s.Assert().Equal(int64(2), runs[1].EntriesInserted)
	s.Assert().NotNil(runs[1].FinishedAt)
}

func (s *StateDBSuite) TestFailedRunKeepsMessage() {
	ctx := context.Background()
	id, err := s.state.StartRun(ctx, "")
	s.Require().NoError(err)
	s.Require().NoError(s.state.FinishRun(ctx, id, 0, 0, errors.New("unauthorized: bad key")))

	runs, err := s.state.Runs(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(runs, 1)
	s.Assert().Equal(StatusError, runs[0].Status)
	s.Assert().Equal("unauthorized: bad key", runs[0].Error)
}

func (s *StateDBSuite) TestFinishUnknownRun() {
	err := s.state.FinishRun(context.Background(), uuid.New(), 0, 0, nil)
	s.Assert().Error(err)
}

type stubFetcher struct {
	entries []models.WorkoutEntry
	err     error
	after   []string
}

func (f *stubFetcher) FetchWorkouts(_ context.Context, after string) ([]models.WorkoutEntry, error) {
	f.after = append(f.after, after)
	return f.entries, f.err
}

type memStore struct{ rows []models.EntryRow }

func (m *memStore) InsertEntries(_ context.Context, rows []models.EntryRow) (int64, error) {
	m.rows = append(m.rows, rows...)
	return int64(len(rows)), nil
}

func (s *StateDBSuite) TestSyncerUsesCursor() {
	ctx := context.Background()
	fetcher := &stubFetcher{entries: []models.WorkoutEntry{
		{Date: "2024-03-01", Exercise: "Squat (Barbell)", Weight: models.Float(100), Reps: models.Int(5), Raw: models.RawRow{Source: Source}},
	}}
	store := &memStore{}
	syncer := NewSyncer(fetcher, s.state, store, slog.New(slog.DiscardHandler))

	res, err := syncer.Run(ctx, 1)
	s.Require().NoError(err)
	s.Assert().Equal(int64(1), res.EntriesInserted)
	s.Assert().Equal(1, res.RowsReceived)
	s.Require().Len(store.rows, 1)
	s.Assert().Equal(res.ImportID, store.rows[0].ImportID)

	s.tick(time.Hour)
	_, err = syncer.Run(ctx, 1)
	s.Require().NoError(err)

	s.Require().Len(fetcher.after, 2)
	s.Assert().Equal("", fetcher.after[0])
	s.Assert().Equal("2024-03-01T12:00:00Z", fetcher.after[1])
}

func (s *StateDBSuite) TestSyncerRecordsFailure() {
	ctx := context.Background()
	fetcher := &stubFetcher{err: ErrForbidden}
	syncer := NewSyncer(fetcher, s.state, &memStore{}, slog.New(slog.DiscardHandler))

	_, err := syncer.Run(ctx, 1)
	s.Require().ErrorIs(err, ErrForbidden)

	runs, err := syncer.Runs(ctx, 5)
	s.Require().NoError(err)
	s.Require().Len(runs, 1)
	s.Assert().Equal(StatusError, runs[0].Status)

	_, ok, err := s.state.LastSuccessfulSync(ctx)
	s.Require().NoError(err)
	s.Assert().False(ok)
}

func TestStateDBSuite(t *testing.T) {
	suite.Run(t, new(StateDBSuite))
}
