package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eolos-vlc/eolos-backend/internal/database"
	"github.com/eolos-vlc/eolos-backend/internal/events"
	"github.com/eolos-vlc/eolos-backend/internal/metrics"
	"github.com/eolos-vlc/eolos-backend/internal/models"
	"github.com/eolos-vlc/eolos-backend/internal/repository"
	"github.com/eolos-vlc/eolos-backend/internal/service"
	"github.com/eolos-vlc/eolos-backend/internal/spatial"
	"github.com/eolos-vlc/eolos-backend/internal/testutil"
)

var (
	posA     = spatial.NewPosition(testutil.StationAPos[0], testutil.StationAPos[1])
	posB     = spatial.NewPosition(testutil.StationBPos[0], testutil.StationBPos[1])
	posNoFix = spatial.NewPosition(0, 0)
	t0       = time.Date(2025, 5, 20, 8, 30, 0, 0, time.UTC)
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	db        *database.DB
	store     *repository.Store
	svc       *service.TripService
	publisher *recordingPublisher
	metrics   *metrics.Collector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	testutil.Seed(t, db)

	pub := &recordingPublisher{}
	m := metrics.NewCollector()
	svc := service.NewTripService(
		repository.NewTxManager(db),
		spatial.NewMatcher(spatial.DefaultMatchThresholdMeters, spatial.EarthRadiusKm),
		service.WithPublisher(pub),
		service.WithMetrics(m),
	)
	return &fixture{db: db, store: repository.NewStore(db), svc: svc, publisher: pub, metrics: m}
}

func (f *fixture) countTrips(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM trips").Scan(&n))
	return n
}

func (f *fixture) startTrip(t *testing.T) string {
	t.Helper()
	id, err := f.svc.StartTrip(context.Background(), testutil.CardID, testutil.BicycleID, t0, posA)
	require.NoError(t, err)
	return id
}

func (f *fixture) record(t *testing.T, tripID string, at time.Time, pos spatial.Position) {
	t.Helper()
	_, err := f.svc.RecordMeasurement(context.Background(), models.Measurement{
		BoardID:   testutil.BoardID,
		TripID:    tripID,
		Timestamp: at,
		Kind:      models.KindPM25,
		Value:     10,
		Position:  pos,
	})
	require.NoError(t, err)
}

func TestStartTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.startTrip(t)
	require.NotEmpty(t, id)

	trip, err := f.store.FindTrip(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, trip)
	assert.Equal(t, testutil.UserID, trip.UserID)
	assert.Equal(t, testutil.BicycleID, trip.BicycleID)
	assert.Equal(t, t0, trip.StartTime)
	require.NotNil(t, trip.OriginStationID)
	assert.Equal(t, testutil.StationA, *trip.OriginStationID)
	assert.False(t, trip.IsClosed())
	assert.Nil(t, trip.TotalDistanceMeters)

	assert.Equal(t, []events.Type{events.TripStarted}, f.publisher.types())
}

func TestStartTrip_NoOriginMatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.StartTrip(context.Background(), testutil.CardID, testutil.BicycleID, t0, posNoFix)
	require.Error(t, err)
	assert.True(t, service.IsValidation(err))
	assert.ErrorIs(t, err, service.ErrNoStationMatch)
	assert.Equal(t, 0, f.countTrips(t))
	assert.Empty(t, f.publisher.types())
}

func TestStartTrip_UnknownCard(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.StartTrip(context.Background(), "no-such-card", testutil.BicycleID, t0, posA)
	assert.True(t, service.IsValidation(err))
	assert.ErrorIs(t, err, service.ErrUserNotFound)
	assert.Equal(t, 0, f.countTrips(t))
}

func TestRecordMeasurement_BlindAppend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m := models.Measurement{
		BoardID:   testutil.BoardID,
		TripID:    "trip-that-does-not-exist",
		Timestamp: t0,
		Kind:      models.KindTemperature,
		Value:     21.5,
		Position:  posA,
	}

	first, err := f.svc.RecordMeasurement(ctx, m)
	require.NoError(t, err)
	second, err := f.svc.RecordMeasurement(ctx, m)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	stored, err := f.store.ListMeasurementsForTrip(ctx, m.TripID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestRecordMeasurement_UnknownKind(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordMeasurement(context.Background(), models.Measurement{
		TripID: "t", BoardID: testutil.BoardID, Kind: "radon", Timestamp: t0,
	})
	assert.True(t, service.IsValidation(err))
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestTripPath_NoMeasurementsIsZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path := service.NewTripPath(f.store, spatial.EarthRadiusKm)

	positions, err := path.Positions(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, positions)

	d, err := path.TotalDistance(ctx, "empty")
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)

	f.record(t, "single", t0, posA)
	d, err = path.TotalDistance(ctx, "single")
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestTripPath_SortsByTimestamp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := posA
	p2 := spatial.NewPosition(39.4720, -0.3763)
	p3 := spatial.NewPosition(39.4720, -0.3700)

	// inserted t3, t1, t2
	f.record(t, "trip", t0.Add(2*time.Minute), p3)
	f.record(t, "trip", t0, p1)
	f.record(t, "trip", t0.Add(time.Minute), p2)

	path := service.NewTripPath(f.store, spatial.EarthRadiusKm)
	positions, err := path.Positions(ctx, "trip")
	require.NoError(t, err)
	assert.Equal(t, []spatial.Position{p1, p2, p3}, positions)

	d, err := path.TotalDistance(ctx, "trip")
	require.NoError(t, err)
	assert.InDelta(t, spatial.Distance(p1, p2)+spatial.Distance(p2, p3), d, 1e-6)
}

func TestTripPath_SubMillisecondOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := posA
	p2 := spatial.NewPosition(39.4720, -0.3763)
	p3 := spatial.NewPosition(39.4720, -0.3700)

	// readings one microsecond apart, inserted t3, t1, t2
	f.record(t, "burst", t0.Add(2*time.Microsecond), p3)
	f.record(t, "burst", t0, p1)
	f.record(t, "burst", t0.Add(time.Microsecond), p2)

	path := service.NewTripPath(f.store, spatial.EarthRadiusKm)
	positions, err := path.Positions(ctx, "burst")
	require.NoError(t, err)
	assert.Equal(t, []spatial.Position{p1, p2, p3}, positions)

	d, err := path.TotalDistance(ctx, "burst")
	require.NoError(t, err)
	assert.InDelta(t, spatial.Distance(p1, p2)+spatial.Distance(p2, p3), d, 1e-6)
}

func TestCloseTrip_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.startTrip(t)
	f.record(t, id, t0.Add(time.Minute), posA)
	f.record(t, id, t0.Add(2*time.Minute), posB)

	end := t0.Add(3 * time.Minute)
	closed, err := f.svc.CloseTrip(ctx, id, end, posB)
	require.NoError(t, err)
	require.NotNil(t, closed)

	trip, err := f.store.FindTrip(ctx, id)
	require.NoError(t, err)
	require.True(t, trip.IsClosed())
	assert.Equal(t, end, *trip.EndTime)
	assert.Equal(t, testutil.StationA, *trip.OriginStationID)
	assert.Equal(t, testutil.StationB, *trip.DestinationStationID)
	assert.Greater(t, *trip.TotalDistanceMeters, 0.0)
	assert.Less(t, *trip.TotalDistanceMeters, 20.0)
	assert.InDelta(t, spatial.Distance(posA, posB), *trip.TotalDistanceMeters, 1e-6)

	assert.Equal(t, []events.Type{events.TripStarted, events.TripClosed}, f.publisher.types())
}

func TestCloseTrip_NoDestinationMatchLeavesTripOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.startTrip(t)
	f.record(t, id, t0.Add(time.Minute), posA)

	_, err := f.svc.CloseTrip(ctx, id, t0.Add(time.Hour), posNoFix)
	assert.True(t, service.IsValidation(err))
	assert.ErrorIs(t, err, service.ErrNoStationMatch)

	trip, err := f.store.FindTrip(ctx, id)
	require.NoError(t, err)
	assert.False(t, trip.IsClosed())
	assert.Nil(t, trip.DestinationStationID)
	assert.Nil(t, trip.TotalDistanceMeters)
}

func TestCloseTrip_UnknownTrip(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CloseTrip(context.Background(), "missing", t0, posB)
	assert.True(t, service.IsValidation(err))
	assert.ErrorIs(t, err, service.ErrTripNotFound)
}

func TestCloseTrip_Twice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.startTrip(t)
	first, err := f.svc.CloseTrip(ctx, id, t0.Add(time.Minute), posB)
	require.NoError(t, err)

	_, err = f.svc.CloseTrip(ctx, id, t0.Add(time.Hour), posA)
	assert.True(t, service.IsValidation(err))
	assert.ErrorIs(t, err, service.ErrTripClosed)

	trip, err := f.store.FindTrip(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, *first.EndTime, *trip.EndTime)
	assert.Equal(t, testutil.StationB, *trip.DestinationStationID)
}

func TestCloseTrip_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.startTrip(t)

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		closedErr int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.CloseTrip(ctx, id, t0.Add(time.Duration(i+1)*time.Minute), posB)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, service.ErrTripClosed):
				closedErr++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, closedErr)
}

func TestTripParticipants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.startTrip(t)
	p, err := f.svc.TripParticipants(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, testutil.UserID, p.UserID)
	assert.Equal(t, testutil.BoardID, p.BoardID)

	_, err = f.svc.TripParticipants(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrTripNotFound)

	bare, err := f.svc.StartTrip(ctx, testutil.CardID, testutil.BareBicycleID, t0, posA)
	require.NoError(t, err)
	_, err = f.svc.TripParticipants(ctx, bare)
	assert.True(t, service.IsValidation(err))
	assert.ErrorIs(t, err, service.ErrBoardNotFound)
}

func TestUpdateBoardStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	later := t0.Add(time.Hour)
	require.NoError(t, f.svc.UpdateBoardStatus(ctx, testutil.BoardID, "charging", later))

	board, err := f.store.FindBoard(ctx, testutil.BoardID)
	require.NoError(t, err)
	assert.Equal(t, "charging", board.Status)
	assert.Equal(t, later, *board.LastStatusUpdate)

	// an older timestamp still overwrites
	require.NoError(t, f.svc.UpdateBoardStatus(ctx, testutil.BoardID, "active", t0))
	board, err = f.store.FindBoard(ctx, testutil.BoardID)
	require.NoError(t, err)
	assert.Equal(t, "active", board.Status)
	assert.Equal(t, t0, *board.LastStatusUpdate)

	err = f.svc.UpdateBoardStatus(ctx, "missing", "active", t0)
	assert.ErrorIs(t, err, service.ErrBoardNotFound)
}

func TestUpdateBicycleStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bike, err := f.svc.UpdateBicycleStatus(ctx, testutil.BicycleID, posB, models.BicycleParked)
	require.NoError(t, err)
	require.NotNil(t, bike.StationID)
	assert.Equal(t, testutil.StationB, *bike.StationID)

	// between stations: no match, status still applied
	bike, err = f.svc.UpdateBicycleStatus(ctx, testutil.BicycleID, posNoFix, models.BicycleInUse)
	require.NoError(t, err)
	assert.Nil(t, bike.StationID)

	stored, err := f.store.FindBicycle(ctx, testutil.BicycleID)
	require.NoError(t, err)
	assert.Nil(t, stored.StationID)
	assert.Equal(t, models.BicycleInUse, stored.Status)

	_, err = f.svc.UpdateBicycleStatus(ctx, "missing", posA, models.BicycleParked)
	assert.ErrorIs(t, err, service.ErrBicycleNotFound)

	_, err = f.svc.UpdateBicycleStatus(ctx, testutil.BicycleID, posA, "flying")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestCheckStationMatch_ReadOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.startTrip(t)

	tripBefore, _ := f.store.FindTrip(ctx, id)
	bikeBefore, _ := f.store.FindBicycle(ctx, testutil.BicycleID)
	boardBefore, _ := f.store.FindBoard(ctx, testutil.BoardID)

	got, err := f.svc.CheckStationMatch(ctx, posA)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, testutil.StationA, *got)

	got, err = f.svc.CheckStationMatch(ctx, posNoFix)
	require.NoError(t, err)
	assert.Nil(t, got)

	tripAfter, _ := f.store.FindTrip(ctx, id)
	bikeAfter, _ := f.store.FindBicycle(ctx, testutil.BicycleID)
	boardAfter, _ := f.store.FindBoard(ctx, testutil.BoardID)
	assert.Equal(t, tripBefore, tripAfter)
	assert.Equal(t, bikeBefore, bikeAfter)
	assert.Equal(t, boardBefore, boardAfter)
}

type failingTx struct{ err error }

func (f failingTx) WithinTx(context.Context, func(service.Store) error) error { return f.err }

func TestInfrastructureErrorsAreDistinct(t *testing.T) {
	diskFull := errors.New("disk full")
	svc := service.NewTripService(failingTx{err: diskFull}, nil)

	_, err := svc.StartTrip(context.Background(), testutil.CardID, testutil.BicycleID, t0, posA)
	require.Error(t, err)
	assert.True(t, service.IsInfrastructure(err))
	assert.False(t, service.IsValidation(err))
	assert.ErrorIs(t, err, diskFull)

	_, err = svc.CheckStationMatch(context.Background(), posA)
	assert.True(t, service.IsInfrastructure(err))
}
