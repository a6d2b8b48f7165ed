package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/db"
	"github.com/soundhaven/soundhaven/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestService creates a service with a test database
func setupTestService(t *testing.T) (*Service, *db.Repositories, func()) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)

	migrationsPath := "file://../../migrations"
	err = db.RunMigrations(sqlDB, migrationsPath)
	require.NoError(t, err)

	repos := db.NewRepositories(database)
	service := NewService(repos)

	cleanup := func() {
		_ = database.Close()
	}

	return service, repos, cleanup
}

func seedUser(t *testing.T, repos *db.Repositories) uuid.UUID {
	t.Helper()
	user := models.NewUser(uuid.NewString()+"@example.com", "Test User")
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user.ID
}

func seedTrack(t *testing.T, repos *db.Repositories) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	artist := models.NewArtist("Test Artist")
	require.NoError(t, repos.Artists.Create(ctx, artist))

	track := models.NewTrack("Track", artist.ID, 240_000)
	require.NoError(t, repos.Tracks.Create(ctx, track))
	return track.ID
}

func TestRecord_Success(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	track := seedTrack(t, repos)
	playContext := "playlist:road-trip"

	record, err := service.Record(ctx, user, track, &playContext)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.Equal(t, user, record.UserID)
	assert.Equal(t, track, record.TrackID)
	assert.Equal(t, &playContext, record.Context)
	assert.False(t, record.PlayedAt.IsZero())
}

func TestRecord_UnknownTrack(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	user := seedUser(t, repos)

	_, err := service.Record(context.Background(), user, uuid.New(), nil)

	assert.ErrorIs(t, err, ErrTrackNotFound)
}

func TestRecentlyPlayed_NewestFirst(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	track := seedTrack(t, repos)

	base := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		record := models.NewPlayHistory(user, track, nil)
		record.PlayedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repos.PlayHistory.Create(ctx, record))
	}

	records, err := service.RecentlyPlayed(ctx, user, 10, nil)

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[0].PlayedAt.After(records[1].PlayedAt))
	assert.True(t, records[1].PlayedAt.After(records[2].PlayedAt))
	assert.NotNil(t, records[0].Track)
}

func TestRecentlyPlayed_BeforeCursor(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	track := seedTrack(t, repos)

	base := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		record := models.NewPlayHistory(user, track, nil)
		record.PlayedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repos.PlayHistory.Create(ctx, record))
	}

	cursor := base.Add(2 * time.Hour)
	records, err := service.RecentlyPlayed(ctx, user, 10, &cursor)

	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.True(t, record.PlayedAt.Before(cursor))
	}
}

func TestRecentlyPlayed_LimitApplied(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	track := seedTrack(t, repos)

	for i := 0; i < 5; i++ {
		_, err := service.Record(ctx, user, track, nil)
		require.NoError(t, err)
	}

	records, err := service.RecentlyPlayed(ctx, user, 2, nil)

	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRecentlyPlayed_OtherUsersExcluded(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userA := seedUser(t, repos)
	userB := seedUser(t, repos)
	track := seedTrack(t, repos)

	_, err := service.Record(ctx, userA, track, nil)
	require.NoError(t, err)

	records, err := service.RecentlyPlayed(ctx, userB, 10, nil)

	require.NoError(t, err)
	assert.Empty(t, records)
}
