package library

import (
	"context"
	"path/filepath"
	"testing"

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

func seedTracks(t *testing.T, repos *db.Repositories, n int) []uuid.UUID {
	t.Helper()
	ctx := context.Background()

	artist := models.NewArtist("Test Artist")
	require.NoError(t, repos.Artists.Create(ctx, artist))

	ids := make([]uuid.UUID, n)
	for i := range ids {
		track := models.NewTrack("Track", artist.ID, 200_000)
		require.NoError(t, repos.Tracks.Create(ctx, track))
		ids[i] = track.ID
	}
	return ids
}

func seedAlbums(t *testing.T, repos *db.Repositories, n int) []uuid.UUID {
	t.Helper()
	ctx := context.Background()

	artist := models.NewArtist("Album Artist")
	require.NoError(t, repos.Artists.Create(ctx, artist))

	ids := make([]uuid.UUID, n)
	for i := range ids {
		album := models.NewAlbum("Album", artist.ID)
		require.NoError(t, repos.Albums.Create(ctx, album))
		ids[i] = album.ID
	}
	return ids
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"track", "tracks"} {
		kind, err := ParseKind(s)
		require.NoError(t, err)
		assert.Equal(t, KindTrack, kind)
	}
	for _, s := range []string{"album", "albums"} {
		kind, err := ParseKind(s)
		require.NoError(t, err)
		assert.Equal(t, KindAlbum, kind)
	}
	_, err := ParseKind("podcast")
	assert.Error(t, err)
}

func TestSave_ReturnsCreatedItems(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	tracks := seedTracks(t, repos, 2)

	items, err := service.Save(ctx, user, KindTrack, tracks)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, user, items[0].UserID)
	assert.Equal(t, tracks[0], items[0].ItemID)
	assert.False(t, items[0].AddedAt.IsZero())
}

func TestSave_DuplicatesSkipped(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	tracks := seedTracks(t, repos, 3)

	_, err := service.Save(ctx, user, KindTrack, tracks[:2])
	require.NoError(t, err)

	// Only the net-new item comes back
	items, err := service.Save(ctx, user, KindTrack, tracks)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, tracks[2], items[0].ItemID)

	count, err := repos.SavedTracks.CountByUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSave_AllDuplicatesIsNoOp(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	tracks := seedTracks(t, repos, 2)

	_, err := service.Save(ctx, user, KindTrack, tracks)
	require.NoError(t, err)

	items, err := service.Save(ctx, user, KindTrack, tracks)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSave_UnknownIDsDropped(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	tracks := seedTracks(t, repos, 1)

	items, err := service.Save(ctx, user, KindTrack, []uuid.UUID{tracks[0], uuid.New()})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, tracks[0], items[0].ItemID)
}

func TestSave_NothingResolves(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	user := seedUser(t, repos)

	_, err := service.Save(context.Background(), user, KindTrack, []uuid.UUID{uuid.New()})

	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSave_EmptyInput(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	user := seedUser(t, repos)

	_, err := service.Save(context.Background(), user, KindTrack, nil)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSave_SizeLimit(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	tracks := seedTracks(t, repos, 1)

	// Fill the library to the cap directly through the repository. The rows
	// reference the same track; the cap check only counts rows.
	rows := make([]*models.SavedTrack, MaxItems)
	for i := range rows {
		rows[i] = models.NewSavedTrack(user, tracks[0])
	}
	require.NoError(t, repos.SavedTracks.CreateBatch(ctx, rows))

	_, err := service.Save(ctx, user, KindTrack, tracks)

	assert.ErrorIs(t, err, ErrLimitExceeded)
}

func TestRemove_DeletesSavedItems(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	tracks := seedTracks(t, repos, 2)

	_, err := service.Save(ctx, user, KindTrack, tracks)
	require.NoError(t, err)

	require.NoError(t, service.Remove(ctx, user, KindTrack, tracks[:1]))

	contains, err := service.Contains(ctx, user, KindTrack, tracks)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, contains)
}

func TestRemove_NothingSaved(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	tracks := seedTracks(t, repos, 1)

	err := service.Remove(ctx, user, KindTrack, tracks)

	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestContains_PreservesInputOrder(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	tracks := seedTracks(t, repos, 3)

	_, err := service.Save(ctx, user, KindTrack, []uuid.UUID{tracks[1]})
	require.NoError(t, err)

	contains, err := service.Contains(ctx, user, KindTrack, []uuid.UUID{tracks[2], tracks[1], tracks[0]})

	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false}, contains)
}

func TestList_Pagination(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	albums := seedAlbums(t, repos, 5)

	_, err := service.Save(ctx, user, KindAlbum, albums)
	require.NoError(t, err)

	page, err := service.List(ctx, user, KindAlbum, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(5), page.Total)
	require.Len(t, page.Items, 2)
	assert.NotNil(t, page.Items[0].Album)

	require.NotNil(t, page.Next)
	assert.Equal(t, 4, *page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, 0, *page.Previous)
}

func TestList_FirstPageHasNoPrevious(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	tracks := seedTracks(t, repos, 3)

	_, err := service.Save(ctx, user, KindTrack, tracks)
	require.NoError(t, err)

	page, err := service.List(ctx, user, KindTrack, 2, 0)
	require.NoError(t, err)

	assert.Nil(t, page.Previous)
	require.NotNil(t, page.Next)
	assert.Equal(t, 2, *page.Next)
}

func TestList_LastPageHasNoNext(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	tracks := seedTracks(t, repos, 3)

	_, err := service.Save(ctx, user, KindTrack, tracks)
	require.NoError(t, err)

	page, err := service.List(ctx, user, KindTrack, 2, 2)
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, 0, *page.Previous)
}

func TestList_DefaultLimit(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)

	page, err := service.List(ctx, user, KindTrack, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultPageLimit, page.Limit)
	assert.Empty(t, page.Items)
	assert.Nil(t, page.Next)
}
