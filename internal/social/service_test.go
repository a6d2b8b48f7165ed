package social

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
	service := NewService(database, repos)

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

func seedArtist(t *testing.T, repos *db.Repositories) uuid.UUID {
	t.Helper()
	artist := models.NewArtist("Test Artist")
	require.NoError(t, repos.Artists.Create(context.Background(), artist))
	return artist.ID
}

func seedPlaylist(t *testing.T, repos *db.Repositories, ownerID uuid.UUID) uuid.UUID {
	t.Helper()
	p := models.NewPlaylist(ownerID, "Test Playlist")
	require.NoError(t, repos.Playlists.Create(context.Background(), p))
	return p.ID
}

func TestFollow_CreatesEdgesAndCounters(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	follower := seedUser(t, repos)
	targetUser := seedUser(t, repos)
	targetArtist := seedArtist(t, repos)

	followed, err := service.Follow(ctx, follower, []uuid.UUID{targetUser, targetArtist}, "")

	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{targetUser, targetArtist}, followed)

	user, err := repos.Users.GetByID(ctx, targetUser)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.Followers)

	artist, err := repos.Artists.GetByID(ctx, targetArtist)
	require.NoError(t, err)
	assert.Equal(t, int64(1), artist.Followers)
}

func TestFollow_AlreadyFollowedSkipped(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	follower := seedUser(t, repos)
	target := seedUser(t, repos)

	_, err := service.Follow(ctx, follower, []uuid.UUID{target}, "")
	require.NoError(t, err)

	followed, err := service.Follow(ctx, follower, []uuid.UUID{target}, "")
	require.NoError(t, err)
	assert.Empty(t, followed)

	// Counter is not double-incremented
	user, err := repos.Users.GetByID(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.Followers)
}

func TestFollow_SelfAndUnknownDropped(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	follower := seedUser(t, repos)

	followed, err := service.Follow(ctx, follower, []uuid.UUID{follower, uuid.New()}, "")

	require.NoError(t, err)
	assert.Empty(t, followed)
}

func TestFollow_TypeFilter(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	follower := seedUser(t, repos)
	targetUser := seedUser(t, repos)
	targetArtist := seedArtist(t, repos)

	followed, err := service.Follow(ctx, follower, []uuid.UUID{targetUser, targetArtist}, models.FollowTargetArtist)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{targetArtist}, followed)
}

func TestFollow_InvalidTypeFilter(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	follower := seedUser(t, repos)
	target := seedUser(t, repos)

	_, err := service.Follow(context.Background(), follower, []uuid.UUID{target}, "playlist")

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFollow_EmptyTargets(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	follower := seedUser(t, repos)

	_, err := service.Follow(context.Background(), follower, nil, "")

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUnfollow_RoundTrip(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	follower := seedUser(t, repos)
	target := seedUser(t, repos)

	_, err := service.Follow(ctx, follower, []uuid.UUID{target}, "")
	require.NoError(t, err)

	unfollowed, err := service.Unfollow(ctx, follower, []uuid.UUID{target}, "")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{target}, unfollowed)

	// Counter returns to its starting value
	user, err := repos.Users.GetByID(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, int64(0), user.Followers)

	edges, err := service.ListFollowing(ctx, follower)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestUnfollow_NotFollowedSkipped(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	follower := seedUser(t, repos)
	target := seedUser(t, repos)

	unfollowed, err := service.Unfollow(ctx, follower, []uuid.UUID{target}, "")

	require.NoError(t, err)
	assert.Empty(t, unfollowed)
}

func TestListFollowing(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	follower := seedUser(t, repos)
	targetUser := seedUser(t, repos)
	targetArtist := seedArtist(t, repos)

	_, err := service.Follow(ctx, follower, []uuid.UUID{targetUser, targetArtist}, "")
	require.NoError(t, err)

	edges, err := service.ListFollowing(ctx, follower)
	require.NoError(t, err)
	require.Len(t, edges, 2)

	types := map[uuid.UUID]string{}
	for _, edge := range edges {
		types[edge.TargetID] = edge.TargetType
	}
	assert.Equal(t, models.FollowTargetUser, types[targetUser])
	assert.Equal(t, models.FollowTargetArtist, types[targetArtist])
}

func TestFollowPlaylist_IncrementsCounter(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	follower := seedUser(t, repos)
	playlistID := seedPlaylist(t, repos, owner)

	require.NoError(t, service.FollowPlaylist(ctx, follower, playlistID, true))

	p, err := repos.Playlists.GetByID(ctx, playlistID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.FollowerCount)

	entries, err := service.ListFollowedPlaylists(ctx, follower)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, playlistID, entries[0].PlaylistID)
}

func TestFollowPlaylist_TwiceConflicts(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	follower := seedUser(t, repos)
	playlistID := seedPlaylist(t, repos, owner)

	require.NoError(t, service.FollowPlaylist(ctx, follower, playlistID, true))

	err := service.FollowPlaylist(ctx, follower, playlistID, true)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)

	// Counter unaffected by the rejected follow
	p, err := repos.Playlists.GetByID(ctx, playlistID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.FollowerCount)
}

func TestFollowPlaylist_Missing(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	follower := seedUser(t, repos)

	err := service.FollowPlaylist(context.Background(), follower, uuid.New(), true)

	assert.ErrorIs(t, err, ErrPlaylistNotFound)
}

func TestUnfollowPlaylist_RoundTrip(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	follower := seedUser(t, repos)
	playlistID := seedPlaylist(t, repos, owner)

	require.NoError(t, service.FollowPlaylist(ctx, follower, playlistID, true))
	require.NoError(t, service.UnfollowPlaylist(ctx, follower, playlistID))

	p, err := repos.Playlists.GetByID(ctx, playlistID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.FollowerCount)
}

func TestUnfollowPlaylist_NotFollowing(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	follower := seedUser(t, repos)
	playlistID := seedPlaylist(t, repos, owner)

	err := service.UnfollowPlaylist(ctx, follower, playlistID)

	assert.ErrorIs(t, err, ErrNotFollowing)
}
