package playlist

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

// seedUser creates a user for test playlists
func seedUser(t *testing.T, repos *db.Repositories) uuid.UUID {
	t.Helper()
	user := models.NewUser(uuid.NewString()+"@example.com", "Test User")
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user.ID
}

// seedTracks creates an artist and n tracks, returning the track ids
func seedTracks(t *testing.T, repos *db.Repositories, n int) []uuid.UUID {
	t.Helper()
	ctx := context.Background()

	artist := models.NewArtist("Test Artist")
	require.NoError(t, repos.Artists.Create(ctx, artist))

	ids := make([]uuid.UUID, n)
	for i := range ids {
		track := models.NewTrack("Track", artist.ID, 180_000)
		require.NoError(t, repos.Tracks.Create(ctx, track))
		ids[i] = track.ID
	}
	return ids
}

// sequenceTrackIDs reads the stored sequence as track ids, in position order
func sequenceTrackIDs(t *testing.T, repos *db.Repositories, playlistID uuid.UUID) []uuid.UUID {
	t.Helper()
	entries, err := repos.Playlists.GetTracks(context.Background(), playlistID)
	require.NoError(t, err)
	ids := make([]uuid.UUID, len(entries))
	for i, entry := range entries {
		ids[i] = entry.TrackID
	}
	return ids
}

func TestCreate_Success(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	owner := seedUser(t, repos)
	description := "road trip songs"

	p, err := service.Create(context.Background(), owner, "Road Trip", &description, true, false)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, owner, p.OwnerID)
	assert.Equal(t, "Road Trip", p.Name)
	assert.True(t, p.Public)
	assert.False(t, p.Collaborative)
}

func TestCreate_EmptyName(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	owner := seedUser(t, repos)

	_, err := service.Create(context.Background(), owner, "", nil, false, false)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreate_CollaborativePublicRejected(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	owner := seedUser(t, repos)

	_, err := service.Create(context.Background(), owner, "Shared", nil, true, true)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGet_PrivateDeniedToStranger(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	stranger := seedUser(t, repos)

	p, err := service.Create(ctx, owner, "Private", nil, false, false)
	require.NoError(t, err)

	// The playlist's existence is acknowledged, access is not
	_, err = service.Get(ctx, p.ID, stranger)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGet_Missing(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	caller := seedUser(t, repos)

	_, err := service.Get(context.Background(), uuid.New(), caller)

	assert.ErrorIs(t, err, ErrPlaylistNotFound)
}

func TestUpdateDetails_OwnerOnly(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	stranger := seedUser(t, repos)

	p, err := service.Create(ctx, owner, "Old Name", nil, true, false)
	require.NoError(t, err)

	newName := "New Name"
	_, err = service.UpdateDetails(ctx, p.ID, stranger, &newName, nil, nil, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := service.UpdateDetails(ctx, p.ID, owner, &newName, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
}

func TestInsertTracks_Append(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	tracks := seedTracks(t, repos, 3)

	p, err := service.Create(ctx, owner, "Mix", nil, false, false)
	require.NoError(t, err)

	_, err = service.InsertTracks(ctx, p.ID, owner, tracks[:2], nil)
	require.NoError(t, err)
	_, err = service.InsertTracks(ctx, p.ID, owner, tracks[2:], nil)
	require.NoError(t, err)

	assert.Equal(t, tracks, sequenceTrackIDs(t, repos, p.ID))
}

func TestInsertTracks_AtPosition(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	tracks := seedTracks(t, repos, 3)

	p, err := service.Create(ctx, owner, "Mix", nil, false, false)
	require.NoError(t, err)

	_, err = service.InsertTracks(ctx, p.ID, owner, []uuid.UUID{tracks[0], tracks[1]}, nil)
	require.NoError(t, err)

	position := 1
	_, err = service.InsertTracks(ctx, p.ID, owner, []uuid.UUID{tracks[2]}, &position)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{tracks[0], tracks[2], tracks[1]}, sequenceTrackIDs(t, repos, p.ID))
}

func TestInsertTracks_UnknownTrack(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)

	p, err := service.Create(ctx, owner, "Mix", nil, false, false)
	require.NoError(t, err)

	_, err = service.InsertTracks(ctx, p.ID, owner, []uuid.UUID{uuid.New()}, nil)

	assert.ErrorIs(t, err, ErrTrackNotFound)
	assert.Empty(t, sequenceTrackIDs(t, repos, p.ID))
}

func TestInsertTracks_CollaboratorAllowedStrangerNot(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	collaborator := seedUser(t, repos)
	stranger := seedUser(t, repos)
	tracks := seedTracks(t, repos, 2)

	p, err := service.Create(ctx, owner, "Shared", nil, false, true)
	require.NoError(t, err)
	require.NoError(t, service.AddCollaborator(ctx, p.ID, owner, collaborator))

	_, err = service.InsertTracks(ctx, p.ID, collaborator, tracks[:1], nil)
	assert.NoError(t, err)

	_, err = service.InsertTracks(ctx, p.ID, stranger, tracks[1:], nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestInsertTracks_SizeLimit(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	tracks := seedTracks(t, repos, 2)

	p, err := service.Create(ctx, owner, "Huge", nil, false, false)
	require.NoError(t, err)

	// Fill the sequence to one below the cap directly through the repository
	entries := make([]*models.PlaylistTrack, MaxTracks-1)
	for i := range entries {
		entries[i] = models.NewPlaylistTrack(p.ID, tracks[0], owner, i)
	}
	require.NoError(t, repos.Playlists.ReplaceTracks(ctx, p.ID, p.Revision, entries))

	_, err = service.InsertTracks(ctx, p.ID, owner, tracks, nil)
	assert.ErrorIs(t, err, ErrSizeExceeded)

	_, err = service.InsertTracks(ctx, p.ID, owner, tracks[1:], nil)
	assert.NoError(t, err)
}

func TestDeleteTracks_AllOccurrences(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	tracks := seedTracks(t, repos, 3)

	p, err := service.Create(ctx, owner, "Mix", nil, false, false)
	require.NoError(t, err)

	// Sequence [A, B, A, C]
	_, err = service.InsertTracks(ctx, p.ID, owner, []uuid.UUID{tracks[0], tracks[1], tracks[0], tracks[2]}, nil)
	require.NoError(t, err)

	err = service.DeleteTracks(ctx, p.ID, owner, []DeleteRequest{{TrackID: tracks[0]}})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{tracks[1], tracks[2]}, sequenceTrackIDs(t, repos, p.ID))
}

func TestDeleteTracks_InvalidPositionLeavesSequenceUnchanged(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	tracks := seedTracks(t, repos, 2)

	p, err := service.Create(ctx, owner, "Mix", nil, false, false)
	require.NoError(t, err)

	_, err = service.InsertTracks(ctx, p.ID, owner, tracks, nil)
	require.NoError(t, err)

	err = service.DeleteTracks(ctx, p.ID, owner, []DeleteRequest{
		{TrackID: tracks[1]},
		{TrackID: tracks[0], Positions: []int{1}},
	})

	assert.ErrorIs(t, err, ErrInvalidPosition)
	assert.Equal(t, tracks, sequenceTrackIDs(t, repos, p.ID))
}

func TestDeleteTracks_OwnerOnly(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	collaborator := seedUser(t, repos)
	tracks := seedTracks(t, repos, 1)

	p, err := service.Create(ctx, owner, "Shared", nil, false, true)
	require.NoError(t, err)
	require.NoError(t, service.AddCollaborator(ctx, p.ID, owner, collaborator))

	_, err = service.InsertTracks(ctx, p.ID, collaborator, tracks, nil)
	require.NoError(t, err)

	err = service.DeleteTracks(ctx, p.ID, collaborator, []DeleteRequest{{TrackID: tracks[0]}})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReorderTracks_MovesBlock(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	tracks := seedTracks(t, repos, 5)

	p, err := service.Create(ctx, owner, "Mix", nil, false, false)
	require.NoError(t, err)

	_, err = service.InsertTracks(ctx, p.ID, owner, tracks, nil)
	require.NoError(t, err)

	err = service.ReorderTracks(ctx, p.ID, owner, 0, 2, 4)
	require.NoError(t, err)

	want := []uuid.UUID{tracks[2], tracks[3], tracks[0], tracks[1], tracks[4]}
	assert.Equal(t, want, sequenceTrackIDs(t, repos, p.ID))
}

func TestReorderTracks_InvalidRange(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	tracks := seedTracks(t, repos, 3)

	p, err := service.Create(ctx, owner, "Mix", nil, false, false)
	require.NoError(t, err)

	_, err = service.InsertTracks(ctx, p.ID, owner, tracks, nil)
	require.NoError(t, err)

	err = service.ReorderTracks(ctx, p.ID, owner, 0, 2, 1)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Equal(t, tracks, sequenceTrackIDs(t, repos, p.ID))
}

func TestWriteSequence_StaleRevisionConflicts(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	tracks := seedTracks(t, repos, 2)

	p, err := service.Create(ctx, owner, "Mix", nil, false, false)
	require.NoError(t, err)

	stale, err := repos.Playlists.GetByID(ctx, p.ID)
	require.NoError(t, err)

	// A concurrent writer bumps the revision
	_, err = service.InsertTracks(ctx, p.ID, owner, tracks[:1], nil)
	require.NoError(t, err)

	err = service.writeSequence(ctx, stale, []*models.PlaylistTrack{
		models.NewPlaylistTrack(p.ID, tracks[1], owner, 0),
	})

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, tracks[:1], sequenceTrackIDs(t, repos, p.ID))
}

func TestGetTracks_Pagination(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	tracks := seedTracks(t, repos, 5)

	p, err := service.Create(ctx, owner, "Mix", nil, false, false)
	require.NoError(t, err)

	_, err = service.InsertTracks(ctx, p.ID, owner, tracks, nil)
	require.NoError(t, err)

	page, err := service.GetTracks(ctx, p.ID, owner, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, tracks[2], page.Items[0].TrackID)
	assert.Equal(t, tracks[3], page.Items[1].TrackID)
	assert.NotNil(t, page.Items[0].Track)
}

func TestGetTracks_OffsetPastEndIsEmptyPage(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)
	tracks := seedTracks(t, repos, 2)

	p, err := service.Create(ctx, owner, "Mix", nil, false, false)
	require.NoError(t, err)

	_, err = service.InsertTracks(ctx, p.ID, owner, tracks, nil)
	require.NoError(t, err)

	page, err := service.GetTracks(ctx, p.ID, owner, 10, 50)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(2), page.Total)
}

func TestDelete_RemovesPlaylist(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, repos)

	p, err := service.Create(ctx, owner, "Doomed", nil, false, false)
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, p.ID, owner))

	_, err = service.Get(ctx, p.ID, owner)
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
}
