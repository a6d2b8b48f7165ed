package db

// Repositories provides access to all database repositories
type Repositories struct {
	Users             *UserRepository
	Artists           *ArtistRepository
	Tracks            *TrackRepository
	Albums            *AlbumRepository
	Playlists         *PlaylistRepository
	SavedTracks       *SavedTrackRepository
	SavedAlbums       *SavedAlbumRepository
	PlayHistory       *PlayHistoryRepository
	Follows           *FollowRepository
	FollowedPlaylists *FollowedPlaylistRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Users:             NewUserRepository(db),
		Artists:           NewArtistRepository(db),
		Tracks:            NewTrackRepository(db),
		Albums:            NewAlbumRepository(db),
		Playlists:         NewPlaylistRepository(db),
		SavedTracks:       NewSavedTrackRepository(db),
		SavedAlbums:       NewSavedAlbumRepository(db),
		PlayHistory:       NewPlayHistoryRepository(db),
		Follows:           NewFollowRepository(db),
		FollowedPlaylists: NewFollowedPlaylistRepository(db),
	}
}
