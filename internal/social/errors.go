package social

import "errors"

// Custom follow-graph service errors
var (
	// ErrAlreadyFollowing indicates the user already follows this playlist
	ErrAlreadyFollowing = errors.New("already following playlist")

	// ErrNotFollowing indicates the user does not follow this playlist
	ErrNotFollowing = errors.New("not following playlist")

	// ErrPlaylistNotFound indicates the playlist does not exist
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrInvalidInput indicates malformed or missing parameters
	ErrInvalidInput = errors.New("invalid input")
)

// IsAlreadyFollowing checks if the error is an already-following conflict
func IsAlreadyFollowing(err error) bool {
	return errors.Is(err, ErrAlreadyFollowing)
}

// IsNotFollowing checks if the error is a not-following conflict
func IsNotFollowing(err error) bool {
	return errors.Is(err, ErrNotFollowing)
}
