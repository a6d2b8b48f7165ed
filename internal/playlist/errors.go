package playlist

import "errors"

// Custom playlist service errors
var (
	// ErrPlaylistNotFound indicates the requested playlist does not exist
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrTrackNotFound indicates one or more referenced tracks do not exist
	ErrTrackNotFound = errors.New("track not found")

	// ErrForbidden indicates the caller is not allowed to perform the operation.
	// Deliberately returned (rather than not-found) for private playlists that
	// do exist, matching the API's documented behavior.
	ErrForbidden = errors.New("access to playlist denied")

	// ErrInvalidInput indicates malformed or missing parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrSizeExceeded indicates the track sequence would exceed its maximum length
	ErrSizeExceeded = errors.New("playlist size limit exceeded")

	// ErrInvalidPosition indicates a positioned delete named a position whose
	// entry does not match the request's track id
	ErrInvalidPosition = errors.New("position does not match track")

	// ErrInvalidRange indicates a reorder range that is out of bounds or whose
	// insertion point falls inside the moved block
	ErrInvalidRange = errors.New("invalid reorder range")

	// ErrEmptyPlaylist indicates a delete was requested against an empty sequence
	ErrEmptyPlaylist = errors.New("playlist is empty")

	// ErrConflict indicates the track sequence changed under a concurrent
	// writer between load and write-back; the caller may retry
	ErrConflict = errors.New("playlist was modified concurrently")
)

// IsNotFound checks if the error is a playlist or track not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPlaylistNotFound) || errors.Is(err, ErrTrackNotFound)
}

// IsForbidden checks if the error is an authorization error
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsConflict checks if the error is a concurrent-modification conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
