package library

import "fmt"

// Kind is the closed set of item types a library can hold
type Kind int

const (
	// KindTrack selects the saved-tracks store
	KindTrack Kind = iota
	// KindAlbum selects the saved-albums store
	KindAlbum
)

// String returns the kind's wire name
func (k Kind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindAlbum:
		return "album"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a wire name into a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "track", "tracks":
		return KindTrack, nil
	case "album", "albums":
		return KindAlbum, nil
	default:
		return 0, fmt.Errorf("%w: unknown library kind %q", ErrInvalidInput, s)
	}
}
