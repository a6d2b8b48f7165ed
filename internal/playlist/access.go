package playlist

import (
	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/models"
)

// Intent is the kind of access being requested against a playlist
type Intent int

const (
	// IntentRead covers fetching the playlist and paging its tracks
	IntentRead Intent = iota
	// IntentInsert covers adding tracks to the sequence
	IntentInsert
	// IntentWrite covers detail edits, reorders, deletes and destroying the playlist
	IntentWrite
)

// authorize decides whether callerID may act on the playlist with the given
// intent. The gates are deliberately asymmetric: only the owner may edit,
// reorder or delete, but collaborators on a collaborative playlist may both
// read and insert tracks.
func authorize(p *models.Playlist, callerID uuid.UUID, intent Intent) error {
	isOwner := callerID == p.OwnerID
	isCollaborator := p.Collaborative && p.IsCollaborator(callerID)

	switch intent {
	case IntentRead:
		if p.Public || isOwner || isCollaborator {
			return nil
		}
	case IntentInsert:
		if isOwner || isCollaborator {
			return nil
		}
	case IntentWrite:
		if isOwner {
			return nil
		}
	}
	return ErrForbidden
}
