package playlist

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/models"
)

// Maximum number of entries a playlist's track sequence may hold
const MaxTracks = 10_000

// DeleteRequest names tracks to remove from a playlist's sequence.
// With Positions nil every occurrence of TrackID is removed; with Positions
// set only the named occurrences are removed, and each named position must
// actually hold TrackID.
type DeleteRequest struct {
	TrackID   uuid.UUID
	Positions []int
}

// spliceInsert returns list[0:position] + entries + list[position:].
// A nil position or one at or beyond the end appends.
func spliceInsert(list, entries []*models.PlaylistTrack, position *int) []*models.PlaylistTrack {
	p := len(list)
	if position != nil && *position < len(list) {
		p = *position
	}

	result := make([]*models.PlaylistTrack, 0, len(list)+len(entries))
	result = append(result, list[:p]...)
	result = append(result, entries...)
	result = append(result, list[p:]...)
	return result
}

// applyDeletes removes the entries named by the requests and returns the
// remaining sequence. Removal is two-phase: positioned requests are validated
// against the current sequence and resolved to concrete entries first, then
// unpositioned requests sweep every remaining occurrence of their track id.
// Resolving positions before any removal keeps them from shifting under the
// unpositioned sweep. The input slice is not modified.
func applyDeletes(list []*models.PlaylistTrack, reqs []DeleteRequest) ([]*models.PlaylistTrack, error) {
	if len(list) == 0 {
		return nil, ErrEmptyPlaylist
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: no delete requests given", ErrInvalidInput)
	}

	// Phase 1: validate every positioned request against current contents.
	removeAt := make(map[int]bool)
	for _, req := range reqs {
		for _, p := range req.Positions {
			if p < 0 || p >= len(list) {
				return nil, fmt.Errorf("%w: position %d out of range", ErrInvalidPosition, p)
			}
			if list[p].TrackID != req.TrackID {
				return nil, fmt.Errorf("%w: entry at position %d is not track %s", ErrInvalidPosition, p, req.TrackID)
			}
			removeAt[p] = true
		}
	}

	// Phase 2: drop the entries at all named positions.
	remainder := make([]*models.PlaylistTrack, 0, len(list))
	for i, entry := range list {
		if !removeAt[i] {
			remainder = append(remainder, entry)
		}
	}

	// Phase 3: sweep every remaining occurrence of unpositioned track ids.
	sweep := make(map[uuid.UUID]bool)
	for _, req := range reqs {
		if len(req.Positions) == 0 {
			sweep[req.TrackID] = true
		}
	}
	if len(sweep) == 0 {
		return remainder, nil
	}

	result := make([]*models.PlaylistTrack, 0, len(remainder))
	for _, entry := range remainder {
		if !sweep[entry.TrackID] {
			result = append(result, entry)
		}
	}
	return result, nil
}

// applyReorder moves the block list[rangeStart : rangeStart+rangeLength] to
// just before index insertBefore in the remaining sequence. The result is a
// permutation of the input; no entries are created or lost. The input slice
// is not modified.
func applyReorder(list []*models.PlaylistTrack, rangeStart, rangeLength, insertBefore int) ([]*models.PlaylistTrack, error) {
	if rangeStart < 0 || rangeLength < 0 || insertBefore < 0 {
		return nil, fmt.Errorf("%w: negative argument", ErrInvalidInput)
	}
	if rangeLength == 0 {
		// Degenerate no-op.
		return append([]*models.PlaylistTrack(nil), list...), nil
	}
	if rangeStart+rangeLength > len(list) {
		return nil, fmt.Errorf("%w: block [%d, %d) exceeds sequence length %d",
			ErrInvalidRange, rangeStart, rangeStart+rangeLength, len(list))
	}
	if insertBefore > len(list) {
		return nil, fmt.Errorf("%w: insert point %d exceeds sequence length %d",
			ErrInvalidRange, insertBefore, len(list))
	}
	// Moving a block to overlap itself is undefined and rejected.
	if insertBefore >= rangeStart && insertBefore < rangeStart+rangeLength {
		return nil, fmt.Errorf("%w: insert point %d falls inside moved block [%d, %d)",
			ErrInvalidRange, insertBefore, rangeStart, rangeStart+rangeLength)
	}

	block := list[rangeStart : rangeStart+rangeLength]

	remainder := make([]*models.PlaylistTrack, 0, len(list)-rangeLength)
	remainder = append(remainder, list[:rangeStart]...)
	remainder = append(remainder, list[rangeStart+rangeLength:]...)

	// Removing the block shifted later indices down.
	at := insertBefore
	if at >= rangeStart+rangeLength {
		at -= rangeLength
	}

	result := make([]*models.PlaylistTrack, 0, len(list))
	result = append(result, remainder[:at]...)
	result = append(result, block...)
	result = append(result, remainder[at:]...)
	return result, nil
}
