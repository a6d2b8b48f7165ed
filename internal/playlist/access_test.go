package playlist

import (
	"testing"

	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	owner := uuid.New()
	collaborator := uuid.New()
	stranger := uuid.New()

	tests := []struct {
		name          string
		public        bool
		collaborative bool
		caller        uuid.UUID
		intent        Intent
		wantErr       bool
	}{
		{"owner reads private", false, false, owner, IntentRead, false},
		{"owner inserts", false, false, owner, IntentInsert, false},
		{"owner writes", false, false, owner, IntentWrite, false},
		{"stranger reads public", true, false, stranger, IntentRead, false},
		{"stranger reads private", false, false, stranger, IntentRead, true},
		{"stranger inserts into public", true, false, stranger, IntentInsert, true},
		{"stranger writes public", true, false, stranger, IntentWrite, true},
		{"collaborator reads collaborative", false, true, collaborator, IntentRead, false},
		{"collaborator inserts into collaborative", false, true, collaborator, IntentInsert, false},
		{"collaborator cannot write", false, true, collaborator, IntentWrite, true},
		{"collaborator ignored when collaboration off", false, false, collaborator, IntentInsert, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.NewPlaylist(owner, "test")
			p.Public = tt.public
			p.Collaborative = tt.collaborative
			p.Collaborators = []uuid.UUID{collaborator}

			err := authorize(p, tt.caller, tt.intent)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrForbidden)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
