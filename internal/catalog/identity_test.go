package catalog

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/lexicon/internal/entities"
)

func TestIDOf(t *testing.T) {
	id := uuid.New()
	canonical := id.String()
	upper := strings.ToUpper(canonical)

	tests := []struct {
		name string
		ref  any
		want string
	}{
		{"nil", nil, ""},
		{"string", canonical, canonical},
		{"upper case string", upper, canonical},
		{"padded string", "  " + canonical + " ", canonical},
		{"string pointer", &upper, canonical},
		{"nil string pointer", (*string)(nil), ""},
		{"uuid", id, canonical},
		{"nil uuid", uuid.Nil, ""},
		{"creator ref", entities.CreatorRef{ID: upper, Username: "bob"}, canonical},
		{"creator ref pointer", &entities.CreatorRef{ID: canonical}, canonical},
		{"nil creator ref pointer", (*entities.CreatorRef)(nil), ""},
		{"user", entities.User{ID: canonical}, canonical},
		{"user pointer", &entities.User{ID: upper}, canonical},
		{"caller", Caller{UserID: upper}, canonical},
		{"non-uuid string kept", "legacy-42", "legacy-42"},
		{"unsupported type", 42, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IDOf(tt.ref))
		})
	}
}

func TestCanModify(t *testing.T) {
	owner := uuid.NewString()
	entry := &entities.WordEntry{CreatedBy: &owner}

	assert.True(t, canModify(entry, Caller{UserID: owner, Role: RoleUser}))
	assert.True(t, canModify(entry, Caller{UserID: strings.ToUpper(owner), Role: RoleUser}))
	assert.True(t, canModify(entry, Caller{UserID: uuid.NewString(), Role: RoleAdmin}))
	assert.False(t, canModify(entry, Caller{UserID: uuid.NewString(), Role: RoleUser}))

	resolved := &entities.WordEntry{Creator: &entities.CreatorRef{ID: owner}}
	assert.True(t, canModify(resolved, Caller{UserID: owner, Role: RoleUser}))

	orphan := &entities.WordEntry{}
	assert.False(t, canModify(orphan, Caller{UserID: owner, Role: RoleUser}))
	assert.True(t, canModify(orphan, Caller{UserID: owner, Role: RoleAdmin}))
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, pageRequest{page: 1, limit: 10}, clampPage(0, 0, 100))
	assert.Equal(t, pageRequest{page: 1, limit: 10}, clampPage(-3, -1, 100))
	assert.Equal(t, pageRequest{page: 4, limit: 100}, clampPage(4, 500, 100))
	assert.Equal(t, 30, clampPage(4, 10, 100).offset())
	assert.Equal(t, 0, totalPages(0, 10))
	assert.Equal(t, 3, totalPages(21, 10))
	assert.Equal(t, 2, totalPages(20, 10))
}
