package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mrlokans/lexicon/internal/entities"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Caller is the already-authenticated identity the catalog acts for.
type Caller struct {
	UserID string
	Role   Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

func (c Caller) validate() error {
	if !ValidID(c.UserID) {
		return ErrInvalidCaller
	}
	switch c.Role {
	case RoleUser, RoleAdmin:
		return nil
	}
	return ErrInvalidCaller
}

// ValidID reports whether id is a well-formed identifier.
func ValidID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

// IDOf returns the canonical string form of an identity reference. Raw ids,
// pointers, resolved creator/user records and uuid values of the same identity
// all normalize to the same string. Absent references yield "".
func IDOf(ref any) string {
	var raw string
	switch v := ref.(type) {
	case nil:
		return ""
	case string:
		raw = v
	case *string:
		if v == nil {
			return ""
		}
		raw = *v
	case uuid.UUID:
		if v == uuid.Nil {
			return ""
		}
		raw = v.String()
	case entities.CreatorRef:
		raw = v.ID
	case *entities.CreatorRef:
		if v == nil {
			return ""
		}
		raw = v.ID
	case entities.User:
		raw = v.ID
	case *entities.User:
		if v == nil {
			return ""
		}
		raw = v.ID
	case Caller:
		raw = v.UserID
	case fmt.Stringer:
		raw = v.String()
	default:
		return ""
	}

	raw = strings.TrimSpace(raw)
	if parsed, err := uuid.Parse(raw); err == nil {
		return parsed.String()
	}
	return raw
}

// isOwner reports whether a creator reference exists and matches the caller.
func isOwner(entry *entities.WordEntry, caller Caller) bool {
	owner := IDOf(entry.CreatedBy)
	if owner == "" && entry.Creator != nil {
		owner = IDOf(entry.Creator)
	}
	return owner != "" && owner == IDOf(caller.UserID)
}

// canModify is the single authorization rule shared by update and delete.
func canModify(entry *entities.WordEntry, caller Caller) bool {
	return caller.IsAdmin() || isOwner(entry, caller)
}
