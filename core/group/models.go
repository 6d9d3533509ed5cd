package group

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasalabs/darasa/core"
	"github.com/darasalabs/darasa/core/user"
)

// Member roles
const (
	RoleGroupLeader  = "GROUP_LEADER"
	RoleCommonMember = "COMMON_MEMBER"
)

var MemberRoles = []string{RoleGroupLeader, RoleCommonMember}

type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC

	// loaded relations
	Owner   *user.User `json:"owner,omitempty"`
	Members []Member   `json:"members,omitempty"`
}

// HasMember reports whether the given user is a loaded member of the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

type Member struct {
	ID       string    `json:"id"`
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"` // UTC

	// loaded relations
	User *user.User `json:"user,omitempty"`
}

// NewGroup contains information needed to create a new Group.
type NewGroup struct {
	Name        string `json:"name" validate:"required,alphanum_"`
	Description string `json:"description"`
}

func (ng *NewGroup) Validate(validate *validator.Validate) error {
	ng.Name = core.CleanString(ng.Name)
	ng.Description = core.CleanString(ng.Description)
	return validate.Struct(ng)
}

// UpdateGroup defines what information may be provided to modify an existing Group.
// An empty Name keeps the current one; a nil Description keeps the current one.
type UpdateGroup struct {
	Name        string  `json:"name" validate:"omitempty,alphanum_"`
	Description *string `json:"description"`
}

func (ug *UpdateGroup) Validate(validate *validator.Validate) error {
	ug.Name = core.CleanString(ug.Name)
	if ug.Description != nil {
		desc := core.CleanString(*ug.Description)
		ug.Description = &desc
	}
	return validate.Struct(ug)
}

// NewMember contains information needed to add a User to a Group.
type NewMember struct {
	GroupID string `json:"group_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`
	Role    string `json:"role" validate:"required,memberrole"`
}

func (nm *NewMember) Validate(validate *validator.Validate) error {
	return validate.Struct(nm)
}

// GetFilter selects a single Group by one of its unique attributes.
type GetFilter struct {
	ID   string
	Name string
}
