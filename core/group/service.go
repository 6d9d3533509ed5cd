package group

import (
	"context"
	"time"

	"github.com/darasalabs/darasa/core"
	"github.com/darasalabs/darasa/core/user"
)

var (
	// errors
	ErrNotFound       = core.NewNotFoundError("group not found")
	ErrMemberNotFound = core.NewNotFoundError("member not found")
	ErrNameExists     = core.NewConflictError("a group with this name already exists")
	ErrAlreadyMember  = core.NewConflictError("user is already a member of this group")
	ErrNotOwner       = core.NewForbiddenError("you do not have permission to modify this group")
)

type (
	Repository interface {
		CreateGroup(ctx context.Context, grp Group) (Group, error)
		// GetGroup loads the matching Group with its Owner and Members (and their Users).
		GetGroup(ctx context.Context, filter GetFilter) (Group, error)
		QueryGroups(ctx context.Context) ([]Group, error)
		QueryGroupsByOwner(ctx context.Context, ownerID string) ([]Group, error)
		QueryGroupsByMember(ctx context.Context, userID string) ([]Group, error)
		UpdateGroup(ctx context.Context, grp Group) (Group, error)
		DeleteGroup(ctx context.Context, id string) error

		CreateMember(ctx context.Context, mbr Member) (Member, error)
		GetMember(ctx context.Context, groupID, userID string) (Member, error)
		DeleteMember(ctx context.Context, groupID, userID string) (int, error)
		DeleteMembersByGroupID(ctx context.Context, groupID string) (int, error)
	}

	Service interface {
		Create(ctx context.Context, ownerID string, ng NewGroup) (Group, error)
		QueryAll(ctx context.Context) ([]Group, error)
		GetByID(ctx context.Context, id string) (Group, error)
		QueryByOwner(ctx context.Context, ownerID string) ([]Group, error)
		QueryByMember(ctx context.Context, userID string) ([]Group, error)
		Update(ctx context.Context, requester user.User, id string, ug UpdateGroup) (Group, error)
		Remove(ctx context.Context, requester user.User, id string) (Group, error)
		AddMember(ctx context.Context, requesterID string, nm NewMember) (Member, error)
		RemoveMember(ctx context.Context, requester user.User, groupID, userID string) (bool, error)
	}

	service struct {
		repo  Repository
		users user.Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, users user.Repository) Service {
	return &service{
		repo:  repo,
		users: users,
	}
}

// Create creates a new Group owned by ownerID.
// The caller must have checked that ownerID holds the teacher role.
func (svc *service) Create(ctx context.Context, ownerID string, ng NewGroup) (Group, error) {
	if _, err := svc.repo.GetGroup(ctx, GetFilter{Name: ng.Name}); err == nil {
		return Group{}, ErrNameExists
	} else if !core.IsNotFound(err) {
		return Group{}, err
	}

	now := time.Now().UTC()
	grp := Group{
		Name:        ng.Name,
		Description: ng.Description,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateGroup(ctx, grp)
}

func (svc *service) QueryAll(ctx context.Context) ([]Group, error) {
	return svc.repo.QueryGroups(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Group, error) {
	return svc.repo.GetGroup(ctx, GetFilter{ID: id})
}

func (svc *service) QueryByOwner(ctx context.Context, ownerID string) ([]Group, error) {
	return svc.repo.QueryGroupsByOwner(ctx, ownerID)
}

func (svc *service) QueryByMember(ctx context.Context, userID string) ([]Group, error) {
	return svc.repo.QueryGroupsByMember(ctx, userID)
}

// Update applies partial field updates to an existing Group.
// The requester must be the group's owner or an admin.
func (svc *service) Update(ctx context.Context, requester user.User, id string, ug UpdateGroup) (Group, error) {
	grp, err := svc.repo.GetGroup(ctx, GetFilter{ID: id})
	if err != nil {
		return Group{}, err
	}
	if !requester.IsAdmin() && grp.OwnerID != requester.ID {
		return Group{}, ErrNotOwner
	}

	if ug.Name != "" && ug.Name != grp.Name {
		// renaming must not collide with another group
		if _, err = svc.repo.GetGroup(ctx, GetFilter{Name: ug.Name}); err == nil {
			return Group{}, ErrNameExists
		} else if !core.IsNotFound(err) {
			return Group{}, err
		}
		grp.Name = ug.Name
	}
	if ug.Description != nil {
		grp.Description = *ug.Description
	}
	grp.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateGroup(ctx, grp)
}

// Remove deletes a Group and all its membership records.
// The requester must be the group's owner or an admin.
// The two deletes are sequential; a missing group on the second call reports NotFound.
func (svc *service) Remove(ctx context.Context, requester user.User, id string) (Group, error) {
	grp, err := svc.repo.GetGroup(ctx, GetFilter{ID: id})
	if err != nil {
		return Group{}, err
	}
	if !requester.IsAdmin() && grp.OwnerID != requester.ID {
		return Group{}, ErrNotOwner
	}

	// remove all members first to maintain referential integrity
	if _, err = svc.repo.DeleteMembersByGroupID(ctx, id); err != nil {
		return Group{}, err
	}
	if err = svc.repo.DeleteGroup(ctx, id); err != nil {
		return Group{}, err
	}
	return grp, nil
}

// AddMember adds a User to a Group. The requester must be the group's owner.
func (svc *service) AddMember(ctx context.Context, requesterID string, nm NewMember) (Member, error) {
	grp, err := svc.repo.GetGroup(ctx, GetFilter{ID: nm.GroupID})
	if err != nil {
		return Member{}, err
	}
	if grp.OwnerID != requesterID {
		return Member{}, ErrNotOwner
	}

	if _, err = svc.users.GetUser(ctx, user.GetFilter{ID: nm.UserID}); err != nil {
		return Member{}, err
	}

	if _, err = svc.repo.GetMember(ctx, nm.GroupID, nm.UserID); err == nil {
		return Member{}, ErrAlreadyMember
	} else if !core.IsNotFound(err) {
		return Member{}, err
	}

	mbr := Member{
		GroupID:  nm.GroupID,
		UserID:   nm.UserID,
		Role:     nm.Role,
		JoinedAt: time.Now().UTC(),
	}
	return svc.repo.CreateMember(ctx, mbr)
}

// RemoveMember deletes a membership record; it reports false, without error,
// when no such member exists. The requester must be the group's owner or an admin.
func (svc *service) RemoveMember(ctx context.Context, requester user.User, groupID, userID string) (bool, error) {
	grp, err := svc.repo.GetGroup(ctx, GetFilter{ID: groupID})
	if err != nil {
		return false, err
	}
	if !requester.IsAdmin() && grp.OwnerID != requester.ID {
		return false, ErrNotOwner
	}

	cnt, err := svc.repo.DeleteMember(ctx, groupID, userID)
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}
