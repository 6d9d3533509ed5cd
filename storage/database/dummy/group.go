package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasalabs/darasa/core/group"
)

type groupRepository struct {
	db *DB
}

var _ group.Repository = (*groupRepository)(nil) // interface compliance check

func NewGroupRepository(db *DB) group.Repository {
	return &groupRepository{db: db}
}

// load returns a copy of the group with its Owner and Members (and their Users) loaded.
// Callers hold the group table lock; the user table has its own lock.
func (repo *groupRepository) load(grp group.Group) group.Group {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	if owner, ok := repo.db.user.table[grp.OwnerID]; ok {
		ownerCopy := *owner
		grp.Owner = &ownerCopy
	}

	members := make([]group.Member, 0)
	for _, mbr := range repo.db.group.members {
		if mbr.GroupID != grp.ID {
			continue
		}
		m := *mbr
		if usr, ok := repo.db.user.table[m.UserID]; ok {
			usrCopy := *usr
			m.User = &usrCopy
		}
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].JoinedAt.Before(members[j].JoinedAt) })
	grp.Members = members
	return grp
}

func (repo *groupRepository) query() []group.Group {
	groups := make([]group.Group, 0, len(repo.db.group.groups))
	for _, grp := range repo.db.group.groups {
		groups = append(groups, repo.load(*grp))
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].CreatedAt.Before(groups[j].CreatedAt) })
	return groups
}

func (repo *groupRepository) CreateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	repo.db.group.Lock()
	defer repo.db.group.Unlock()

	grp.ID = uuid.New().String()
	stored := grp
	repo.db.group.groups[grp.ID] = &stored
	return repo.load(grp), nil
}

func (repo *groupRepository) GetGroup(ctx context.Context, filter group.GetFilter) (group.Group, error) {
	repo.db.group.RLock()
	defer repo.db.group.RUnlock()

	if filter.ID != "" {
		if grp, ok := repo.db.group.groups[filter.ID]; ok {
			return repo.load(*grp), nil
		}
		return group.Group{}, group.ErrNotFound
	}
	for _, grp := range repo.db.group.groups {
		if grp.Name == filter.Name {
			return repo.load(*grp), nil
		}
	}
	return group.Group{}, group.ErrNotFound
}

func (repo *groupRepository) QueryGroups(ctx context.Context) ([]group.Group, error) {
	repo.db.group.RLock()
	defer repo.db.group.RUnlock()
	return repo.query(), nil
}

func (repo *groupRepository) QueryGroupsByOwner(ctx context.Context, ownerID string) ([]group.Group, error) {
	repo.db.group.RLock()
	defer repo.db.group.RUnlock()

	groups := make([]group.Group, 0)
	for _, grp := range repo.query() {
		if grp.OwnerID == ownerID {
			groups = append(groups, grp)
		}
	}
	return groups, nil
}

func (repo *groupRepository) QueryGroupsByMember(ctx context.Context, userID string) ([]group.Group, error) {
	repo.db.group.RLock()
	defer repo.db.group.RUnlock()

	groups := make([]group.Group, 0)
	for _, grp := range repo.query() {
		if grp.HasMember(userID) {
			groups = append(groups, grp)
		}
	}
	return groups, nil
}

func (repo *groupRepository) UpdateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	repo.db.group.Lock()
	defer repo.db.group.Unlock()

	orig, ok := repo.db.group.groups[grp.ID]
	if !ok {
		return group.Group{}, group.ErrNotFound
	}
	orig.Name = grp.Name
	orig.Description = grp.Description
	orig.UpdatedAt = grp.UpdatedAt
	return repo.load(*orig), nil
}

func (repo *groupRepository) DeleteGroup(ctx context.Context, id string) error {
	repo.db.group.Lock()
	defer repo.db.group.Unlock()

	delete(repo.db.group.groups, id)
	return nil
}

func (repo *groupRepository) CreateMember(ctx context.Context, mbr group.Member) (group.Member, error) {
	repo.db.group.Lock()
	defer repo.db.group.Unlock()

	mbr.ID = uuid.New().String()
	stored := mbr
	repo.db.group.members[mbr.GroupID+"/"+mbr.UserID] = &stored

	repo.db.user.RLock()
	if usr, ok := repo.db.user.table[mbr.UserID]; ok {
		usrCopy := *usr
		mbr.User = &usrCopy
	}
	repo.db.user.RUnlock()
	return mbr, nil
}

func (repo *groupRepository) GetMember(ctx context.Context, groupID, userID string) (group.Member, error) {
	repo.db.group.RLock()
	defer repo.db.group.RUnlock()

	if mbr, ok := repo.db.group.members[groupID+"/"+userID]; ok {
		return *mbr, nil
	}
	return group.Member{}, group.ErrMemberNotFound
}

func (repo *groupRepository) DeleteMember(ctx context.Context, groupID, userID string) (int, error) {
	repo.db.group.Lock()
	defer repo.db.group.Unlock()

	key := groupID + "/" + userID
	if _, ok := repo.db.group.members[key]; !ok {
		return 0, nil
	}
	delete(repo.db.group.members, key)
	return 1, nil
}

func (repo *groupRepository) DeleteMembersByGroupID(ctx context.Context, groupID string) (int, error) {
	repo.db.group.Lock()
	defer repo.db.group.Unlock()

	var cnt int
	for key, mbr := range repo.db.group.members {
		if mbr.GroupID == groupID {
			delete(repo.db.group.members, key)
			cnt++
		}
	}
	return cnt, nil
}
