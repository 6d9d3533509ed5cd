package dummydb

import (
	"sync"

	"github.com/darasalabs/darasa/core/activity"
	"github.com/darasalabs/darasa/core/group"
	"github.com/darasalabs/darasa/core/user"
)

// DB is an in-memory database used in tests.
type (
	DB struct {
		user     *userTable
		group    *groupTable
		activity *activityTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	groupTable struct {
		sync.RWMutex
		groups  map[string]*group.Group
		members map[string]*group.Member // keyed groupID + "/" + userID
	}

	activityTable struct {
		sync.RWMutex
		table     map[string]*activity.Activity
		attendees map[string]map[string]bool // activityID -> set of userIDs
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		group: &groupTable{
			groups:  make(map[string]*group.Group),
			members: make(map[string]*group.Member),
		},
		activity: &activityTable{
			table:     make(map[string]*activity.Activity),
			attendees: make(map[string]map[string]bool),
		},
	}
	return db, nil
}
