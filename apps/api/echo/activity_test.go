package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/darasalabs/darasa/core/activity"
	"github.com/darasalabs/darasa/core/group"
	"github.com/darasalabs/darasa/core/user"
)

func Test_activityApi_create(t *testing.T) {
	env := setup(t)

	teacher := env.createUser(t, "John", "Keating", "keating@test.cd", "!5ecr3t!", user.RoleTeacher, true)
	otherTeacher := env.createUser(t, "Mc", "Allister", "allister@test.cd", "!5ecr3t!", user.RoleTeacher, true)
	student := env.createUser(t, "Todd", "Anderson", "todd@test.cd", "!5ecr3t!", user.RoleStudent, true)
	grp := env.createGroup(t, "Poetry Club", teacher)

	scheduledAt := time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(time.Second)
	newActivity := func(groupID, state string) []byte {
		return marchallObj(t, activity.NewActivity{
			Title:       "Poetry Reading",
			Description: "Bring your own verses",
			GroupID:     groupID,
			ScheduledAt: scheduledAt,
			State:       state,
			Location:    "The cave",
		})
	}

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "students cannot create activities", token: getToken(t, student),
			body:     newActivity(grp.ID, ""),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDeniedResp),
		},
		{
			name: "empty body", token: getToken(t, teacher), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"title": "this field is required", "description": "this field is required",
				"group_id": "this field is required", "scheduled_at": "this field is required",
			}),
		},
		{
			name: "invalid state", token: getToken(t, teacher), body: newActivity(grp.ID, "POSTPONED"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"state": "invalid activity state"}),
		},
		{
			name: "unknown group", token: getToken(t, teacher), body: newActivity("lol", ""),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "group not found"}),
		},
		{
			name: "not the group owner", token: getToken(t, otherTeacher), body: newActivity(grp.ID, ""),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "you can only create activities for groups you own"}),
		},
		{name: "create ok", token: getToken(t, teacher), body: newActivity(grp.ID, ""), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/activities", tt.token, tt.body)
			env.app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				assert.Equal(t, http.StatusCreated, rec.Code)
				var resp activity.Activity
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("json.Unmarshal() failed, %v", err)
				}
				assert.NotEmpty(t, resp.ID)
				assert.Equal(t, "Poetry Reading", resp.Title)
				assert.Equal(t, activity.StateNew, resp.State) // NEW is the default initial state
				assert.Equal(t, scheduledAt, resp.ScheduledAt)
				assert.Equal(t, teacher.ID, resp.CreatedByID)
				assert.Equal(t, grp.ID, resp.GroupID)
				if assert.NotNil(t, resp.Group) {
					assert.Equal(t, grp.Name, resp.Group.Name)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_activityApi_retrieve(t *testing.T) {
	env := setup(t)

	teacher := env.createUser(t, "John", "Keating", "keating@test.cd", "!5ecr3t!", user.RoleTeacher, true)
	student := env.createUser(t, "Todd", "Anderson", "todd@test.cd", "!5ecr3t!", user.RoleStudent, true)
	grp := env.createGroup(t, "Poetry Club", teacher)
	act := env.createActivity(t, "Poetry Reading", activity.StateNew, grp, teacher, time.Now().Add(24*time.Hour))

	loaded, err := env.actRepo.GetActivity(context.Background(), act.ID)
	if err != nil {
		t.Fatalf("GetActivity() failed, %v", err)
	}

	tests := []httpTest{
		{
			name: "auth required", path: "/v1/activities/" + act.ID,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "unknown activity", path: "/v1/activities/lol", token: getToken(t, student),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "activity not found"}),
		},
		{
			name: "activity with relations", path: "/v1/activities/" + act.ID, token: getToken(t, student),
			wantCode: http.StatusOK, wantData: marchallObj(t, loaded),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_activityApi_queryByGroup(t *testing.T) {
	env := setup(t)

	teacher := env.createUser(t, "John", "Keating", "keating@test.cd", "!5ecr3t!", user.RoleTeacher, true)
	student := env.createUser(t, "Todd", "Anderson", "todd@test.cd", "!5ecr3t!", user.RoleStudent, true)
	grp := env.createGroup(t, "Poetry Club", teacher)
	otherGrp := env.createGroup(t, "Latin Club", teacher)

	now := time.Now()
	later := env.createActivity(t, "Poetry Reading", activity.StateNew, grp, teacher, now.Add(48*time.Hour))
	sooner := env.createActivity(t, "Verse Workshop", activity.StateNew, grp, teacher, now.Add(24*time.Hour))
	env.createActivity(t, "Declensions 101", activity.StateNew, otherGrp, teacher, now.Add(24*time.Hour))

	tests := []httpTest{
		{
			name: "auth required", path: "/v1/groups/" + grp.ID + "/activities",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "unknown group yields empty list", path: "/v1/groups/lol/activities", token: getToken(t, student),
			wantCode: http.StatusOK, wantData: marchallList(t),
		},
		{
			// scheduled_at ascending
			name: "group activities", path: "/v1/groups/" + grp.ID + "/activities", token: getToken(t, student),
			wantCode: http.StatusOK, wantData: marchallList(t, sooner, later),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_activityApi_queryTeaching(t *testing.T) {
	env := setup(t)

	teacher := env.createUser(t, "John", "Keating", "keating@test.cd", "!5ecr3t!", user.RoleTeacher, true)
	otherTeacher := env.createUser(t, "Mc", "Allister", "allister@test.cd", "!5ecr3t!", user.RoleTeacher, true)
	student := env.createUser(t, "Todd", "Anderson", "todd@test.cd", "!5ecr3t!", user.RoleStudent, true)
	grp := env.createGroup(t, "Poetry Club", teacher)
	otherGrp := env.createGroup(t, "Latin Club", otherTeacher)

	act := env.createActivity(t, "Poetry Reading", activity.StateNew, grp, teacher, time.Now().Add(24*time.Hour))
	env.createActivity(t, "Declensions 101", activity.StateNew, otherGrp, otherTeacher, time.Now().Add(24*time.Hour))

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "teacher required", token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDeniedResp),
		},
		{
			name: "own activities only", token: getToken(t, teacher),
			wantCode: http.StatusOK, wantData: marchallList(t, act),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/activities/teaching", tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_activityApi_queryFeed(t *testing.T) {
	env := setup(t)

	teacher := env.createUser(t, "John", "Keating", "keating@test.cd", "!5ecr3t!", user.RoleTeacher, true)
	member := env.createUser(t, "Todd", "Anderson", "todd@test.cd", "!5ecr3t!", user.RoleStudent, true)
	outsider := env.createUser(t, "Neil", "Perry", "neil@test.cd", "!5ecr3t!", user.RoleStudent, true)
	grp := env.createGroup(t, "Poetry Club", teacher)
	otherGrp := env.createGroup(t, "Latin Club", teacher)
	env.addMember(t, grp, member, group.RoleCommonMember)

	act := env.createActivity(t, "Poetry Reading", activity.StateNew, grp, teacher, time.Now().Add(24*time.Hour))
	env.createActivity(t, "Declensions 101", activity.StateNew, otherGrp, teacher, time.Now().Add(24*time.Hour))

	feed, err := env.actRepo.QueryActivitiesByMember(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("QueryActivitiesByMember() failed, %v", err)
	}
	if assert.Len(t, feed, 1) {
		assert.Equal(t, act.ID, feed[0].ID)
	}

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "student required", token: getToken(t, teacher),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDeniedResp),
		},
		{
			name: "non-member sees an empty feed", token: getToken(t, outsider),
			wantCode: http.StatusOK, wantData: marchallList(t),
		},
		{
			name: "member sees the group's activities", token: getToken(t, member),
			wantCode: http.StatusOK, wantData: marchallObj(t, feed),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/activities/feed", tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_activityApi_queryJoined(t *testing.T) {
	env := setup(t)

	teacher := env.createUser(t, "John", "Keating", "keating@test.cd", "!5ecr3t!", user.RoleTeacher, true)
	member := env.createUser(t, "Todd", "Anderson", "todd@test.cd", "!5ecr3t!", user.RoleStudent, true)
	grp := env.createGroup(t, "Poetry Club", teacher)
	env.addMember(t, grp, member, group.RoleCommonMember)

	act := env.createActivity(t, "Poetry Reading", activity.StateNew, grp, teacher, time.Now().Add(24*time.Hour))
	env.createActivity(t, "Verse Workshop", activity.StateNew, grp, teacher, time.Now().Add(48*time.Hour))
	if err := env.actRepo.AddAttendee(context.Background(), act.ID, member.ID); err != nil {
		t.Fatalf("AddAttendee() failed, %v", err)
	}

	joined, err := env.actRepo.QueryAttendedActivities(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("QueryAttendedActivities() failed, %v", err)
	}

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "student required", token: getToken(t, teacher),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDeniedResp),
		},
		{
			name: "joined activities only", token: getToken(t, member),
			wantCode: http.StatusOK, wantData: marchallObj(t, joined),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/activities/joined", tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_activityApi_updateState(t *testing.T) {
	env := setup(t)

	teacher := env.createUser(t, "John", "Keating", "keating@test.cd", "!5ecr3t!", user.RoleTeacher, true)
	otherTeacher := env.createUser(t, "Mc", "Allister", "allister@test.cd", "!5ecr3t!", user.RoleTeacher, true)
	grp := env.createGroup(t, "Poetry Club", teacher)
	act := env.createActivity(t, "Poetry Reading", activity.StateNew, grp, teacher, time.Now().Add(24*time.Hour))

	stateBody := func(state string) []byte {
		return marchallObj(t, activity.UpdateActivityState{State: state})
	}

	tests := []httpTest{
		{
			name: "auth required", path: "/v1/activities/" + act.ID + "/state",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "empty body", path: "/v1/activities/" + act.ID + "/state", token: getToken(t, teacher),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"state": "this field is required"}),
		},
		{
			name: "invalid state", path: "/v1/activities/" + act.ID + "/state", token: getToken(t, teacher),
			body:     stateBody("POSTPONED"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"state": "invalid activity state"}),
		},
		{
			name: "unknown activity", path: "/v1/activities/lol/state", token: getToken(t, teacher),
			body:     stateBody(activity.StateInProgress),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "activity not found"}),
		},
		{
			name: "not the creator", path: "/v1/activities/" + act.ID + "/state", token: getToken(t, otherTeacher),
			body:     stateBody(activity.StateInProgress),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "only the creator can update this activity"}),
		},
		{
			name: "creator starts the activity", path: "/v1/activities/" + act.ID + "/state", token: getToken(t, teacher),
			body: stateBody(activity.StateInProgress), wantCode: http.StatusOK, extra: activity.StateInProgress,
		},
		{
			name: "creator cancels the activity", path: "/v1/activities/" + act.ID + "/state", token: getToken(t, teacher),
			body: stateBody(activity.StateCanceled), wantCode: http.StatusOK, extra: activity.StateCanceled,
		},
		{
			// any state is reachable from any state
			name: "creator reopens a canceled activity", path: "/v1/activities/" + act.ID + "/state", token: getToken(t, teacher),
			body: stateBody(activity.StateNew), wantCode: http.StatusOK, extra: activity.StateNew,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			env.app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, http.StatusOK, rec.Code)
				var resp activity.Activity
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("json.Unmarshal() failed, %v", err)
				}
				assert.Equal(t, tt.extra, resp.State)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_activityApi_join(t *testing.T) {
	env := setup(t)

	teacher := env.createUser(t, "John", "Keating", "keating@test.cd", "!5ecr3t!", user.RoleTeacher, true)
	member := env.createUser(t, "Todd", "Anderson", "todd@test.cd", "!5ecr3t!", user.RoleStudent, true)
	outsider := env.createUser(t, "Neil", "Perry", "neil@test.cd", "!5ecr3t!", user.RoleStudent, true)
	grp := env.createGroup(t, "Poetry Club", teacher)
	env.addMember(t, grp, member, group.RoleCommonMember)

	act := env.createActivity(t, "Poetry Reading", activity.StateNew, grp, teacher, time.Now().Add(24*time.Hour))
	done := env.createActivity(t, "Verse Workshop", activity.StateCompleted, grp, teacher, time.Now().Add(-24*time.Hour))
	canceled := env.createActivity(t, "Open Mic", activity.StateCanceled, grp, teacher, time.Now().Add(48*time.Hour))

	joinPath := func(id string) string { return "/v1/activities/" + id + "/join" }

	tests := []httpTest{
		{
			name: "auth required", path: joinPath(act.ID),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "student required", path: joinPath(act.ID), token: getToken(t, teacher),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDeniedResp),
		},
		{
			name: "unknown activity", path: joinPath("lol"), token: getToken(t, member),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "activity not found"}),
		},
		{
			name: "not a group member", path: joinPath(act.ID), token: getToken(t, outsider),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "you must be a member of the group to join this activity"}),
		},
		{
			name: "completed activities cannot be joined", path: joinPath(done.ID), token: getToken(t, member),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "this activity is no longer open for joining"}),
		},
		{
			name: "canceled activities cannot be joined", path: joinPath(canceled.ID), token: getToken(t, member),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "this activity is no longer open for joining"}),
		},
		{name: "member joins", path: joinPath(act.ID), token: getToken(t, member), wantCode: http.StatusOK, extra: true},
		{name: "joining twice is a no-op", path: joinPath(act.ID), token: getToken(t, member), wantCode: http.StatusOK, extra: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)

			if joined, ok := tt.extra.(bool); ok && joined {
				assert.Equal(t, http.StatusOK, rec.Code)
				var resp activity.Activity
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("json.Unmarshal() failed, %v", err)
				}
				if assert.Len(t, resp.Attendees, 1) {
					assert.Equal(t, member.ID, resp.Attendees[0].ID)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
