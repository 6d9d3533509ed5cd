package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/darasalabs/darasa/core"
	"github.com/darasalabs/darasa/core/activity"
	"github.com/darasalabs/darasa/core/group"
	"github.com/darasalabs/darasa/core/user"
	emailsvc "github.com/darasalabs/darasa/services/email"
	dummydb "github.com/darasalabs/darasa/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	app     Server
	conf    *core.Config
	usrRepo user.Repository
	grpRepo group.Repository
	actRepo activity.Repository
	usrSvc  user.Service
}

func setup(t *testing.T) *testEnv {
	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	usrRepo := dummydb.NewUserRepository(db)
	grpRepo := dummydb.NewGroupRepository(db)
	actRepo := dummydb.NewActivityRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewServiceMock(usrRepo, mailSvc, conf)
	grpSvc := group.NewService(grpRepo, usrRepo)
	actSvc := activity.NewService(actRepo, grpRepo, usrRepo)

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	group.InitValidators(validate, translator)
	activity.InitValidators(validate, translator)

	// set up server
	app := NewServer(
		ServerDeps{
			Conf:        conf,
			Logger:      testLogger{std: log.New(os.Stdout, "TEST : ", log.LstdFlags)},
			UserSvc:     usrSvc,
			GroupSvc:    grpSvc,
			ActivitySvc: actSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)

	return &testEnv{
		app:     app,
		conf:    conf,
		usrRepo: usrRepo,
		grpRepo: grpRepo,
		actRepo: actRepo,
		usrSvc:  usrSvc,
	}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type testLogger struct {
	std *log.Logger
}

func (l testLogger) Enable(enabled bool) {}

func (l testLogger) Debug(msg string, args ...interface{}) { l.std.Println(msg) }

func (l testLogger) Info(msg string, args ...interface{}) { l.std.Println(msg) }

func (l testLogger) Warn(msg string, args ...interface{}) { l.std.Println(msg) }

func (l testLogger) Error(msg string, args ...interface{}) { l.std.Println(msg) }

func (l testLogger) Fatal(msg string, args ...interface{}) { l.std.Fatal(msg) }

func (env *testEnv) createUser(t *testing.T, fname, lname, email, pwd, role string, isActive bool, createdAt ...time.Time) user.User {
	t.Helper()

	now := time.Now().UTC()
	if len(createdAt) > 0 {
		now = createdAt[0].UTC()
	}
	usr := user.User{
		FirstName: fname,
		LastName:  lname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("SetPassword(): %v", err)
		}
	}
	usr, err := env.usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

func (env *testEnv) createGroup(t *testing.T, name string, owner user.User) group.Group {
	t.Helper()

	now := time.Now().UTC()
	grp, err := env.grpRepo.CreateGroup(context.Background(), group.Group{
		Name:      name,
		OwnerID:   owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateGroup(): %v", err)
	}
	return grp
}

func (env *testEnv) addMember(t *testing.T, grp group.Group, usr user.User, role string) group.Member {
	t.Helper()

	mbr, err := env.grpRepo.CreateMember(context.Background(), group.Member{
		GroupID:  grp.ID,
		UserID:   usr.ID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateMember(): %v", err)
	}
	return mbr
}

func (env *testEnv) createActivity(t *testing.T, title, state string, grp group.Group, creator user.User, scheduledAt time.Time) activity.Activity {
	t.Helper()

	now := time.Now().UTC()
	act, err := env.actRepo.CreateActivity(context.Background(), activity.Activity{
		Title:       title,
		Description: title + " description",
		ScheduledAt: scheduledAt.UTC(),
		State:       state,
		CreatedByID: creator.ID,
		GroupID:     grp.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateActivity(): %v", err)
	}
	return act
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	// A nil variadic slice marshals to "null"; an empty expectation is "[]".
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
