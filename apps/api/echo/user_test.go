package echoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/darasalabs/darasa/core/user"
	emailsvc "github.com/darasalabs/darasa/services/email"
)

var (
	errNotFoundResp         = httpErr{Error: "not found"}
	errPermissionDeniedResp = httpErr{Error: "permission denied"}
)

func Test_userApi_login(t *testing.T) {
	env := setup(t)

	usr := env.createUser(t, "King", "Kong", "king@test.cd", "LionKing", user.RoleStudent, true)
	env.createUser(t, "Dead", "Pool", "dead@test.cd", "p@sSw0rd", user.RoleTeacher, false)

	tests := []httpTest{
		{
			name: "empty body", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "this field is required", "password": "this field is required"}),
		},
		{
			name: "invalid email", body: marchallObj(t, LoginRequest{Email: "king", Password: "LionKing"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name: "unknown email", body: marchallObj(t, LoginRequest{Email: "kong@test.cd", Password: "LionKing"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", body: marchallObj(t, LoginRequest{Email: usr.Email, Password: "TheLionKing"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", body: marchallObj(t, LoginRequest{Email: "dead@test.cd", Password: "p@sSw0rd"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "login ok", body: marchallObj(t, LoginRequest{Email: " King@test.cd ", Password: "LionKing"}), // cleaned & lowered
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			env.app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, http.StatusOK, rec.Code)
				var resp LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("json.Unmarshal() failed, %v", err)
				}
				assert.NotEmpty(t, resp.Token)

				// successful login must update lastLogin
				refreshed, err := env.usrRepo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
				if err != nil {
					t.Fatalf("GetUser() failed, %v", err)
				}
				assert.False(t, refreshed.LastLogin.IsZero())
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_register(t *testing.T) {
	env := setup(t)

	env.createUser(t, "Taken", "Already", "taken@test.cd", "G0tThere1st!", user.RoleStudent, true)

	newUser := func(email, pwd, role string) []byte {
		return marchallObj(t, user.NewUser{
			FirstName: "Jon", LastName: "Snow", Email: email,
			Password: pwd, PasswordConfirm: pwd, Role: role,
		})
	}

	tests := []httpTest{
		{
			name: "empty body", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"first_name": "this field is required", "last_name": "this field is required",
				"email": "this field is required", "password": "password must contain at least 8 characters",
				"password_confirm": "this field is required", "role": "this field is required",
			}),
		},
		{
			name: "invalid role", body: newUser("jon@test.cd", "Wint3r!sComing", "KING"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"role": "invalid role"}),
		},
		{
			name: "no self-service admin", body: newUser("jon@test.cd", "Wint3r!sComing", user.RoleAdmin),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"role": "the admin role cannot be self-assigned"}),
		},
		{
			name: "password too short", body: newUser("jon@test.cd", "Sh0rt!", user.RoleStudent),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password": "password must contain at least 8 characters"}),
		},
		{
			name: "password all numeric", body: newUser("jon@test.cd", "12345678", user.RoleStudent),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password": "password cannot be entirely numeric"}),
		},
		{
			name: "password not complex enough", body: newUser("jon@test.cd", "wintiscoming", user.RoleStudent),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"password": "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character",
			}),
		},
		{
			name: "email already taken", body: newUser("taken@test.cd", "Wint3r!sComing", user.RoleStudent),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "a user with this email already exists"}),
		},
		{
			name: "register student ok", body: newUser("jon@test.cd", "Wint3r!sComing", user.RoleStudent),
			wantCode: http.StatusCreated, extra: user.RoleStudent,
		},
		{
			name: "register teacher ok", body: newUser("ned@test.cd", "Wint3r!sComing", user.RoleTeacher),
			wantCode: http.StatusCreated, extra: user.RoleTeacher,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentCount := len(emailsvc.SentMessages)

			req, rec := newRequest(http.MethodPost, "/v1/users/register", tt.body)
			env.app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				assert.Equal(t, http.StatusCreated, rec.Code)
				var resp RegisterResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("json.Unmarshal() failed, %v", err)
				}
				assert.NotEmpty(t, resp.Token)
				assert.NotEmpty(t, resp.User.ID)
				assert.Equal(t, tt.extra, resp.User.Role)
				assert.True(t, resp.User.IsActive)

				// a welcome email is sent out
				if assert.Equal(t, sentCount+1, len(emailsvc.SentMessages)) {
					assert.Contains(t, emailsvc.SentMessages[sentCount].Subject, "Welcome")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_refreshToken(t *testing.T) {
	env := setup(t)

	usr := env.createUser(t, "King", "Kong", "king@test.cd", "LionKing", user.RoleStudent, true)
	deadUsr := env.createUser(t, "Dead", "Pool", "dead@test.cd", "p@sSw0rd", user.RoleTeacher, false)

	expiredRefresh := time.Now().Add(-(env.conf.Server.JWTRefreshExpirationDelta + time.Hour)).Unix()
	expiredToken, err := GenerateToken(GetUserClaims(usr, expiredRefresh))
	if err != nil {
		t.Fatalf("GenerateToken() failed, %v", err)
	}

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "deactivated account", token: getToken(t, deadUsr),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "refresh expired", token: expiredToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"}),
		},
		{name: "refresh ok", token: getToken(t, usr), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", tt.token)
			env.app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, http.StatusOK, rec.Code)
				var resp LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("json.Unmarshal() failed, %v", err)
				}
				assert.NotEmpty(t, resp.Token)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_resetPassword(t *testing.T) {
	env := setup(t)

	usr := env.createUser(t, "King", "Kong", "king@test.cd", "LionKing", user.RoleStudent, true)

	boilerplateResp := marchallObj(t, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})

	tests := []httpTest{
		{
			name: "empty body", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "this field is required"}),
		},
		{
			name: "invalid email", body: marchallObj(t, PasswordResetRequest{Email: "king"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			// do not leak account existence
			name: "unknown email", body: marchallObj(t, PasswordResetRequest{Email: "kong@test.cd"}),
			wantCode: http.StatusOK, wantData: boilerplateResp,
		},
		{
			name: "reset requested", body: marchallObj(t, PasswordResetRequest{Email: usr.Email}),
			wantCode: http.StatusOK, wantData: boilerplateResp, extra: true, // email sent
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentCount := len(emailsvc.SentMessages)

			req, rec := newRequest(http.MethodPost, "/v1/users/password-reset", tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if wantMail, ok := tt.extra.(bool); ok && wantMail {
				if assert.Equal(t, sentCount+1, len(emailsvc.SentMessages)) {
					msg := emailsvc.SentMessages[sentCount]
					assert.Equal(t, "Password Reset", msg.Subject)
					assert.Equal(t, usr.Email, msg.To[0].Address)
					assert.Contains(t, msg.TextContent, "uid="+user.EncodeUID(usr))
				}
			} else {
				assert.Equal(t, sentCount, len(emailsvc.SentMessages))
			}
		})
	}
}

func Test_userApi_confirmPasswordReset(t *testing.T) {
	env := setup(t)

	usr := env.createUser(t, "King", "Kong", "king@test.cd", "LionKing", user.RoleStudent, true)
	otherUsr := env.createUser(t, "Dead", "Pool", "dead@test.cd", "p@sSw0rd", user.RoleTeacher, true)

	// a token made 5 days ago is past the reset timeout (3 days)
	user.NowFunc = func() time.Time { return time.Now().Add(-(env.conf.PasswordResetTimeoutDelta + 48*time.Hour)) }
	expiredToken := user.MakeToken(usr)
	user.NowFunc = time.Now

	newPwd := "Wint3r!sComing"
	resetBody := func(uid, token string) []byte {
		return marchallObj(t, user.ResetUserPassword{
			UID: uid, Token: token, Password: newPwd, PasswordConfirm: newPwd,
		})
	}

	tests := []httpTest{
		{
			name: "empty body", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"token": "this field is required", "uid": "this field is required",
				"password": "this field is required", "password_confirm": "this field is required",
			}),
		},
		{
			name: "invalid uid", body: resetBody("lol!", user.MakeToken(usr)),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "invalid token"}),
		},
		{
			name: "token for another user", body: resetBody(user.EncodeUID(otherUsr), user.MakeToken(usr)),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "invalid token"}),
		},
		{
			name: "expired token", body: resetBody(user.EncodeUID(usr), expiredToken),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "token expired"}),
		},
		{
			name: "password reset", body: resetBody(user.EncodeUID(usr), user.MakeToken(usr)),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, SuccessResponse{Success: "Password has been reset with the new password."}),
			extra:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/password-reset-confirm", tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if done, ok := tt.extra.(bool); ok && done {
				refreshed, err := env.usrRepo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
				if err != nil {
					t.Fatalf("GetUser() failed, %v", err)
				}
				assert.NoError(t, refreshed.CheckPassword(newPwd))
				assert.Error(t, refreshed.CheckPassword("LionKing"))
			}
		})
	}
}

func Test_userApi_query(t *testing.T) {
	env := setup(t)

	now := time.Now().UTC()
	admin := env.createUser(t, "Big", "Boss", "boss@test.cd", "!5ecr3t!", user.RoleAdmin, true, now.Add(-4*time.Hour))
	teacher := env.createUser(t, "John", "Keating", "keating@test.cd", "!5ecr3t!", user.RoleTeacher, true, now.Add(-3*time.Hour))
	student := env.createUser(t, "Todd", "Anderson", "todd@test.cd", "!5ecr3t!", user.RoleStudent, true, now.Add(-2*time.Hour))
	inactive := env.createUser(t, "Neil", "Perry", "neil@test.cd", "!5ecr3t!", user.RoleStudent, false, now.Add(-time.Hour))

	tests := []httpTest{
		{name: "auth required", path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", path: "/v1/users", token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDeniedResp),
		},
		{
			name: "all", path: "/v1/users", token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallList(t, admin, teacher, student, inactive),
		},
		{
			name: "search by name", path: "/v1/users?search=anderson", token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallList(t, student),
		},
		{
			name: "filter by role", path: "/v1/users?role=teacher", token: getToken(t, admin), // case-insensitive
			wantCode: http.StatusOK, wantData: marchallList(t, teacher),
		},
		{
			name: "filter inactive", path: "/v1/users?is_active=false", token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallList(t, inactive),
		},
		{
			name: "filter by creation window", token: getToken(t, admin),
			path:     fmt.Sprintf("/v1/users?created_from=%s", now.Add(-150*time.Minute).Format(time.RFC3339)),
			wantCode: http.StatusOK, wantData: marchallList(t, student, inactive),
		},
		{
			name: "no match", path: "/v1/users?search=nobody", token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallList(t),
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

func Test_userApi_queryRoles(t *testing.T) {
	env := setup(t)

	admin := env.createUser(t, "Big", "Boss", "boss@test.cd", "!5ecr3t!", user.RoleAdmin, true)
	student := env.createUser(t, "Todd", "Anderson", "todd@test.cd", "!5ecr3t!", user.RoleStudent, true)

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDeniedResp),
		},
		{name: "all roles", token: getToken(t, admin), wantCode: http.StatusOK, wantData: marchallObj(t, user.Roles)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users/roles", tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_retrieve(t *testing.T) {
	env := setup(t)

	admin := env.createUser(t, "Big", "Boss", "boss@test.cd", "!5ecr3t!", user.RoleAdmin, true)
	student := env.createUser(t, "Todd", "Anderson", "todd@test.cd", "!5ecr3t!", user.RoleStudent, true)
	teacher := env.createUser(t, "John", "Keating", "keating@test.cd", "!5ecr3t!", user.RoleTeacher, true)

	tests := []httpTest{
		{
			name: "auth required", path: "/v1/users/" + student.ID,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			// object existence is not leaked to non-owners
			name: "not owner", path: "/v1/users/" + teacher.ID, token: getToken(t, student),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFoundResp),
		},
		{
			name: "unknown id", path: "/v1/users/lol", token: getToken(t, admin),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFoundResp),
		},
		{
			name: "own profile", path: "/v1/users/" + student.ID, token: getToken(t, student),
			wantCode: http.StatusOK, wantData: marchallObj(t, student),
		},
		{
			name: "admin reads any profile", path: "/v1/users/" + teacher.ID, token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallObj(t, teacher),
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

func Test_userApi_update(t *testing.T) {
	env := setup(t)

	admin := env.createUser(t, "Big", "Boss", "boss@test.cd", "!5ecr3t!", user.RoleAdmin, true)
	student := env.createUser(t, "Todd", "Anderson", "todd@test.cd", "!5ecr3t!", user.RoleStudent, true)

	isActive := false
	type want struct {
		fname    string
		isActive bool
	}
	tests := []httpTest{
		{
			name: "auth required", path: "/v1/users/" + student.ID,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "not owner", path: "/v1/users/" + student.ID, token: getToken(t, otherUser(t, env)),
			body:     marchallObj(t, user.UpdateUser{FirstName: "Hacked"}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFoundResp),
		},
		{
			name: "only admin can deactivate", path: "/v1/users/" + student.ID, token: getToken(t, student),
			body:     marchallObj(t, user.UpdateUser{IsActive: &isActive}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDeniedResp),
		},
		{
			name: "only admin can change email", path: "/v1/users/" + student.ID, token: getToken(t, student),
			body:     marchallObj(t, user.UpdateUser{Email: "new@test.cd"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDeniedResp),
		},
		{
			name: "update own name", path: "/v1/users/" + student.ID, token: getToken(t, student),
			body:     marchallObj(t, user.UpdateUser{FirstName: "Theodore"}),
			wantCode: http.StatusOK, extra: want{fname: "Theodore", isActive: true},
		},
		{
			name: "admin deactivates account", path: "/v1/users/" + student.ID, token: getToken(t, admin),
			body:     marchallObj(t, user.UpdateUser{IsActive: &isActive}),
			wantCode: http.StatusOK, extra: want{fname: "Theodore", isActive: false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			env.app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, http.StatusOK, rec.Code)
				var resp user.User
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("json.Unmarshal() failed, %v", err)
				}
				want := tt.extra.(want)
				assert.Equal(t, want.fname, resp.FirstName)
				assert.Equal(t, want.isActive, resp.IsActive)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

// otherUser seeds an unrelated non-admin so permission checks are not conflated with ownership.
func otherUser(t *testing.T, env *testEnv) user.User {
	return env.createUser(t, "Some", "Body", fmt.Sprintf("somebody-%d@test.cd", time.Now().UnixNano()), "!5ecr3t!", user.RoleTeacher, true)
}

func Test_userApi_destroy(t *testing.T) {
	env := setup(t)

	admin := env.createUser(t, "Big", "Boss", "boss@test.cd", "!5ecr3t!", user.RoleAdmin, true)
	student := env.createUser(t, "Todd", "Anderson", "todd@test.cd", "!5ecr3t!", user.RoleStudent, true)

	tests := []httpTest{
		{
			name: "auth required", path: "/v1/users/" + student.ID,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "admin required", path: "/v1/users/" + student.ID, token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDeniedResp),
		},
		{
			name: "no self-delete", path: "/v1/users/" + admin.ID, token: getToken(t, admin),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDeniedResp),
		},
		{name: "delete ok", path: "/v1/users/" + student.ID, token: getToken(t, admin), wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodDelete, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusNoContent {
				assert.Equal(t, http.StatusNoContent, rec.Code)
				assert.Empty(t, rec.Body.Bytes())

				_, err := env.usrRepo.GetUser(context.Background(), user.GetFilter{ID: student.ID})
				assert.Equal(t, user.ErrNotFound, err)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_destroyMultiple(t *testing.T) {
	env := setup(t)

	admin := env.createUser(t, "Big", "Boss", "boss@test.cd", "!5ecr3t!", user.RoleAdmin, true)
	student := env.createUser(t, "Todd", "Anderson", "todd@test.cd", "!5ecr3t!", user.RoleStudent, true)
	teacher := env.createUser(t, "John", "Keating", "keating@test.cd", "!5ecr3t!", user.RoleTeacher, true)

	tests := []httpTest{
		{name: "auth required", path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", path: "/v1/users?id=" + teacher.ID, token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDeniedResp),
		},
		{
			name: "no self-delete", path: fmt.Sprintf("/v1/users?id=%s&id=%s", student.ID, admin.ID), token: getToken(t, admin),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDeniedResp),
		},
		{name: "no ids", path: "/v1/users", token: getToken(t, admin), wantCode: http.StatusNoContent},
		{
			name: "delete ok", path: fmt.Sprintf("/v1/users?id=%s&id=%s", student.ID, teacher.ID),
			token: getToken(t, admin), wantCode: http.StatusNoContent, extra: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodDelete, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusNoContent {
				assert.Equal(t, http.StatusNoContent, rec.Code)
				assert.Empty(t, rec.Body.Bytes())

				if deleted, ok := tt.extra.(bool); ok && deleted {
					for _, id := range []string{student.ID, teacher.ID} {
						_, err := env.usrRepo.GetUser(context.Background(), user.GetFilter{ID: id})
						assert.Equal(t, user.ErrNotFound, err)
					}
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
