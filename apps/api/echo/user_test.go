package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/user"
)

func Test_userApi_login(t *testing.T) {
	app := initApp(t)

	deactivated := createUser(t, app.usrRepo, "Gone User", "goneuser", "gone@test.cd", core.RoleTeacher)
	deactivated.SetActive(false)
	inactive := false
	_, err := app.usrRepo.UpdateUser(context.Background(), deactivated, &inactive)
	require.NoError(t, err)

	tests := []httpTest{
		{name: "empty body", wantCode: http.StatusBadRequest},
		{name: "unknown user", body: marshallObj(t, LoginRequest{Username: "lol", Password: "lol"}), wantCode: http.StatusBadRequest, wantData: marshallObj(t, httpErr{Error: "authentication failed"})},
		{name: "wrong password", body: marshallObj(t, LoginRequest{Username: "alicemwangi", Password: "nope"}), wantCode: http.StatusBadRequest, wantData: marshallObj(t, httpErr{Error: "authentication failed"})},
		{name: "deactivated account", body: marshallObj(t, LoginRequest{Username: "goneuser", Password: "LePass123!"}), wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "account deactivated"})},
		{name: "login with username", body: marshallObj(t, LoginRequest{Username: "alicemwangi", Password: "LePass123!"}), wantCode: http.StatusOK},
		{name: "login with email", body: marshallObj(t, LoginRequest{Username: "alice@test.cd", Password: "LePass123!"}), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if rec.Code == http.StatusOK {
				var resp LoginResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}

func Test_userApi_tokenRefresh(t *testing.T) {
	app := initApp(t)

	req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, app.teacherUsr))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	req, rec = newRequest(http.MethodPost, "/v1/users/token-refresh")
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_userApi_register(t *testing.T) {
	app := initApp(t)

	newUsr := func(uname, email string) []byte {
		return marshallObj(t, user.NewUser{
			Name:            "New Teacher",
			Username:        uname,
			Email:           email,
			Role:            core.RoleTeacher,
			Password:        "LePass123!",
			PasswordConfirm: "LePass123!",
		})
	}

	tests := []httpTest{
		{name: "anonymous", body: newUsr("newteacher", "new@test.cd"), wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "teacher forbidden", token: getToken(t, app.teacherUsr), body: newUsr("newteacher", "new@test.cd"), wantCode: http.StatusForbidden},
		{name: "admin creates", token: getToken(t, app.admin), body: newUsr("newteacher", "new@test.cd"), wantCode: http.StatusCreated},
		{name: "duplicate username", token: getToken(t, app.admin), body: newUsr("newteacher", "other@test.cd"), wantCode: http.StatusBadRequest},
		{name: "bad role", token: getToken(t, app.admin), body: marshallObj(t, user.NewUser{Name: "X", Username: "xxxxxxx", Role: "boss", Password: "LePass123!", PasswordConfirm: "LePass123!"}), wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_queryAndRoles(t *testing.T) {
	app := initApp(t)
	adminToken := getToken(t, app.admin)

	req, rec := newAuthRequest(http.MethodGet, "/v1/users?role="+core.RoleTeacher+"&ordering=-username", adminToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 2)
	assert.Equal(t, "brianotieno", users[0].Username)
	assert.Equal(t, "alicemwangi", users[1].Username)

	req, rec = newAuthRequest(http.MethodGet, "/v1/users?search=wanjiru", adminToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2) // Kevin and Grace

	req, rec = newAuthRequest(http.MethodGet, "/v1/users", getToken(t, app.teacherUsr))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/v1/users/roles", adminToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var roles []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roles))
	assert.ElementsMatch(t, core.AllRoles, roles)
}

func Test_userApi_detail(t *testing.T) {
	app := initApp(t)
	adminToken := getToken(t, app.admin)
	teacherToken := getToken(t, app.teacherUsr)

	selfPath := "/v1/users/" + app.teacherUsr.ID
	otherPath := "/v1/users/" + app.otherUsr.ID

	tests := []httpTest{
		{name: "anonymous", method: http.MethodGet, path: selfPath, wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "own detail", method: http.MethodGet, path: selfPath, token: teacherToken, wantCode: http.StatusOK, wantData: marshallObj(t, app.teacherUsr)},
		{name: "someone else's detail hidden", method: http.MethodGet, path: otherPath, token: teacherToken, wantCode: http.StatusNotFound},
		{name: "admin reads anyone", method: http.MethodGet, path: otherPath, token: adminToken, wantCode: http.StatusOK, wantData: marshallObj(t, app.otherUsr)},
		{name: "unknown id", method: http.MethodGet, path: "/v1/users/nope", token: adminToken, wantCode: http.StatusNotFound},
		{name: "own name update", method: http.MethodPut, path: selfPath, token: teacherToken, body: marshallObj(t, user.UpdateUser{Name: "Alice M."}), wantCode: http.StatusOK},
		{name: "role change forbidden for non-admin", method: http.MethodPut, path: selfPath, token: teacherToken, body: marshallObj(t, user.UpdateUser{Role: core.RoleAdmin}), wantCode: http.StatusForbidden},
		// promote someone the later cases do not authenticate as
		{name: "admin changes role", method: http.MethodPut, path: "/v1/users/" + app.studentUsr.ID, token: adminToken, body: marshallObj(t, user.UpdateUser{Role: core.RoleAdmin}), wantCode: http.StatusOK},
		{name: "non-admin delete forbidden", method: http.MethodDelete, path: otherPath, token: teacherToken, wantCode: http.StatusNotFound},
		{name: "self delete forbidden", method: http.MethodDelete, path: "/v1/users/" + app.admin.ID, token: adminToken, wantCode: http.StatusForbidden},
		{name: "admin deletes", method: http.MethodDelete, path: otherPath, token: adminToken, wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_destroyMultiple(t *testing.T) {
	app := initApp(t)
	adminToken := getToken(t, app.admin)

	// cannot delete yourself, even in a batch
	req, rec := newAuthRequest(http.MethodDelete, "/v1/users?id="+app.admin.ID+"&id="+app.otherUsr.ID, adminToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodDelete, "/v1/users?id="+app.otherUsr.ID+"&id="+app.parentUsr.ID, adminToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/v1/users/"+app.otherUsr.ID, adminToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
