package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ArKa3003/arkamed/core/user"
)

func Test_userApi_register(t *testing.T) {
	app := newTestApp(t)

	tests := []httpTest{
		{
			name:     "empty data fails",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"name":"this field is required","email":"this field is required",` +
				`"password":"this field is required","password_confirm":"this field is required"}`),
		},
		{
			name: "password mismatch fails",
			body: []byte(`{"name":"Awa B","email":"awa@test.cd","password":"LordOfTheRings","password_confirm":"LordOfTheKings"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"password_confirm":"password_confirm must be equal to Password"}`),
		},
		{
			name:     "valid data succeeds",
			body:     []byte(`{"name":"Awa B","email":"awa@test.cd","password":"LordOfTheRings","password_confirm":"LordOfTheRings"}`),
			wantCode: http.StatusCreated,
		},
		{
			name:     "duplicate email fails",
			body:     []byte(`{"name":"Awa Again","email":"awa@test.cd","password":"LordOfTheRings","password_confirm":"LordOfTheRings"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email":"a user with this email already exists"}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/v1/users/register", tt.body)
			app.server.ServeHTTP(rec, req)

			if tt.wantData == nil {
				assert.Equal(t, tt.wantCode, rec.Code)

				var usr user.User
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usr))
				assert.Equal(t, "awa@test.cd", usr.Email)
				assert.Equal(t, user.RoleStudent, usr.Role)
				assert.True(t, usr.IsActive)
				assert.False(t, usr.OnboardingCompleted)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_login(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "Hugo", "hugo@test.cd", "LordOfTheRings", false, true)

	tests := []httpTest{
		{
			name:     "unknown email fails",
			body:     []byte(`{"email":"nobody@test.cd","password":"LordOfTheRings"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error":"authentication failed"}`),
		},
		{
			name:     "wrong password fails",
			body:     []byte(`{"email":"hugo@test.cd","password":"spanishInquisition"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error":"authentication failed"}`),
		},
		{
			name:     "valid credentials succeed",
			body:     []byte(`{"email":"hugo@test.cd","password":"LordOfTheRings"}`),
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/v1/users/login", tt.body)
			app.server.ServeHTTP(rec, req)

			if tt.wantData == nil {
				assert.Equal(t, tt.wantCode, rec.Code)

				var resp LoginResponse
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Token)

				// session cookie is set alongside the token
				var found bool
				for _, cookie := range rec.Result().Cookies() {
					if cookie.Name == app.conf.Server.SessionCookieName {
						assert.Equal(t, resp.Token, cookie.Value)
						assert.True(t, cookie.HttpOnly)
						found = true
					}
				}
				assert.True(t, found, "session cookie not set")
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_deactivatedLoginFails(t *testing.T) {
	app := newTestApp(t)
	usr := app.createUser(t, "Hugo", "hugo@test.cd", "LordOfTheRings", false, true)

	inactive := false
	_, err := app.userSvc.Update(context.Background(), usr.ID, user.UpdateUser{IsActive: &inactive})
	assert.NoError(t, err)

	req, rec := newRequest(http.MethodPost, "/api/v1/users/login", []byte(`{"email":"hugo@test.cd","password":"LordOfTheRings"}`))
	app.server.ServeHTTP(rec, req)

	tt := httpTest{wantCode: http.StatusForbidden, wantData: []byte(`{"error":"account deactivated"}`)}
	checkCodeAndData(t, tt, rec)
}

func Test_userApi_me(t *testing.T) {
	app := newTestApp(t)
	usr := app.createUser(t, "Hugo", "hugo@test.cd", "LordOfTheRings", false, true)

	t.Run("no token fails", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/v1/users/me")
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)}, rec)
	})

	t.Run("token succeeds", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/users/me", getToken(t, usr))
		app.server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got user.User
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, usr.ID, got.ID)
		assert.Equal(t, usr.Email, got.Email)
	})
}

func Test_userApi_completeOnboarding(t *testing.T) {
	app := newTestApp(t)
	usr := app.createUser(t, "Hugo", "hugo@test.cd", "LordOfTheRings", false, false)
	token := getToken(t, usr)

	req, rec := newAuthRequest(http.MethodPost, "/api/v1/users/me/complete-onboarding", token)
	app.server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got user.User
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.OnboardingCompleted)

	// idempotent
	req, rec = newAuthRequest(http.MethodPost, "/api/v1/users/me/complete-onboarding", token)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_userApi_logout(t *testing.T) {
	app := newTestApp(t)
	usr := app.createUser(t, "Hugo", "hugo@test.cd", "LordOfTheRings", false, true)
	token := getToken(t, usr)

	req, rec := newAuthRequest(http.MethodPost, "/api/v1/users/logout", token)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// session cookie is expired
	var cleared bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == app.conf.Server.SessionCookieName {
			assert.Empty(t, cookie.Value)
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie not cleared")

	// revoked session no longer grants page access
	req, rec = newRequest(http.MethodGet, "/cases")
	req.AddCookie(&http.Cookie{Name: app.conf.Server.SessionCookieName, Value: token})
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fcases", rec.Header().Get("Location"))
}

func Test_userApi_query(t *testing.T) {
	app := newTestApp(t)
	student := app.createUser(t, "Hugo", "hugo@test.cd", "LordOfTheRings", false, true)
	admin := app.createUser(t, "Awa", "awa@test.cd", "LordOfTheRings", true, true)

	t.Run("student is forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/users", getToken(t, student))
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: []byte(`{"error":"permission denied"}`)}, rec)
	})

	t.Run("admin lists all users", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/users", getToken(t, admin))
		app.server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var users []user.User
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		assert.Len(t, users, 2)
	})

	t.Run("admin filters by role", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/users?role=admin", getToken(t, admin))
		app.server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var users []user.User
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		if assert.Len(t, users, 1) {
			assert.Equal(t, admin.ID, users[0].ID)
		}
	})
}

func Test_userApi_update(t *testing.T) {
	app := newTestApp(t)
	student := app.createUser(t, "Hugo", "hugo@test.cd", "LordOfTheRings", false, true)
	admin := app.createUser(t, "Awa", "awa@test.cd", "LordOfTheRings", true, true)

	t.Run("student cannot promote themselves", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/v1/users/"+student.ID, getToken(t, student),
			[]byte(`{"role":"admin"}`))
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: []byte(`{"error":"permission denied"}`)}, rec)
	})

	t.Run("student updates own name", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/v1/users/"+student.ID, getToken(t, student),
			[]byte(`{"name":"Hugo Cabret"}`))
		app.server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got user.User
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Hugo Cabret", got.Name)
	})

	t.Run("student cannot see others", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/users/"+admin.ID, getToken(t, student))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("admin promotes student", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/v1/users/"+student.ID, getToken(t, admin),
			[]byte(`{"role":"admin"}`))
		app.server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got user.User
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, user.RoleAdmin, got.Role)
	})
}

func Test_userApi_destroy(t *testing.T) {
	app := newTestApp(t)
	student := app.createUser(t, "Hugo", "hugo@test.cd", "LordOfTheRings", false, true)
	admin := app.createUser(t, "Awa", "awa@test.cd", "LordOfTheRings", true, true)

	t.Run("admin cannot delete themselves", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/v1/users/"+admin.ID, getToken(t, admin))
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: []byte(`{"error":"permission denied"}`)}, rec)
	})

	t.Run("admin deletes student", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/v1/users/"+student.ID, getToken(t, admin))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, err := app.userSvc.GetByID(context.Background(), student.ID)
		assert.Equal(t, user.ErrNotFound, err)
	})
}
