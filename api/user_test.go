package api

import (
	"net/http"
	"testing"

	"campusflow/sched-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileFetch(t *testing.T) {
	a, m := newTestAPI(t)

	a.signupAndVerify(t, m, "a@x.com")
	a.signupAndVerify(t, m, "b@x.com")
	token := a.login(t, "a@x.com", "Abcdef1!")

	var other model.User
	require.NoError(t, a.DB.Where("email = ?", "b@x.com").First(&other).Error)

	w := a.doJSON(t, http.MethodGet, "/api/profile/"+other.ID, nil, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b@x.com", decodeBody(t, w)["user"].(map[string]any)["email"])

	w = a.doJSON(t, http.MethodGet, "/api/profile/does-not-exist", nil, bearer(token))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.doJSON(t, http.MethodGet, "/api/profile/"+other.ID, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileUpdate(t *testing.T) {
	a, m := newTestAPI(t)

	a.signupAndVerify(t, m, "a@x.com")
	token := a.login(t, "a@x.com", "Abcdef1!")

	var me model.User
	require.NoError(t, a.DB.Where("email = ?", "a@x.com").First(&me).Error)

	w := a.doJSON(t, http.MethodPut, "/api/profile/"+me.ID, map[string]any{
		"firstName": "Grace",
		"phone":     "7111111111",
	}, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)

	user := decodeBody(t, w)["user"].(map[string]any)
	assert.Equal(t, "Grace", user["firstName"])
	assert.Equal(t, "7111111111", user["phone"])

	// Bad updates are rejected field by field
	w = a.doJSON(t, http.MethodPut, "/api/profile/"+me.ID, map[string]any{
		"phone": "123",
	}, bearer(token))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.doJSON(t, http.MethodPut, "/api/profile/"+me.ID, map[string]any{
		"countryCode": "+999",
	}, bearer(token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileUpdateOtherUserForbidden(t *testing.T) {
	a, m := newTestAPI(t)

	a.signupAndVerify(t, m, "a@x.com")
	a.signupAndVerify(t, m, "b@x.com")
	token := a.login(t, "a@x.com", "Abcdef1!")

	var other model.User
	require.NoError(t, a.DB.Where("email = ?", "b@x.com").First(&other).Error)

	w := a.doJSON(t, http.MethodPut, "/api/profile/"+other.ID, map[string]any{
		"firstName": "Mallory",
	}, bearer(token))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProfileUpdatePhoneConflict(t *testing.T) {
	a, m := newTestAPI(t)

	a.signupAndVerify(t, m, "a@x.com")
	a.signupAndVerify(t, m, "b@x.com")
	token := a.login(t, "a@x.com", "Abcdef1!")

	var me model.User
	require.NoError(t, a.DB.Where("email = ?", "a@x.com").First(&me).Error)

	w := a.doJSON(t, http.MethodPut, "/api/profile/"+me.ID, map[string]any{
		"phone": phoneFor("b@x.com"),
	}, bearer(token))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUserListAdminOnly(t *testing.T) {
	a, m := newTestAPI(t)

	a.signupAndVerify(t, m, "a@x.com")
	a.signupAndVerify(t, m, "admin@x.com")

	err := a.DB.Model(model.User{}).
		Where("email = ?", "admin@x.com").
		Update("role", model.RoleAdmin).
		Error
	require.NoError(t, err)

	userToken := a.login(t, "a@x.com", "Abcdef1!")
	adminToken := a.login(t, "admin@x.com", "Abcdef1!")

	w := a.doJSON(t, http.MethodGet, "/api/users", nil, bearer(userToken))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.doJSON(t, http.MethodGet, "/api/users", nil, bearer(adminToken))
	require.Equal(t, http.StatusOK, w.Code)

	users := decodeBody(t, w)["users"].([]any)
	assert.Len(t, users, 2)
}
