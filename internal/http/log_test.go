package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginFailureAndSuccessAreLogged(t *testing.T) {
	a := newTestApp(t)
	entries := captureLogs(t, func() {
		resp, _ := a.do(t, "POST", "/api/v1/auth/login", "", map[string]string{"email": "Ada@Example.com", "password": "wrong"})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
	e, ok := findLog(entries, "auth.login.fail")
	require.True(t, ok, "auth.login.fail not logged")
	assert.Equal(t, "security", e.Level)
	assert.Equal(t, "ada@example.com", e.Fields["email"])
	assert.NotContains(t, e.Fields, "password")

	entries = captureLogs(t, func() {
		resp, _ := a.do(t, "POST", "/api/v1/auth/login", "", map[string]string{"email": "ada@example.com", "password": "Passw0rd!"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})
	e, ok = findLog(entries, "auth.login.success")
	require.True(t, ok, "auth.login.success not logged")
	assert.Equal(t, "u-ada", e.UserID)
}

func TestForbiddenRouteLogsAccessDenied(t *testing.T) {
	a := newTestApp(t)
	tok := a.token(t, "u-ada")
	entries := captureLogs(t, func() {
		resp, _ := a.do(t, "GET", "/api/v1/admin/orders", tok, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
	e, ok := findLog(entries, "access.denied")
	require.True(t, ok, "access.denied not logged")
	assert.Equal(t, "security", e.Level)
	assert.Equal(t, http.StatusForbidden, e.Status)
	assert.Equal(t, "u-ada", e.UserID)
	assert.Equal(t, "/api/v1/admin/orders", e.Path)
}

func TestValidationFailureIsLogged(t *testing.T) {
	a := newTestApp(t)
	entries := captureLogs(t, func() {
		resp, _ := a.do(t, "POST", "/api/v1/shipping/calculate", "", map[string]any{"state": "Atlantis", "weight": 2})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
	e, ok := findLog(entries, "validation.fail")
	require.True(t, ok)
	assert.Contains(t, e.Fields["fields"], "state")
}

func TestAdminInventoryUpdateIsAudited(t *testing.T) {
	a := newTestApp(t)
	tok := a.token(t, "u-admin")
	entries := captureLogs(t, func() {
		resp, env := a.do(t, "PUT", "/api/v1/admin/inventory/prd-gas-cooker", tok, map[string]int{"stockQuantity": 9})
		require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
		assert.Contains(t, string(env.Data), `"status":"IN_STOCK"`)
		assert.Contains(t, string(env.Data), `"qty":9`)
	})
	e, ok := findLog(entries, "admin.inventory.save")
	require.True(t, ok, "admin.inventory.save not logged")
	assert.Equal(t, "audit", e.Level)
	assert.Equal(t, "u-admin", e.UserID)
	assert.Equal(t, "prd-gas-cooker", e.Fields["product"])
	assert.EqualValues(t, 3, e.Fields["from"])
	assert.EqualValues(t, 9, e.Fields["qty"])

	resp, env := a.do(t, "GET", "/api/v1/admin/inventory/prd-gas-cooker/history", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), "by u-admin")

	// staff may read inventory but only admins may change it
	staff := a.token(t, "u-staff")
	resp, _ = a.do(t, "PUT", "/api/v1/admin/inventory/prd-gas-cooker", staff, map[string]int{"stockQuantity": 1})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = a.do(t, "PUT", "/api/v1/admin/inventory/prd-gas-cooker", tok, map[string]int{"stockQuantity": -2})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
