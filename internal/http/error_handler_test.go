package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipstore/internal/apperr"
	"equipstore/internal/http/handlers"
)

func errApp(production bool) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler(production)})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("database is locked") })
	app.Get("/wrapped", func(c *fiber.Ctx) error {
		return apperr.Wrap(apperr.BadRequest("discount has expired"), "discount has expired")
	})
	return app
}

func readEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func TestErrorHandlerHidesInternalsInProduction(t *testing.T) {
	resp, err := errApp(true).Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	env := readEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.NotContains(t, env.Message, "database")
	assert.Empty(t, env.Error)

	resp, err = errApp(false).Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	env = readEnvelope(t, resp)
	assert.Equal(t, "database is locked", env.Error)
}

func TestErrorHandlerMapsKinds(t *testing.T) {
	resp, err := errApp(true).Test(httptest.NewRequest("GET", "/wrapped", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "discount has expired", readEnvelope(t, resp).Message)

	a := newTestApp(t)
	resp, env := a.do(t, "GET", "/no/such/route", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)

	resp, env = a.do(t, "GET", "/api/v1/products/prd-missing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "product not found", env.Message)

	resp, _ = a.do(t, "GET", "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
