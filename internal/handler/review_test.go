package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinefind/internal/cache"
	"dinefind/internal/feed"
	"dinefind/internal/repository"
)

func newReviewHandler(t *testing.T) (*ReviewHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	restaurants := repository.NewRestaurantRepo(db)
	reviews := repository.NewReviewRepo(db)
	return NewReviewHandler(reviews, restaurants, cache.NewListings(nil, time.Minute), feed.New(nil, restaurants)), mock
}

func submitRequest(body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func TestSubmitMissingRating(t *testing.T) {
	h, mock := newReviewHandler(t)

	e := echo.New()
	req, rec := submitRequest(`{"text":"tasty","author":"ada"}`)
	c := e.NewContext(req, rec)
	c.SetPath("/v1/restaurants/:id/reviews")
	c.SetParamNames("id")
	c.SetParamValues("r1")

	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// The precondition must fail before any store interaction.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitUnknownRestaurant(t *testing.T) {
	h, mock := newReviewHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"num_ratings", "sum_rating"}))
	mock.ExpectRollback()

	e := echo.New()
	req, rec := submitRequest(`{"rating":4}`)
	c := e.NewContext(req, rec)
	c.SetPath("/v1/restaurants/:id/reviews")
	c.SetParamNames("id")
	c.SetParamValues("ghost")

	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReviewsInvalidID(t *testing.T) {
	h, mock := newReviewHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/restaurants/:id/reviews")
	c.SetParamNames("id")
	c.SetParamValues("")

	require.NoError(t, h.ListByRestaurant(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
