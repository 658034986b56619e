package handler

import (
	"net/http"
	"net/http/httptest"
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

func newRestaurantHandler(t *testing.T) (*RestaurantHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	restaurants := repository.NewRestaurantRepo(db)
	return NewRestaurantHandler(restaurants, cache.NewListings(nil, time.Minute), feed.New(nil, restaurants)), mock
}

func TestListAppliesQueryParameters(t *testing.T) {
	h, mock := newRestaurantHandler(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM restaurants WHERE category = \? AND price = \? ORDER BY num_ratings DESC LIMIT \?`).
		WithArgs("Indian", 2, 50).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "category", "city", "price", "photo",
			"num_ratings", "sum_rating", "avg_rating", "created_at", "updated_at",
		}).AddRow("r1", "Spice Route", "Indian", "Oslo", 2, "", 1, 4.0, 4.0, now, now))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/restaurants?category=Indian&price=$$&sort=Review", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Spice Route")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUnknownRestaurant(t *testing.T) {
	h, mock := newRestaurantHandler(t)

	mock.ExpectQuery(`FROM restaurants WHERE id = \?`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/restaurants/:id")
	c.SetParamNames("id")
	c.SetParamValues("ghost")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdatePhotoRequiresBody(t *testing.T) {
	h, mock := newRestaurantHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/", nil)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/restaurants/:id/photo")
	c.SetParamNames("id")
	c.SetParamValues("r1")

	require.NoError(t, h.UpdatePhoto(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
