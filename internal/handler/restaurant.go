package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"dinefind/internal/cache"
	"dinefind/internal/feed"
	"dinefind/internal/model"
	"dinefind/internal/repository"
)

// RestaurantHandler exposes the catalog read operations plus the two
// writes that do not touch rating aggregates: restaurant creation and
// the photo-reference update. Both writes invalidate the listing cache
// and notify the change feed after they commit.
type RestaurantHandler struct {
	Restaurants *repository.RestaurantRepo
	Listings    *cache.Listings
	Feed        *feed.Feed
}

// NewRestaurantHandler constructs a RestaurantHandler. The repository
// must be non-nil; cache and feed may be nil-backed and degrade to
// no-ops.
func NewRestaurantHandler(restaurants *repository.RestaurantRepo, listings *cache.Listings, changeFeed *feed.Feed) *RestaurantHandler {
	if restaurants == nil {
		panic("nil repository passed to NewRestaurantHandler")
	}
	return &RestaurantHandler{Restaurants: restaurants, Listings: listings, Feed: changeFeed}
}

// criteriaFromRequest maps the recognized query parameters onto
// SearchCriteria. Absent parameters stay zero and are skipped by the
// composer.
func criteriaFromRequest(c echo.Context) repository.SearchCriteria {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return repository.SearchCriteria{
		Category: c.QueryParam("category"),
		City:     c.QueryParam("city"),
		Price:    c.QueryParam("price"),
		Sort:     c.QueryParam("sort"),
		Limit:    limit,
	}
}

// List handles GET /v1/restaurants. It composes the filtered, sorted
// listing query from the request parameters, serving from the listing
// cache when possible.
func (h *RestaurantHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	criteria := criteriaFromRequest(c)

	if rs, ok := h.Listings.Get(ctx, criteria); ok {
		return c.JSON(http.StatusOK, rs)
	}
	rs, err := h.Restaurants.Search(ctx, criteria)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.Listings.Set(ctx, criteria, rs)
	return c.JSON(http.StatusOK, rs)
}

// Get handles GET /v1/restaurants/:id.
func (h *RestaurantHandler) Get(c echo.Context) error {
	rest, err := h.Restaurants.GetByID(c.Request().Context(), c.Param("id"))
	switch {
	case errors.Is(err, repository.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	case errors.Is(err, repository.ErrRestaurantNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, rest)
}

// Create handles POST /v1/restaurants. It inserts a restaurant with
// zeroed aggregates; this is the seeding/admin entry point, so no
// review data is accepted here.
func (h *RestaurantHandler) Create(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		City     string `json:"city"`
		Price    string `json:"price"`
		Photo    string `json:"photo"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	rest := &model.Restaurant{
		Name:     body.Name,
		Category: body.Category,
		City:     body.City,
		Price:    repository.PriceTier(body.Price),
		Photo:    body.Photo,
	}
	ctx := c.Request().Context()
	if err := h.Restaurants.Create(ctx, rest); err != nil {
		if errors.Is(err, repository.ErrInvalidArgument) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.Listings.Invalidate(ctx)
	h.Feed.NotifyChanged(ctx, rest.ID)
	return c.JSON(http.StatusCreated, rest)
}

// UpdatePhoto handles PATCH /v1/restaurants/:id/photo. The photo
// reference is replaced unconditionally when the identifier resolves
// to an existing record.
func (h *RestaurantHandler) UpdatePhoto(c echo.Context) error {
	var body struct {
		Photo string `json:"photo"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Photo == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "photo is required"})
	}
	id := c.Param("id")
	ctx := c.Request().Context()
	err := h.Restaurants.UpdatePhoto(ctx, id, body.Photo)
	switch {
	case errors.Is(err, repository.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	case errors.Is(err, repository.ErrRestaurantNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.Listings.Invalidate(ctx)
	h.Feed.NotifyChanged(ctx, id)
	return c.NoContent(http.StatusNoContent)
}
