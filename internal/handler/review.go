package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"dinefind/internal/cache"
	"dinefind/internal/feed"
	"dinefind/internal/model"
	"dinefind/internal/queue"
	"dinefind/internal/repository"
	queue_publisher "dinefind/internal/service"
)

// ReviewHandler exposes review submission and listing. Submission runs
// the aggregation transaction and then, best effort, publishes a
// review.submitted event, invalidates the listing cache and notifies
// the change feed. None of those follow-ups can fail the request: the
// review has already committed.
type ReviewHandler struct {
	Reviews     *repository.ReviewRepo
	Restaurants *repository.RestaurantRepo
	Listings    *cache.Listings
	Feed        *feed.Feed
}

// NewReviewHandler constructs a ReviewHandler. Both repositories must
// be non-nil.
func NewReviewHandler(reviews *repository.ReviewRepo, restaurants *repository.RestaurantRepo, listings *cache.Listings, changeFeed *feed.Feed) *ReviewHandler {
	if reviews == nil || restaurants == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: reviews, Restaurants: restaurants, Listings: listings, Feed: changeFeed}
}

// Submit handles POST /v1/restaurants/:id/reviews. The rating field is
// required; text and author are passed through unmodified. A caller-
// supplied timestamp is ignored — the commit time comes from the store.
func (h *ReviewHandler) Submit(c echo.Context) error {
	var body struct {
		Rating *float64 `json:"rating"`
		Text   string   `json:"text"`
		Author string   `json:"author"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Rating == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating is required"})
	}

	id := c.Param("id")
	review := &model.Review{
		Rating: *body.Rating,
		Text:   body.Text,
		Author: body.Author,
	}
	ctx := c.Request().Context()
	err := h.Reviews.Add(ctx, id, review)
	switch {
	case errors.Is(err, repository.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review submission"})
	case errors.Is(err, repository.ErrRestaurantNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit review"})
	}

	h.Listings.Invalidate(ctx)
	h.Feed.NotifyChanged(ctx, id)
	h.publishEvent(c, review)

	return c.JSON(http.StatusCreated, review)
}

// publishEvent emits the review.submitted event with the post-commit
// aggregate state. Failures are logged and ignored.
func (h *ReviewHandler) publishEvent(c echo.Context, review *model.Review) {
	ctx := c.Request().Context()
	ev := queue.ReviewSubmittedEvent{
		ReviewID:     review.ID,
		RestaurantID: review.RestaurantID,
		Rating:       review.Rating,
		Author:       review.Author,
		SubmittedAt:  review.CreatedAt.UTC().Format(time.RFC3339),
	}
	if rest, err := h.Restaurants.GetByID(ctx, review.RestaurantID); err == nil {
		ev.RestaurantName = rest.Name
		ev.NumRatings = rest.NumRatings
		ev.AvgRating = rest.AvgRating
	}
	if err := queue_publisher.PublishReviewSubmitted(ctx, ev); err != nil {
		log.Printf("review-handler: publish review.submitted failed: %v", err)
	}
}

// ListByRestaurant handles GET /v1/restaurants/:id/reviews. Reviews
// are returned most recent first.
func (h *ReviewHandler) ListByRestaurant(c echo.Context) error {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	reviews, err := h.Reviews.ListByRestaurant(c.Request().Context(), c.Param("id"), limit)
	switch {
	case errors.Is(err, repository.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, reviews)
}
