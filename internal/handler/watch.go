package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"dinefind/internal/feed"
	"dinefind/internal/model"
	"dinefind/internal/repository"
)

// WatchHandler streams change-feed snapshots to clients as server-sent
// events. Each event carries the full mapped result set (or single
// record); the first event is delivered immediately on connect and a
// new one follows every change. Closing the request is the client's
// unsubscribe.
type WatchHandler struct {
	Feed *feed.Feed
}

// NewWatchHandler constructs a WatchHandler over the given feed.
func NewWatchHandler(changeFeed *feed.Feed) *WatchHandler {
	return &WatchHandler{Feed: changeFeed}
}

// WatchRestaurants handles GET /v1/restaurants/watch. The same query
// parameters as the listing endpoint select the watched result set.
func (h *WatchHandler) WatchRestaurants(c echo.Context) error {
	criteria := criteriaFromRequest(c)
	snapshots := make(chan []model.Restaurant, 8)
	stop, err := h.Feed.WatchAll(c.Request().Context(), criteria, func(rs []model.Restaurant) {
		select {
		case snapshots <- rs:
		default: // drop when the client cannot keep up; the next change re-delivers
		}
	})
	if err != nil {
		return watchError(c, err)
	}
	defer stop()
	return streamEvents(c, snapshots)
}

// WatchRestaurant handles GET /v1/restaurants/:id/watch.
func (h *WatchHandler) WatchRestaurant(c echo.Context) error {
	snapshots := make(chan *model.Restaurant, 8)
	stop, err := h.Feed.WatchOne(c.Request().Context(), c.Param("id"), func(rest *model.Restaurant) {
		select {
		case snapshots <- rest:
		default:
		}
	})
	if err != nil {
		return watchError(c, err)
	}
	defer stop()
	return streamEvents(c, snapshots)
}

func watchError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid watch request"})
	case errors.Is(err, repository.ErrRestaurantNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	case errors.Is(err, feed.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "change feed unavailable"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// streamEvents writes each snapshot from ch as one SSE data frame
// until the client disconnects.
func streamEvents[T any](c echo.Context, ch <-chan T) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot := <-ch:
			payload, err := json.Marshal(snapshot)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
