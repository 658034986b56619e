// Package queue defines message payloads exchanged over the message broker.
package queue

// ReviewSubmittedEvent is published after a review has been committed
// through the aggregation transaction. It carries enough information
// for downstream consumers to log, notify, or feed analytics without
// querying the primary database.
type ReviewSubmittedEvent struct {
	ReviewID       string  `json:"review_id"`
	RestaurantID   string  `json:"restaurant_id"`
	RestaurantName string  `json:"restaurant_name"`
	Rating         float64 `json:"rating"`
	Author         string  `json:"author"`
	NumRatings     int64   `json:"num_ratings"`
	AvgRating      float64 `json:"avg_rating"`
	SubmittedAt    string  `json:"submitted_at"`
}
