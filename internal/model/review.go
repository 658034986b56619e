package model

import "time"

// Review is a child record of a restaurant.  Reviews are created
// exactly once through the aggregation transaction and are never
// mutated or deleted afterwards.
//
// Fields:
//  ID           – opaque identifier assigned on creation.
//  RestaurantID – restaurant the review belongs to.
//  Rating       – numeric score contributed by the reviewer.
//  Text         – free-form review body, passed through unmodified.
//  Author       – display name of the reviewer.
//  CreatedAt    – store-assigned commit time; any caller-supplied
//                 value is overridden so ordering does not depend on
//                 client clocks.
type Review struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	Rating       float64   `json:"rating"`
	Text         string    `json:"text"`
	Author       string    `json:"author"`
	CreatedAt    time.Time `json:"created_at"`
}
