package model

import "time"

// Restaurant represents one entry of the catalog together with its
// rating aggregates.  The aggregates are derived from the reviews
// stored under the restaurant and must never be written outside the
// review aggregation transaction.
//
// Fields:
//  ID         – opaque identifier assigned on creation, immutable.
//  Name       – display name of the restaurant.
//  Category   – cuisine classification (e.g. "Indian").
//  City       – city the restaurant is located in.
//  Price      – integer price tier in the range 1..4; clients may
//               render it as a run of "$" symbols of that length.
//  Photo      – URL reference to the restaurant image; replaced as a
//               whole by the photo update operation.
//  NumRatings – count of reviews, maintained by the aggregator.
//  SumRating  – running sum of all review ratings.
//  AvgRating  – SumRating / NumRatings; recomputed on every
//               aggregation, never stored independently of its inputs.
//  CreatedAt  – creation timestamp (store clock).
//  UpdatedAt  – last update timestamp (store clock).
type Restaurant struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	City       string    `json:"city"`
	Price      int       `json:"price"`
	Photo      string    `json:"photo"`
	NumRatings int64     `json:"num_ratings"`
	SumRating  float64   `json:"sum_rating"`
	AvgRating  float64   `json:"avg_rating"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
