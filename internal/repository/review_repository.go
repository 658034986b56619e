package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"dinefind/internal/model"
)

// ReviewRepo provides access to the reviews table and owns the single
// write path that touches a restaurant's rating aggregates.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Add atomically applies a new review to a restaurant: it reads the
// current aggregates under a row lock, increments the count, adds the
// rating to the running sum, recomputes the average, writes the three
// aggregate fields back and inserts the review row — all in one
// transaction, so either everything becomes visible or nothing does.
// The review's creation time is assigned by the store clock inside the
// transaction; any caller-supplied timestamp is overridden.
//
// Preconditions fail with ErrInvalidArgument before any store call.
// A conflicting concurrent transaction is retried transparently by
// runInTx; the body is idempotent because it has no side effects
// outside the transaction's own reads and writes. Any terminal error
// is logged once here and propagated to the caller unchanged.
func (r *ReviewRepo) Add(ctx context.Context, restaurantID string, review *model.Review) error {
	if strings.TrimSpace(restaurantID) == "" {
		return ErrInvalidArgument
	}
	if review == nil {
		return ErrInvalidArgument
	}
	if review.ID == "" {
		review.ID = uuid.NewString()
	}

	err := runInTx(ctx, r.db, defaultTxRetry, func(tx *sql.Tx) error {
		// NULL aggregates read as zero so the first review yields a
		// count of one.
		var num sql.NullInt64
		var sum sql.NullFloat64
		const sel = `SELECT num_ratings, sum_rating FROM restaurants WHERE id = ? FOR UPDATE`
		if err := tx.QueryRowContext(ctx, sel, restaurantID).Scan(&num, &sum); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRestaurantNotFound
			}
			return err
		}

		newNum := num.Int64 + 1
		newSum := sum.Float64 + review.Rating
		newAvg := newSum / float64(newNum)

		const upd = `UPDATE restaurants SET num_ratings = ?, sum_rating = ?, avg_rating = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, upd, newNum, newSum, newAvg, restaurantID); err != nil {
			return err
		}

		const ins = `INSERT INTO reviews (id, restaurant_id, rating, text, author, created_at)
		             VALUES (?, ?, ?, ?, ?, NOW(6))`
		if _, err := tx.ExecContext(ctx, ins, review.ID, restaurantID, review.Rating, review.Text, review.Author); err != nil {
			return err
		}

		// Read the store-assigned timestamp back onto the record.
		const stamp = `SELECT created_at FROM reviews WHERE id = ?`
		if err := tx.QueryRowContext(ctx, stamp, review.ID).Scan(&review.CreatedAt); err != nil {
			return err
		}
		review.RestaurantID = restaurantID
		return nil
	})
	if err != nil {
		log.Printf("review-repo: add review to restaurant %s failed: %v", restaurantID, err)
		return err
	}
	return nil
}

// ListByRestaurant returns the reviews of a restaurant ordered most
// recent first.
func (r *ReviewRepo) ListByRestaurant(ctx context.Context, restaurantID string, limit int) ([]model.Review, error) {
	if strings.TrimSpace(restaurantID) == "" {
		return nil, ErrInvalidArgument
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	const q = `SELECT id, restaurant_id, rating, text, author, created_at
	           FROM reviews
	           WHERE restaurant_id = ?
	           ORDER BY created_at DESC
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, restaurantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Review, 0, limit)
	for rows.Next() {
		var rev model.Review
		if err := rows.Scan(&rev.ID, &rev.RestaurantID, &rev.Rating, &rev.Text, &rev.Author, &rev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
