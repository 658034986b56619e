package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"dinefind/internal/model"
)

// Column list shared by every restaurant read. Keeping it in one place
// keeps the Scan calls in sync with the schema.
const restaurantColumns = `id, name, category, city, price, photo, num_ratings, sum_rating, avg_rating, created_at, updated_at`

const defaultListLimit = 50

// RestaurantRepo provides access to the restaurants table. Rating
// aggregates are read-only here; they are written exclusively by the
// review aggregation transaction in ReviewRepo.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo returns a new RestaurantRepo bound to the given database.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

// DB exposes the underlying handle for callers that need to begin
// their own transactions.
func (r *RestaurantRepo) DB() *sql.DB { return r.db }

// Create inserts a new restaurant with zeroed aggregates. An ID is
// assigned when the caller did not supply one, and the store-assigned
// timestamps are read back onto the record.
func (r *RestaurantRepo) Create(ctx context.Context, rest *model.Restaurant) error {
	if rest == nil || strings.TrimSpace(rest.Name) == "" {
		return ErrInvalidArgument
	}
	if rest.ID == "" {
		rest.ID = uuid.NewString()
	}
	const q = `INSERT INTO restaurants (id, name, category, city, price, photo, num_ratings, sum_rating, avg_rating)
	           VALUES (?, ?, ?, ?, ?, ?, 0, 0, 0)`
	if _, err := r.db.ExecContext(ctx, q, rest.ID, rest.Name, rest.Category, rest.City, rest.Price, rest.Photo); err != nil {
		return err
	}
	rest.NumRatings, rest.SumRating, rest.AvgRating = 0, 0, 0
	const sel = `SELECT created_at, updated_at FROM restaurants WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, rest.ID).Scan(&rest.CreatedAt, &rest.UpdatedAt)
}

// GetByID fetches a single restaurant. It returns ErrInvalidArgument
// for an empty identifier and ErrRestaurantNotFound when no record
// matches, so callers always receive an explicit failure instead of a
// silent miss.
func (r *RestaurantRepo) GetByID(ctx context.Context, id string) (*model.Restaurant, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidArgument
	}
	const q = `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = ?`
	var rest model.Restaurant
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rest.ID, &rest.Name, &rest.Category, &rest.City, &rest.Price, &rest.Photo,
		&rest.NumRatings, &rest.SumRating, &rest.AvgRating, &rest.CreatedAt, &rest.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

// Search executes the query composed from the given criteria and maps
// each row to a model.Restaurant. The ordering clause comes from the
// composer's fixed set, and every filter value is bound as an argument.
func (r *RestaurantRepo) Search(ctx context.Context, c SearchCriteria) ([]model.Restaurant, error) {
	q := Compose(c)
	cond := "1=1"
	if len(q.Conds) > 0 {
		cond = strings.Join(q.Conds, " AND ")
	}
	limit := c.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE ` + cond +
		` ORDER BY ` + q.OrderBy + ` LIMIT ?`
	args := append(append([]any{}, q.Args...), limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Restaurant, 0, limit)
	for rows.Next() {
		var rest model.Restaurant
		if err := rows.Scan(
			&rest.ID, &rest.Name, &rest.Category, &rest.City, &rest.Price, &rest.Photo,
			&rest.NumRatings, &rest.SumRating, &rest.AvgRating, &rest.CreatedAt, &rest.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePhoto unconditionally replaces the photo reference of an
// existing restaurant. Setting the same value twice is not an error;
// a zero-row update is only a failure when the record does not exist.
func (r *RestaurantRepo) UpdatePhoto(ctx context.Context, id, photo string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidArgument
	}
	const q = `UPDATE restaurants SET photo = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, photo, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		const check = `SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = ?)`
		if err := r.db.QueryRowContext(ctx, check, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrRestaurantNotFound
		}
	}
	return nil
}
