package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
)

const courierColumns = `id, chat_id, name, phone, status, latitude, longitude, delivery_radius`

// CourierRepo represents courier repository.
type CourierRepo struct{ db *pgxpool.Pool }

// NewCourierRepo creates a new CourierRepo.
func NewCourierRepo(db *pgxpool.Pool) *CourierRepo { return &CourierRepo{db: db} }

func scanCourier(row pgx.Row) (domain.Courier, error) {
	var (
		c        domain.Courier
		chatID   *int64
		lat, lon *float64
		radius   *float64
	)
	if err := row.Scan(&c.ID, &chatID, &c.Name, &c.Phone, &c.Status, &lat, &lon, &radius); err != nil {
		return domain.Courier{}, err
	}
	if chatID != nil {
		c.ChatID = *chatID
	}
	c.Location = domain.NewCoordinate(lat, lon)
	c.Radius = domain.RadiusFromPtr(radius)
	return c, nil
}

func nullableChat(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func locationArgs(loc *domain.Coordinate) (lat, lon *float64) {
	if loc == nil {
		return nil, nil
	}
	return &loc.Lat, &loc.Lon
}

// Get - returns courier by its ID.
func (r *CourierRepo) Get(ctx context.Context, id int64) (*domain.Courier, error) {
	c, err := scanCourier(r.db.QueryRow(ctx,
		`SELECT `+courierColumns+` FROM couriers WHERE id=$1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get courier %d: %w", id, err)
	}
	return &c, nil
}

// List returns couriers ordered by id. If limit/offset are nil, returns the full list.
func (r *CourierRepo) List(ctx context.Context, limit, offset *int) ([]domain.Courier, error) {
	q := `SELECT ` + courierColumns + ` FROM couriers ORDER BY id`
	args := make([]any, 0, 2)
	if limit != nil {
		q += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, *limit)
	}
	if offset != nil {
		q += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, *offset)
	}
	capacity := 0
	if limit != nil && *limit > 0 {
		capacity = *limit
	}
	return r.query(ctx, capacity, q, args...)
}

// ListDispatchable returns available couriers that have a chat, ordered by id.
func (r *CourierRepo) ListDispatchable(ctx context.Context) ([]domain.Courier, error) {
	out, err := r.query(ctx, 0, `
        SELECT `+courierColumns+`
        FROM couriers
        WHERE status = $1 AND chat_id IS NOT NULL
        ORDER BY id
    `, string(domain.StatusAvailable))
	if err != nil {
		return nil, fmt.Errorf("list dispatchable couriers: %w", err)
	}
	return out, nil
}

func (r *CourierRepo) query(ctx context.Context, capacity int, q string, args ...any) ([]domain.Courier, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Courier, 0, capacity)
	for rows.Next() {
		c, err := scanCourier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create - creates a new courier.
func (r *CourierRepo) Create(ctx context.Context, c *domain.Courier) (int64, error) {
	lat, lon := locationArgs(c.Location)
	var id int64
	err := r.db.QueryRow(ctx, `
        INSERT INTO couriers(chat_id, name, phone, status, latitude, longitude, delivery_radius)
        VALUES($1,$2,$3,$4,$5,$6,$7)
        RETURNING id
    `, nullableChat(c.ChatID), c.Name, c.Phone, string(c.Status), lat, lon, c.Radius.Ptr()).Scan(&id)
	if err != nil {
		if IsDuplicate(err) {
			return 0, apperr.ErrConflict
		}
		return 0, fmt.Errorf("create courier: %w", err)
	}
	return id, nil
}

// UpdatePartial applies a partial update to a courier and returns true if a row was affected.
// A Radius set to unlimited clears the stored radius.
func (r *CourierRepo) UpdatePartial(ctx context.Context, u domain.PartialCourierUpdate) (bool, error) {
	var status *string
	if u.Status != nil {
		s := string(*u.Status)
		status = &s
	}
	lat, lon := locationArgs(u.Location)
	setRadius := u.Radius != nil
	var radius *float64
	if setRadius {
		radius = u.Radius.Ptr()
	}

	ct, err := r.db.Exec(ctx, `
        UPDATE couriers
        SET
            name            = COALESCE($2, name),
            phone           = COALESCE($3, phone),
            chat_id         = COALESCE($4, chat_id),
            status          = COALESCE($5, status),
            latitude        = COALESCE($6, latitude),
            longitude       = COALESCE($7, longitude),
            delivery_radius = CASE WHEN $8::boolean THEN $9::double precision ELSE delivery_radius END,
            updated_at      = now()
        WHERE id = $1
    `, u.ID, u.Name, u.Phone, u.ChatID, status, lat, lon, setRadius, radius)
	if err != nil {
		if IsDuplicate(err) {
			return false, apperr.ErrConflict
		}
		return false, fmt.Errorf("update courier %d: %w", u.ID, err)
	}
	return ct.RowsAffected() > 0, nil
}
