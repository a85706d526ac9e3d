package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/ports/offertx"
)

// OfferRepo stores the courier_orders trace of every offer.
type OfferRepo struct {
	db *pgxpool.Pool
}

// NewOfferRepo creates a new OfferRepo.
func NewOfferRepo(db *pgxpool.Pool) *OfferRepo {
	return &OfferRepo{db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *OfferRepo) WithTx(ctx context.Context, fn func(tx offertx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	// откатываем в случае паники
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(&TxRepo{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListByOrder returns every offer made for the order, oldest first.
func (r *OfferRepo) ListByOrder(ctx context.Context, orderID string) ([]domain.OfferRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT `+offerColumns+`
        FROM courier_orders
        WHERE order_id = $1
        ORDER BY id
    `, orderID)
	if err != nil {
		return nil, fmt.Errorf("list offers for order %q: %w", orderID, err)
	}
	defer rows.Close()

	var out []domain.OfferRecord
	for rows.Next() {
		rec, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// TxRepo represents transaction repository.
type TxRepo struct {
	tx pgx.Tx
}

const offerColumns = `id, courier_id, courier_chat_id, customer_id, customer_chat_id, order_id,
        product_name, quantity, address, latitude, longitude, maps_url, phone, customer_name,
        distance_meters, status, created_at, updated_at`

func scanOffer(row pgx.Row) (domain.OfferRecord, error) {
	var (
		rec            domain.OfferRecord
		courierChatID  *int64
		customerChatID *int64
		lat, lon       *float64
		status         string
	)
	err := row.Scan(&rec.ID, &rec.CourierID, &courierChatID, &rec.CustomerID, &customerChatID, &rec.OrderID,
		&rec.ProductName, &rec.Quantity, &rec.Address, &lat, &lon, &rec.MapsURL, &rec.Phone, &rec.CustomerName,
		&rec.DistanceMeters, &status, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return domain.OfferRecord{}, err
	}
	if courierChatID != nil {
		rec.CourierChatID = *courierChatID
	}
	if customerChatID != nil {
		rec.CustomerChatID = *customerChatID
	}
	rec.Location = domain.NewCoordinate(lat, lon)
	rec.Status = domain.OfferStatus(status)
	return rec, nil
}

// SaveOffer inserts the offer or reopens an earlier one for the same order and courier.
func (r *TxRepo) SaveOffer(ctx context.Context, rec *domain.OfferRecord) error {
	lat, lon := locationArgs(rec.Location)
	err := r.tx.QueryRow(ctx, `
        INSERT INTO courier_orders (courier_id, courier_chat_id, customer_id, customer_chat_id, order_id,
            product_name, quantity, address, latitude, longitude, maps_url, phone, customer_name,
            distance_meters, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        ON CONFLICT (order_id, courier_id) DO UPDATE
        SET status = EXCLUDED.status,
            distance_meters = EXCLUDED.distance_meters,
            updated_at = now()
        RETURNING id, created_at, updated_at
    `, rec.CourierID, nullableChat(rec.CourierChatID), rec.CustomerID, nullableChat(rec.CustomerChatID), rec.OrderID,
		rec.ProductName, rec.Quantity, rec.Address, lat, lon, rec.MapsURL, rec.Phone, rec.CustomerName,
		rec.DistanceMeters, string(rec.Status),
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save offer %q/%d: %w", rec.OrderID, rec.CourierID, err)
	}
	return nil
}

// UpdateOfferStatus sets the status of one offer and reports whether it existed.
func (r *TxRepo) UpdateOfferStatus(ctx context.Context, orderID string, courierID int64, status domain.OfferStatus) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE courier_orders
        SET status = $3, updated_at = now()
        WHERE order_id = $1 AND courier_id = $2
    `, orderID, courierID, string(status))
	if err != nil {
		return false, fmt.Errorf("update offer %q/%d: %w", orderID, courierID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// AcceptedOffer returns the accepted offer of the order or nil.
func (r *TxRepo) AcceptedOffer(ctx context.Context, orderID string) (*domain.OfferRecord, error) {
	rec, err := scanOffer(r.tx.QueryRow(ctx, `SELECT `+offerColumns+`
        FROM courier_orders
        WHERE order_id = $1 AND status = $2
        FOR UPDATE
    `, orderID, string(domain.OfferAccepted)))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get accepted offer %q: %w", orderID, err)
	}
	return &rec, nil
}

// UpdateCourierStatus - update courier status.
func (r *TxRepo) UpdateCourierStatus(ctx context.Context, id int64, status domain.CourierStatus) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE couriers
        SET status = $2, updated_at = now()
        WHERE id = $1
    `, id, string(status))
	if err != nil {
		return fmt.Errorf("update courier status %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("courier %d not found", id)
	}
	return nil
}
