package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	apperrors "enrollment-module/errors"
	"enrollment-module/models"

	"github.com/lib/pq"
)

// OrderStore persists enrollment orders. Creation is insert-only; all
// status mutation goes through the conditional-update methods so duplicate
// gateway callbacks are arbitrated by the database, not application logic.
type OrderStore interface {
	Create(ctx context.Context, order *models.EnrollmentOrder) error
	FindByOrderID(ctx context.Context, orderID string) (*models.EnrollmentOrder, error)
	FindByInvoiceLink(ctx context.Context, invoiceLink string) (*models.EnrollmentOrder, error)
	// MarkPaid transitions PROCESSING -> SUCCESS. The bool reports whether
	// this call won the transition; a duplicate callback sees false with the
	// already-paid record.
	MarkPaid(ctx context.Context, orderID, paymentID string) (*models.EnrollmentOrder, bool, error)
	MarkFailed(ctx context.Context, orderID string) error
	MarkRefunded(ctx context.Context, orderID string) error
	ListAll(ctx context.Context) ([]models.EnrollmentOrder, error)
}

type sqlOrderStore struct {
	db *sql.DB
}

// NewOrderStore builds the Postgres-backed order store.
func NewOrderStore(database *sql.DB) OrderStore {
	return &sqlOrderStore{db: database}
}

const orderColumns = `id, invoice_no, invoice_link,
	name, email, phone, address, city, state, pincode, id_doc_type, id_doc_no, date_of_birth,
	product_type, product_id, product_name, addons, months,
	unit_price, program_price, addon_price, subtotal, gst_rate, gst_amount, total,
	order_id, payment_id, status, payment_date,
	terms_agreed, info_certified, created_at, updated_at`

func (s *sqlOrderStore) Create(ctx context.Context, order *models.EnrollmentOrder) error {
	addonsJSON, err := json.Marshal(order.Addons)
	if err != nil {
		return fmt.Errorf("error encoding add-on snapshot: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO enrollment_orders (
			invoice_no, invoice_link,
			name, email, phone, address, city, state, pincode, id_doc_type, id_doc_no, date_of_birth,
			product_type, product_id, product_name, addons, months,
			unit_price, program_price, addon_price, subtotal, gst_rate, gst_amount, total,
			order_id, status, terms_agreed, info_certified
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24,
			$25, $26, $27, $28
		) RETURNING id, created_at, updated_at`,
		order.InvoiceNo, order.InvoiceLink,
		order.Name, order.Email, order.Phone, order.Address, order.City, order.State,
		order.Pincode, order.IDDocType, order.IDDocNo, order.DateOfBirth,
		order.ProductType, order.ProductID, order.ProductName, addonsJSON, order.Months,
		order.UnitPrice, order.ProgramPrice, order.AddonPrice, order.Subtotal,
		order.GSTRate, order.GSTAmount, order.Total,
		order.OrderID, order.Status, order.TermsAgreed, order.InfoCertified,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperrors.E(apperrors.Conflict, "order already exists", err)
		}
		return fmt.Errorf("error saving enrollment order: %w", err)
	}
	return nil
}

func (s *sqlOrderStore) FindByOrderID(ctx context.Context, orderID string) (*models.EnrollmentOrder, error) {
	return s.findBy(ctx, "order_id", orderID)
}

func (s *sqlOrderStore) FindByInvoiceLink(ctx context.Context, invoiceLink string) (*models.EnrollmentOrder, error) {
	return s.findBy(ctx, "invoice_link", invoiceLink)
}

func (s *sqlOrderStore) findBy(ctx context.Context, column, value string) (*models.EnrollmentOrder, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM enrollment_orders WHERE `+column+` = $1`, value)

	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.E(apperrors.NotFound, "order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("error reading enrollment order: %w", err)
	}
	return order, nil
}

func (s *sqlOrderStore) MarkPaid(ctx context.Context, orderID, paymentID string) (*models.EnrollmentOrder, bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE enrollment_orders
		SET status = $1,
			payment_id = $2,
			payment_date = COALESCE(payment_date, CURRENT_TIMESTAMP),
			updated_at = CURRENT_TIMESTAMP
		WHERE order_id = $3 AND status = $4`,
		models.StatusSuccess, paymentID, orderID, models.StatusProcessing)
	if err != nil {
		return nil, false, fmt.Errorf("error updating payment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("error checking payment update: %w", err)
	}

	order, err := s.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}

	if rows == 0 {
		// Lost the race or the order never reached PROCESSING. An order that
		// is already SUCCESS means a duplicate callback; anything else is a
		// state the transition must not touch.
		if order.Status != models.StatusSuccess {
			return nil, false, apperrors.E(apperrors.Conflict,
				fmt.Sprintf("order %s is %s, cannot mark paid", orderID, order.Status))
		}
		return order, false, nil
	}

	return order, true, nil
}

func (s *sqlOrderStore) MarkFailed(ctx context.Context, orderID string) error {
	return s.transition(ctx, orderID, models.StatusProcessing, models.StatusFailed)
}

func (s *sqlOrderStore) MarkRefunded(ctx context.Context, orderID string) error {
	// REFUNDED is reachable only from SUCCESS
	return s.transition(ctx, orderID, models.StatusSuccess, models.StatusRefunded)
}

func (s *sqlOrderStore) transition(ctx context.Context, orderID string, from, to models.PaymentStatus) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE enrollment_orders
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE order_id = $2 AND status = $3`,
		to, orderID, from)
	if err != nil {
		return fmt.Errorf("error updating order status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking order update: %w", err)
	}
	if rows == 0 {
		return apperrors.E(apperrors.Conflict,
			fmt.Sprintf("order %s is not %s, cannot mark %s", orderID, from, to))
	}
	return nil
}

func (s *sqlOrderStore) ListAll(ctx context.Context) ([]models.EnrollmentOrder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM enrollment_orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollment orders: %w", err)
	}
	defer rows.Close()

	var orders []models.EnrollmentOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment order: %w", err)
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*models.EnrollmentOrder, error) {
	var order models.EnrollmentOrder
	var paymentID sql.NullString
	var paymentDate sql.NullTime
	var addonsJSON []byte

	err := row.Scan(
		&order.ID, &order.InvoiceNo, &order.InvoiceLink,
		&order.Name, &order.Email, &order.Phone, &order.Address, &order.City,
		&order.State, &order.Pincode, &order.IDDocType, &order.IDDocNo, &order.DateOfBirth,
		&order.ProductType, &order.ProductID, &order.ProductName,
		&addonsJSON, &order.Months,
		&order.UnitPrice, &order.ProgramPrice, &order.AddonPrice, &order.Subtotal,
		&order.GSTRate, &order.GSTAmount, &order.Total,
		&order.OrderID, &paymentID, &order.Status, &paymentDate,
		&order.TermsAgreed, &order.InfoCertified, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(addonsJSON) > 0 {
		if err := json.Unmarshal(addonsJSON, &order.Addons); err != nil {
			return nil, fmt.Errorf("error decoding add-on snapshot: %w", err)
		}
	}
	if paymentID.Valid {
		order.PaymentID = paymentID.String
	}
	if paymentDate.Valid {
		order.PaymentDate = &paymentDate.Time
	}
	return &order, nil
}
