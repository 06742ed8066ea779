package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"jumewears/internal/model"
)

type bulkOrderRepository struct {
	db *sqlx.DB
}

func NewBulkOrderRepository(db *sqlx.DB) BulkOrderRepository {
	return &bulkOrderRepository{db: db}
}

const linkColumns = `
	id, organization_name, price_per_item_cents, custom_branding_enabled,
	payment_deadline, created_by, created_at, updated_at
`

func (r *bulkOrderRepository) CreateLink(ctx context.Context, link *model.BulkOrderLink, couponCodes []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO bulk_order_links
			(id, organization_name, price_per_item_cents, custom_branding_enabled, payment_deadline, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, link.ID, link.OrganizationName, link.PricePerItemCents,
		link.CustomBrandingEnabled, link.PaymentDeadline, link.CreatedBy).
		Scan(&link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert bulk order link: %w", err)
	}

	for _, code := range couponCodes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO coupon_codes (id, bulk_order_id, code) VALUES ($1, $2, $3)
		`, uuid.New(), link.ID, code); err != nil {
			return fmt.Errorf("insert coupon code: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *bulkOrderRepository) GetLink(ctx context.Context, id uuid.UUID) (*model.BulkOrderLink, error) {
	var link model.BulkOrderLink
	err := r.db.GetContext(ctx, &link,
		`SELECT `+linkColumns+` FROM bulk_order_links WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get bulk order link: %w", err)
	}
	return &link, nil
}

func (r *bulkOrderRepository) GetLinkWithOrders(ctx context.Context, id uuid.UUID) (*model.BulkOrderLink, error) {
	link, err := r.GetLink(ctx, id)
	if err != nil {
		return nil, err
	}
	err = r.db.SelectContext(ctx, &link.Orders, `
		SELECT id, bulk_order_id, serial_number, email, full_name, size, custom_name,
		       coupon_used_id, paid, payment_reference, created_at, updated_at
		FROM order_entries
		WHERE bulk_order_id = $1
		ORDER BY serial_number ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get order entries: %w", err)
	}
	return link, nil
}

func (r *bulkOrderRepository) ListActiveLinks(ctx context.Context, createdBy int64) ([]model.BulkOrderLink, error) {
	var links []model.BulkOrderLink
	err := r.db.SelectContext(ctx, &links, `
		SELECT `+linkColumns+` FROM bulk_order_links
		WHERE created_by = $1 AND payment_deadline > NOW()
		ORDER BY created_at DESC
	`, createdBy)
	if err != nil {
		return nil, fmt.Errorf("list active links: %w", err)
	}
	return links, nil
}

// CreateEntry assigns the serial number under a row lock on the link so two
// concurrent submissions cannot claim the same number, and redeems the coupon
// in the same transaction.
func (r *bulkOrderRepository) CreateEntry(ctx context.Context, entry *model.OrderEntry, coupon *model.CouponCode) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var linkID uuid.UUID
	err = tx.GetContext(ctx, &linkID,
		`SELECT id FROM bulk_order_links WHERE id = $1 FOR UPDATE`, entry.LinkID)
	if err == sql.ErrNoRows {
		return model.ErrLinkNotFound
	}
	if err != nil {
		return fmt.Errorf("lock bulk order link: %w", err)
	}

	var maxSerial sql.NullInt64
	err = tx.GetContext(ctx, &maxSerial,
		`SELECT MAX(serial_number) FROM order_entries WHERE bulk_order_id = $1`, entry.LinkID)
	if err != nil {
		return fmt.Errorf("get max serial: %w", err)
	}
	entry.SerialNumber = int(maxSerial.Int64) + 1

	if coupon != nil {
		res, err := tx.ExecContext(ctx, `
			UPDATE coupon_codes SET is_used = TRUE
			WHERE id = $1 AND is_used = FALSE
		`, coupon.ID)
		if err != nil {
			return fmt.Errorf("redeem coupon: %w", err)
		}
		// Someone else may have redeemed it between validation and now.
		if n, _ := res.RowsAffected(); n == 0 {
			return model.ErrCouponNotFound
		}
		entry.CouponUsed = &coupon.ID
		entry.Paid = true
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO order_entries
			(id, bulk_order_id, serial_number, email, full_name, size, custom_name, coupon_used_id, paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, entry.ID, entry.LinkID, entry.SerialNumber, entry.Email, entry.FullName,
		entry.Size, entry.CustomName, entry.CouponUsed, entry.Paid).
		Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *bulkOrderRepository) GetEntry(ctx context.Context, id uuid.UUID) (*model.OrderEntry, error) {
	var entry model.OrderEntry
	err := r.db.GetContext(ctx, &entry, `
		SELECT id, bulk_order_id, serial_number, email, full_name, size, custom_name,
		       coupon_used_id, paid, payment_reference, created_at, updated_at
		FROM order_entries WHERE id = $1
	`, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order entry: %w", err)
	}
	return &entry, nil
}

func (r *bulkOrderRepository) GetUnusedCoupon(ctx context.Context, linkID uuid.UUID, code string) (*model.CouponCode, error) {
	var coupon model.CouponCode
	err := r.db.GetContext(ctx, &coupon, `
		SELECT id, bulk_order_id, code, is_used, created_at
		FROM coupon_codes
		WHERE bulk_order_id = $1 AND code = $2 AND is_used = FALSE
	`, linkID, code)
	if err == sql.ErrNoRows {
		return nil, model.ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	return &coupon, nil
}

func (r *bulkOrderRepository) MarkEntryPaid(ctx context.Context, id uuid.UUID, reference string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE order_entries
		SET paid = TRUE, payment_reference = $1, updated_at = NOW()
		WHERE id = $2 AND paid = FALSE
	`, reference, id)
	if err != nil {
		return false, fmt.Errorf("mark entry paid: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return true, nil
	}

	var exists bool
	err = r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM order_entries WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("check entry exists: %w", err)
	}
	if !exists {
		return false, model.ErrOrderNotFound
	}
	return false, nil
}

func (r *bulkOrderRepository) CountCoupons(ctx context.Context, linkID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM coupon_codes WHERE bulk_order_id = $1 AND is_used = FALSE`, linkID)
	if err != nil {
		return 0, fmt.Errorf("count coupons: %w", err)
	}
	return count, nil
}
