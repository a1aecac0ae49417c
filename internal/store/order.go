package store

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/eclatbeaute/eclat/internal/model"
)

type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

const orderCols = `id, number, user_id, total_price, discount_points_used, discount_amount,
	status, shipping_address, payment_method, is_paid, created_at, updated_at`

func scanOrder(scanner interface{ Scan(...any) error }) (*model.Order, error) {
	var o model.Order
	var isPaid int
	err := scanner.Scan(
		&o.ID, &o.Number, &o.UserID, &o.TotalPrice, &o.DiscountPointsUsed, &o.DiscountAmount,
		&o.Status, &o.ShippingAddress, &o.PaymentMethod, &isPaid, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.IsPaid = isPaid != 0
	return &o, nil
}

// LineInput is one requested order line.
type LineInput struct {
	ProductID int64
	Quantity  int
}

// ProductNotFoundError names the missing product in an order request.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// Create builds an order in a single transaction: validate every line's
// stock, debit the wallet (clamped so no more points are spent than the
// amount needed to zero the order), decrement stock per line, and insert the
// order with its items. Any failure rolls the whole thing back.
//
// Conversion rate is fixed at 1 point = 1 currency unit.
func (s *OrderStore) Create(userID int64, lines []LineInput, shippingAddress, paymentMethod string, discountPointsToUse int) (*model.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	type pricedLine struct {
		LineInput
		name  string
		price float64
	}

	// Validate every line before mutating anything.
	var rawTotal float64
	priced := make([]pricedLine, 0, len(lines))
	for _, line := range lines {
		var name string
		var price float64
		var stock int
		err := tx.QueryRow(`SELECT name, price, stock FROM products WHERE id = ?`, line.ProductID).
			Scan(&name, &price, &stock)
		if err == sql.ErrNoRows {
			return nil, &ProductNotFoundError{ProductID: line.ProductID}
		}
		if err != nil {
			return nil, fmt.Errorf("get product %d: %w", line.ProductID, err)
		}
		if stock < line.Quantity {
			return nil, &InsufficientStockError{ProductID: line.ProductID, ProductName: name}
		}
		rawTotal += price * float64(line.Quantity)
		priced = append(priced, pricedLine{LineInput: line, name: name, price: price})
	}

	// Redemption: clamp to the raw total, never spend more points than
	// needed to zero out the order.
	var discountAmount float64
	pointsUsed := 0
	if discountPointsToUse > 0 {
		var available int
		err := tx.QueryRow(`SELECT discount_points FROM profiles WHERE user_id = ?`, userID).Scan(&available)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile for user %d not found", userID)
		}
		if err != nil {
			return nil, fmt.Errorf("get wallet: %w", err)
		}
		if discountPointsToUse > available {
			return nil, &InsufficientPointsError{Requested: discountPointsToUse, Available: available}
		}

		discountAmount = float64(discountPointsToUse)
		pointsUsed = discountPointsToUse
		if discountAmount > rawTotal {
			discountAmount = rawTotal
			pointsUsed = int(math.Floor(rawTotal))
		}

		// Conditional debit: concurrent redemptions serialize here instead
		// of racing through a read-modify-write.
		result, err := tx.Exec(
			`UPDATE profiles SET discount_points = discount_points - ?, updated_at = CURRENT_TIMESTAMP
			WHERE user_id = ? AND discount_points >= ?`,
			pointsUsed, userID, pointsUsed,
		)
		if err != nil {
			return nil, fmt.Errorf("debit wallet: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return nil, &InsufficientPointsError{Requested: pointsUsed, Available: available}
		}
	}

	totalPrice := math.Max(0, rawTotal-discountAmount)

	number := uuid.NewString()
	result, err := tx.Exec(
		`INSERT INTO orders (number, user_id, total_price, discount_points_used, discount_amount, shipping_address, payment_method)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		number, userID, totalPrice, pointsUsed, discountAmount, shippingAddress, paymentMethod,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, line := range priced {
		if _, err := tx.Exec(
			`INSERT INTO order_items (order_id, product_id, quantity, price) VALUES (?, ?, ?, ?)`,
			orderID, line.ProductID, line.Quantity, line.price,
		); err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}

		// Guard against a concurrent order draining the stock between our
		// read and this write.
		result, err := tx.Exec(
			`UPDATE products SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND stock >= ?`,
			line.Quantity, line.ProductID, line.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return nil, &InsufficientStockError{ProductID: line.ProductID, ProductName: line.name}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return s.GetByID(orderID)
}

func (s *OrderStore) GetByID(id int64) (*model.Order, error) {
	row := s.db.QueryRow(`SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := s.ItemsByOrder(id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (s *OrderStore) ListByUser(userID int64) ([]model.Order, error) {
	rows, err := s.db.Query(`SELECT `+orderCols+` FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.ItemsByOrder(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (s *OrderStore) ItemsByOrder(orderID int64) ([]model.OrderItem, error) {
	rows, err := s.db.Query(
		`SELECT id, order_id, product_id, quantity, price FROM order_items WHERE order_id = ? ORDER BY id ASC`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := []model.OrderItem{}
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// MarkPaid flips the paid flag and moves the order to processing.
func (s *OrderStore) MarkPaid(id int64) (*model.Order, error) {
	_, err := s.db.Exec(
		`UPDATE orders SET is_paid = 1, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.OrderProcessing, id,
	)
	if err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}
	return s.GetByID(id)
}

// UpdateStatus changes the fulfillment status. Discount fields stay frozen,
// including on cancellation: points are not refunded.
func (s *OrderStore) UpdateStatus(id int64, status model.OrderStatus) (*model.Order, error) {
	_, err := s.db.Exec(
		`UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes an order and its items. No point refund.
func (s *OrderStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}
