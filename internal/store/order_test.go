package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/eclatbeaute/eclat/internal/database"
	"github.com/eclatbeaute/eclat/internal/model"
)

func setupOrderTestDB(t *testing.T) (*sql.DB, *OrderStore, *ProductStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	u, err := NewUserStore(db).Create("claire@example.com", "claire", "hash", model.RoleCustomer)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return db, NewOrderStore(db), NewProductStore(db), u.ID
}

func setDiscountPoints(t *testing.T, db *sql.DB, userID int64, points int) {
	t.Helper()
	if _, err := db.Exec(`UPDATE profiles SET discount_points = ? WHERE user_id = ?`, points, userID); err != nil {
		t.Fatalf("set discount points: %v", err)
	}
}

func discountPoints(t *testing.T, db *sql.DB, userID int64) int {
	t.Helper()
	var points int
	if err := db.QueryRow(`SELECT discount_points FROM profiles WHERE user_id = ?`, userID).Scan(&points); err != nil {
		t.Fatalf("get discount points: %v", err)
	}
	return points
}

func TestOrderCreate(t *testing.T) {
	_, os, prods, userID := setupOrderTestDB(t)

	serum, err := prods.Create("Sérum Éclat", "Sérum vitamine C", "skincare", 29.90, 10, "")
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	masque, err := prods.Create("Masque Hydratant", "Masque cheveux", "haircare", 15.00, 5, "")
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	order, err := os.Create(userID, []LineInput{
		{ProductID: serum.ID, Quantity: 2},
		{ProductID: masque.ID, Quantity: 1},
	}, "12 rue des Lilas, Paris", model.PaymentCreditCard, 0)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if order.Number == "" {
		t.Error("order number should be assigned")
	}
	if order.Status != model.OrderPending {
		t.Errorf("status = %q, want pending", order.Status)
	}
	want := 29.90*2 + 15.00
	if order.TotalPrice != want {
		t.Errorf("total = %v, want %v", order.TotalPrice, want)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(order.Items))
	}

	// Stock decremented per line.
	got, err := prods.GetByID(serum.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Stock != 8 {
		t.Errorf("serum stock = %d, want 8", got.Stock)
	}
}

func TestOrderCreateInsufficientStock(t *testing.T) {
	_, os, prods, userID := setupOrderTestDB(t)

	p, err := prods.Create("Sérum Éclat", "", "skincare", 29.90, 1, "")
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	_, err = os.Create(userID, []LineInput{{ProductID: p.ID, Quantity: 3}}, "adresse", model.PaymentPaypal, 0)
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.ProductName != "Sérum Éclat" {
		t.Errorf("error names product %q", stockErr.ProductName)
	}

	// Nothing persisted.
	got, err := prods.GetByID(p.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Stock != 1 {
		t.Errorf("stock = %d, want untouched 1", got.Stock)
	}
	orders, err := os.ListByUser(userID)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("expected no orders, got %d", len(orders))
	}
}

func TestOrderCreateUnknownProduct(t *testing.T) {
	_, os, _, userID := setupOrderTestDB(t)

	_, err := os.Create(userID, []LineInput{{ProductID: 404, Quantity: 1}}, "adresse", model.PaymentPaypal, 0)
	var nfErr *ProductNotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected ProductNotFoundError, got %v", err)
	}
	if nfErr.ProductID != 404 {
		t.Errorf("error names product %d", nfErr.ProductID)
	}
}

func TestOrderRedemption(t *testing.T) {
	db, os, prods, userID := setupOrderTestDB(t)

	p, err := prods.Create("Crème Nuit", "", "skincare", 40.00, 10, "")
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	setDiscountPoints(t, db, userID, 30)

	order, err := os.Create(userID, []LineInput{{ProductID: p.ID, Quantity: 1}}, "adresse", model.PaymentCreditCard, 25)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if order.DiscountAmount != 25 {
		t.Errorf("discount amount = %v, want 25", order.DiscountAmount)
	}
	if order.DiscountPointsUsed != 25 {
		t.Errorf("points used = %d, want 25", order.DiscountPointsUsed)
	}
	if order.TotalPrice != 15 {
		t.Errorf("total = %v, want 15", order.TotalPrice)
	}
	if got := discountPoints(t, db, userID); got != 5 {
		t.Errorf("wallet = %d, want 5", got)
	}
}

func TestOrderRedemptionClampedToTotal(t *testing.T) {
	db, os, prods, userID := setupOrderTestDB(t)

	p, err := prods.Create("Baume Lèvres", "", "skincare", 7.50, 10, "")
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	setDiscountPoints(t, db, userID, 100)

	order, err := os.Create(userID, []LineInput{{ProductID: p.ID, Quantity: 1}}, "adresse", model.PaymentCreditCard, 50)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	// Discount never exceeds the order total and only the points actually
	// needed are spent.
	if order.DiscountAmount != 7.50 {
		t.Errorf("discount amount = %v, want 7.50", order.DiscountAmount)
	}
	if order.DiscountPointsUsed != 7 {
		t.Errorf("points used = %d, want 7", order.DiscountPointsUsed)
	}
	if order.TotalPrice != 0 {
		t.Errorf("total = %v, want 0", order.TotalPrice)
	}
	if got := discountPoints(t, db, userID); got != 93 {
		t.Errorf("wallet = %d, want 93", got)
	}
}

func TestOrderRedemptionInsufficientPoints(t *testing.T) {
	db, os, prods, userID := setupOrderTestDB(t)

	p, err := prods.Create("Crème Nuit", "", "skincare", 40.00, 10, "")
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	setDiscountPoints(t, db, userID, 10)

	_, err = os.Create(userID, []LineInput{{ProductID: p.ID, Quantity: 1}}, "adresse", model.PaymentCreditCard, 25)
	var ptsErr *InsufficientPointsError
	if !errors.As(err, &ptsErr) {
		t.Fatalf("expected InsufficientPointsError, got %v", err)
	}
	if ptsErr.Requested != 25 || ptsErr.Available != 10 {
		t.Errorf("error = %+v", ptsErr)
	}

	// Wallet and stock untouched.
	if got := discountPoints(t, db, userID); got != 10 {
		t.Errorf("wallet = %d, want 10", got)
	}
	prod, err := prods.GetByID(p.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if prod.Stock != 10 {
		t.Errorf("stock = %d, want 10", prod.Stock)
	}
}

func TestOrderLifecycle(t *testing.T) {
	db, os, prods, userID := setupOrderTestDB(t)

	p, err := prods.Create("Sérum Éclat", "", "skincare", 29.90, 10, "")
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	setDiscountPoints(t, db, userID, 20)

	order, err := os.Create(userID, []LineInput{{ProductID: p.ID, Quantity: 1}}, "adresse", model.PaymentCreditCard, 20)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	paid, err := os.MarkPaid(order.ID)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if !paid.IsPaid || paid.Status != model.OrderProcessing {
		t.Errorf("after payment: paid=%v status=%q", paid.IsPaid, paid.Status)
	}

	cancelled, err := os.UpdateStatus(order.ID, model.OrderCancelled)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if cancelled.Status != model.OrderCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
	// Cancellation does not refund points.
	if got := discountPoints(t, db, userID); got != 0 {
		t.Errorf("wallet = %d, want 0 after cancellation", got)
	}
	if cancelled.DiscountPointsUsed != 20 {
		t.Errorf("points used = %d, want frozen 20", cancelled.DiscountPointsUsed)
	}

	if err := os.Delete(order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := os.GetByID(order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Error("order should be gone")
	}
}
