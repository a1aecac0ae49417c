package store

import "fmt"

// InsufficientPointsError is returned when a wallet debit exceeds the
// available balance. It carries the balance so handlers can surface it.
type InsufficientPointsError struct {
	Requested int
	Available int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient discount points: requested %d, available %d", e.Requested, e.Available)
}

// InsufficientStockError names the product that cannot cover the ordered
// quantity.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q (product %d)", e.ProductName, e.ProductID)
}
