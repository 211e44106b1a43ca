package orders

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrderNotFound            = errors.New("order not found")
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")
	ErrInvalidTransition        = errors.New("invalid order status transition")
)

// ProductsNotFoundError menyebutkan semua id yang hilang dari batch load.
type ProductsNotFoundError struct {
	IDs []string
}

func (e *ProductsNotFoundError) Error() string {
	return fmt.Sprintf("products not found: %s", strings.Join(e.IDs, ", "))
}
