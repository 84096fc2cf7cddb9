package domain

// Transaction states. pending is the only non-terminal state; the legal
// transitions are pending->completed and pending->cancelled.
const (
	TxPending   = "pending"
	TxCompleted = "completed"
	TxCancelled = "cancelled"
)

type Transaction struct {
	ID              string  `db:"id" json:"id"`
	ProductID       string  `db:"product_id" json:"product_id"`
	BuyerID         string  `db:"buyer_id" json:"buyer_id"`
	SellerID        string  `db:"seller_id" json:"seller_id"`
	Quantity        int     `db:"quantity" json:"quantity"`
	TotalPrice      float64 `db:"total_price" json:"total_price"`
	Status          string  `db:"status" json:"status"`
	PaymentMethod   string  `db:"payment_method" json:"payment_method,omitempty"`
	ShippingAddress string  `db:"shipping_address" json:"shipping_address,omitempty"`
	CreatedAt       string  `db:"created_at" json:"created_at"`
	UpdatedAt       string  `db:"updated_at" json:"updated_at,omitempty"`
}

// TxAllowedTransition reports whether from->to is a legal state change.
func TxAllowedTransition(from, to string) bool {
	return from == TxPending && (to == TxCompleted || to == TxCancelled)
}
