package domain

// Error is a domain-rule violation carrying a machine-readable code the
// client can branch on. Handlers map it to HTTP 400.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrItemUnavailable = &Error{Code: "ITEM_UNAVAILABLE", Message: "item is no longer available"}
	ErrSelfPurchase    = &Error{Code: "SELF_PURCHASE_NOT_ALLOWED", Message: "you cannot purchase your own item"}
	ErrSelfChat        = &Error{Code: "SELF_CONVERSATION_NOT_ALLOWED", Message: "you cannot start a conversation with yourself"}
	ErrBadTransition   = &Error{Code: "INVALID_STATUS_TRANSITION", Message: "transaction status change is not allowed"}
)
