package repos

import (
	"givetzy/internal/domain"

	"github.com/jmoiron/sqlx"
)

type TransactionRepo struct{ db *sqlx.DB }

func NewTransactionRepo(db *sqlx.DB) *TransactionRepo { return &TransactionRepo{db: db} }

const txCols = `
  id, product_id, buyer_id, seller_id, quantity, total_price, status,
  payment_method, shipping_address, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *TransactionRepo) Beginx() (*sqlx.Tx, error) { return r.db.Beginx() }

// Insert writes the transaction row inside the caller's DB transaction so it
// commits or rolls back together with the product status flip.
func (r *TransactionRepo) Insert(tx *sqlx.Tx, t *domain.Transaction) error {
	_, err := tx.Exec(`
	  INSERT INTO transactions(id,product_id,buyer_id,seller_id,quantity,total_price,status,payment_method,shipping_address)
	  VALUES(?,?,?,?,?,?,?,?,?)
	`, t.ID, t.ProductID, t.BuyerID, t.SellerID, t.Quantity, t.TotalPrice, t.Status, t.PaymentMethod, t.ShippingAddress)
	return err
}

func (r *TransactionRepo) Get(id string) (domain.Transaction, error) {
	var t domain.Transaction
	err := r.db.Get(&t, `SELECT `+txCols+` FROM transactions WHERE id = ?`, id)
	return t, err
}

// UpdateStatus runs inside the caller's DB transaction so the status change
// and any compensating product release commit together.
func (r *TransactionRepo) UpdateStatus(tx *sqlx.Tx, id, status string) error {
	_, err := tx.Exec(`
	  UPDATE transactions SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, status, id)
	return err
}

func (r *TransactionRepo) Delete(tx *sqlx.Tx, id string) error {
	_, err := tx.Exec(`DELETE FROM transactions WHERE id=?`, id)
	return err
}

// TransactionRow annotates a transaction with its product summary for lists.
type TransactionRow struct {
	domain.Transaction
	ProductName  string  `db:"product_name" json:"product_name"`
	ProductImage string  `db:"product_image" json:"product_image,omitempty"`
	ProductPrice float64 `db:"product_price" json:"product_price"`
}

// ListForUser returns the user's transactions. role "purchase" keeps the
// buyer side, "sale" the seller side, anything else the union.
func (r *TransactionRepo) ListForUser(userID, role string) ([]TransactionRow, error) {
	where := `(t.buyer_id = ? OR t.seller_id = ?)`
	args := []any{userID, userID}
	switch role {
	case "purchase":
		where = `t.buyer_id = ?`
		args = []any{userID}
	case "sale":
		where = `t.seller_id = ?`
		args = []any{userID}
	}

	out := []TransactionRow{}
	err := r.db.Select(&out, `
	  SELECT t.id, t.product_id, t.buyer_id, t.seller_id, t.quantity, t.total_price,
	         t.status, t.payment_method, t.shipping_address, t.created_at,
	         COALESCE(t.updated_at,'') AS updated_at,
	         p.name AS product_name, p.image_path AS product_image, p.price AS product_price
	  FROM transactions t
	  JOIN products p ON p.id = t.product_id
	  WHERE `+where+`
	  ORDER BY datetime(t.created_at) DESC
	`, args...)
	return out, err
}
