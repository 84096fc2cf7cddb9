package repos

import (
	"givetzy/internal/domain"

	"github.com/jmoiron/sqlx"
)

type FavoriteRepo struct{ db *sqlx.DB }

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Add saves the product and bumps its interest counter; saving twice is a
// no-op and leaves the counter alone.
func (r *FavoriteRepo) Add(userID, productID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
	  INSERT INTO favorites(user_id,product_id) VALUES(?,?)
	  ON CONFLICT(user_id,product_id) DO NOTHING
	`, userID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		if _, err := tx.Exec(`UPDATE products SET interest_count = interest_count + 1 WHERE id=?`, productID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *FavoriteRepo) Remove(userID, productID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`DELETE FROM favorites WHERE user_id=? AND product_id=?`, userID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		if _, err := tx.Exec(`
		  UPDATE products SET interest_count = MAX(interest_count - 1, 0) WHERE id=?
		`, productID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *FavoriteRepo) List(userID string) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE id IN (SELECT product_id FROM favorites WHERE user_id = ?)
	  ORDER BY created_at DESC
	`, userID)
	return out, err
}
