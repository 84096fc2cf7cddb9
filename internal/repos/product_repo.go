package repos

import (
	"givetzy/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, user_id, name, description, category, price, condition, status,
  location, image_path, view_count, interest_count,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) List(f domain.ProductFilter) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if f.Search != "" {
		where += ` AND LOWER(name) LIKE ?`
		args = append(args, "%"+f.Search+"%")
	}
	if f.Category != "" {
		where += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.MinPrice > 0 {
		where += ` AND price >= ?`
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		where += ` AND price <= ?`
		args = append(args, f.MaxPrice)
	}

	// SortBy/Order come from validate and are safe to splice.
	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	order := f.Order
	if order == "" {
		order = "DESC"
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	sql := `SELECT ` + productCols + ` FROM products WHERE ` + where +
		` ORDER BY ` + sortBy + ` ` + order + ` LIMIT ? OFFSET ?`
	args = append(args, limit, f.Offset)

	out := []domain.Product{}
	err := r.db.Select(&out, sql, args...)
	return out, err
}

func (r *ProductRepo) ListByOwner(ownerID, status string) ([]domain.Product, error) {
	out := []domain.Product{}
	if status != "" {
		err := r.db.Select(&out, `SELECT `+productCols+` FROM products
		  WHERE user_id = ? AND status = ? ORDER BY created_at DESC`, ownerID, status)
		return out, err
	}
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products
	  WHERE user_id = ? ORDER BY created_at DESC`, ownerID)
	return out, err
}

func (r *ProductRepo) Create(p *domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id,user_id,name,description,category,price,condition,status,location,image_path)
	  VALUES(?,?,?,?,?,?,?,?,?,?)
	`, p.ID, p.UserID, p.Name, p.Description, p.Category, p.Price, p.Condition, p.Status, p.Location, p.ImagePath)
	return err
}

func (r *ProductRepo) Update(id string, p domain.ProductPatch) error {
	set := `updated_at=CURRENT_TIMESTAMP`
	args := []any{}
	if p.Name != nil {
		set += `, name=?`
		args = append(args, *p.Name)
	}
	if p.Description != nil {
		set += `, description=?`
		args = append(args, *p.Description)
	}
	if p.Category != nil {
		set += `, category=?`
		args = append(args, *p.Category)
	}
	if p.Price != nil {
		set += `, price=?`
		args = append(args, *p.Price)
	}
	if p.Condition != nil {
		set += `, condition=?`
		args = append(args, *p.Condition)
	}
	if p.Status != nil {
		set += `, status=?`
		args = append(args, *p.Status)
	}
	if p.Location != nil {
		set += `, location=?`
		args = append(args, *p.Location)
	}
	if p.ImagePath != nil {
		set += `, image_path=?`
		args = append(args, *p.ImagePath)
	}
	args = append(args, id)
	_, err := r.db.Exec(`UPDATE products SET `+set+` WHERE id=?`, args...)
	return err
}

func (r *ProductRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	return err
}

// MarkSold flips available->sold only if the product is still available.
// The affected-row count is how concurrent purchases of the same item are
// serialized: the loser sees zero rows and must fail.
func (r *ProductRepo) MarkSold(tx *sqlx.Tx, id string) (bool, error) {
	res, err := tx.Exec(`
	  UPDATE products SET status='sold', updated_at=CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'available'
	`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// Release reverts a sold product to available (compensating action when a
// transaction is cancelled or deleted). Runs inside the caller's DB
// transaction, paired with the status change it compensates for.
func (r *ProductRepo) Release(tx *sqlx.Tx, id string) error {
	_, err := tx.Exec(`
	  UPDATE products SET status='available', updated_at=CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'sold'
	`, id)
	return err
}

func (r *ProductRepo) IncrementViews(id string) error {
	_, err := r.db.Exec(`UPDATE products SET view_count = view_count + 1 WHERE id=?`, id)
	return err
}

// Categories lists the distinct non-empty categories in use.
func (r *ProductRepo) Categories() ([]string, error) {
	out := []string{}
	err := r.db.Select(&out, `SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`)
	return out, err
}
