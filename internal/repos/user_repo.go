package repos

import (
	"givetzy/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,email,password_hash,name,phone,address,avatar_path,created_at,COALESCE(updated_at,'') AS updated_at`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) EmailExists(email string) (bool, error) {
	var n int
	if err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(email)=LOWER(?)`, email); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepo) Create(u *domain.User) error {
	_, err := r.DB.Exec(`
	  INSERT INTO users(id,email,password_hash,name,phone,address,avatar_path)
	  VALUES(?,?,?,?,?,?,?)
	`, u.ID, u.Email, u.Hash, u.Name, u.Phone, u.Address, u.AvatarPath)
	return err
}

// UserPatch carries a partial profile update; nil fields are left untouched.
type UserPatch struct {
	Name       *string
	Phone      *string
	Address    *string
	AvatarPath *string
	Hash       *string
}

func (r *UserRepo) Update(id string, p UserPatch) error {
	set := `updated_at=CURRENT_TIMESTAMP`
	args := []any{}
	if p.Name != nil {
		set += `, name=?`
		args = append(args, *p.Name)
	}
	if p.Phone != nil {
		set += `, phone=?`
		args = append(args, *p.Phone)
	}
	if p.Address != nil {
		set += `, address=?`
		args = append(args, *p.Address)
	}
	if p.AvatarPath != nil {
		set += `, avatar_path=?`
		args = append(args, *p.AvatarPath)
	}
	if p.Hash != nil {
		set += `, password_hash=?`
		args = append(args, *p.Hash)
	}
	args = append(args, id)
	_, err := r.DB.Exec(`UPDATE users SET `+set+` WHERE id=?`, args...)
	return err
}

// Delete removes the user; products cascade, and their transactions cascade
// with them at the schema level.
func (r *UserRepo) Delete(id string) error {
	_, err := r.DB.Exec(`DELETE FROM users WHERE id=?`, id)
	return err
}
