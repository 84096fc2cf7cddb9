package domain

type User struct {
	ID         string `db:"id" json:"id"`
	Email      string `db:"email" json:"email"`
	Name       string `db:"name" json:"name"`
	Hash       string `db:"password_hash" json:"-"`
	Phone      string `db:"phone" json:"phone,omitempty"`
	Address    string `db:"address" json:"address,omitempty"`
	AvatarPath string `db:"avatar_path" json:"avatar_path,omitempty"`
	CreatedAt  string `db:"created_at" json:"created_at"`
	UpdatedAt  string `db:"updated_at" json:"updated_at,omitempty"`
}

// PublicProfile is the slice of a user other users may see.
type PublicProfile struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	AvatarPath string `db:"avatar_path" json:"avatar_path,omitempty"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{ID: u.ID, Name: u.Name, AvatarPath: u.AvatarPath}
}
