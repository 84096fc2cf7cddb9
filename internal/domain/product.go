package domain

// Product status lifecycle. A product leaves "available" as a side effect of a
// completed checkout (sold) or by its owner marking it donated/exchanged.
const (
	ProductAvailable = "available"
	ProductSold      = "sold"
	ProductDonated   = "donated"
	ProductExchanged = "exchanged"
)

type Product struct {
	ID            string  `db:"id" json:"id"`
	UserID        string  `db:"user_id" json:"user_id"`
	Name          string  `db:"name" json:"name"`
	Description   string  `db:"description" json:"description,omitempty"`
	Category      string  `db:"category" json:"category,omitempty"`
	Price         float64 `db:"price" json:"price"`
	Condition     string  `db:"condition" json:"condition,omitempty"`
	Status        string  `db:"status" json:"status"`
	Location      string  `db:"location" json:"location,omitempty"`
	ImagePath     string  `db:"image_path" json:"image_path,omitempty"`
	ViewCount     int     `db:"view_count" json:"view_count"`
	InterestCount int     `db:"interest_count" json:"interest_count"`
	CreatedAt     string  `db:"created_at" json:"created_at"`
	UpdatedAt     string  `db:"updated_at" json:"updated_at,omitempty"`
}

// ProductPatch carries a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Condition   *string  `json:"condition"`
	Status      *string  `json:"status"`
	Location    *string  `json:"location"`
	ImagePath   *string  `json:"-"`
}

// ProductFilter composes conjunctively; zero values mean "no constraint".
type ProductFilter struct {
	Search   string
	Category string
	Status   string
	MinPrice float64
	MaxPrice float64
	SortBy   string // created_at | price | name
	Order    string // ASC | DESC
	Limit    int
	Offset   int
}

// ProductDetail annotates a product for a specific requester.
type ProductDetail struct {
	Product
	Owner       PublicProfile `json:"owner"`
	IsOwner     bool          `json:"is_owner"`
	CanPurchase bool          `json:"can_purchase"`
}
