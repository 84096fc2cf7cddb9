package services

import (
	"errors"

	"givetzy/internal/domain"
	"givetzy/internal/repos"
)

var ErrNotOwner = errors.New("only the owner may modify this item")

type ProductService struct {
	Prods *repos.ProductRepo
	Users *repos.UserRepo
}

func NewProductService(prods *repos.ProductRepo, users *repos.UserRepo) *ProductService {
	return &ProductService{Prods: prods, Users: users}
}

func (s *ProductService) List(f domain.ProductFilter) ([]domain.Product, error) {
	return s.Prods.List(f)
}

func (s *ProductService) ListMine(ownerID, status string) ([]domain.Product, error) {
	return s.Prods.ListByOwner(ownerID, status)
}

// Detail resolves the owner profile and the requester-derived booleans.
// requesterID is "" for anonymous requests.
func (s *ProductService) Detail(id, requesterID string) (domain.ProductDetail, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return domain.ProductDetail{}, err
	}
	_ = s.Prods.IncrementViews(id)

	d := domain.ProductDetail{Product: p}
	d.ViewCount++ // reflect the increment in this response
	if owner, err := s.Users.ByID(p.UserID); err == nil {
		d.Owner = owner.Public()
	}
	d.IsOwner = requesterID != "" && requesterID == p.UserID
	d.CanPurchase = !d.IsOwner && p.Status == domain.ProductAvailable
	return d, nil
}

func (s *ProductService) Create(p *domain.Product) error {
	if p.Status == "" {
		p.Status = domain.ProductAvailable
	}
	return s.Prods.Create(p)
}

func (s *ProductService) Update(id, requesterID string, patch domain.ProductPatch) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	if p.UserID != requesterID {
		return domain.Product{}, ErrNotOwner
	}
	if err := s.Prods.Update(id, patch); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(id)
}

func (s *ProductService) Delete(id, requesterID string) error {
	p, err := s.Prods.Get(id)
	if err != nil {
		return err
	}
	if p.UserID != requesterID {
		return ErrNotOwner
	}
	return s.Prods.Delete(id)
}
