package services

import (
	"database/sql"
	"errors"

	"givetzy/internal/domain"
	"givetzy/internal/repos"

	"github.com/google/uuid"
)

var (
	ErrNotParty       = errors.New("only the buyer or seller may act on this transaction")
	ErrNotSeller      = errors.New("only the seller may delete this transaction")
	ErrTxNotDeletable = errors.New("only pending or cancelled transactions can be deleted")
)

type TransactionService struct {
	Txs   *repos.TransactionRepo
	Prods *repos.ProductRepo
}

func NewTransactionService(txs *repos.TransactionRepo, prods *repos.ProductRepo) *TransactionService {
	return &TransactionService{Txs: txs, Prods: prods}
}

// Create runs the checkout: the available->sold flip and the transaction
// insert commit atomically, and the conditional flip is what rejects the
// second of two concurrent buyers.
func (s *TransactionService) Create(buyerID, productID string, qty int, payment, shipping string) (domain.Transaction, error) {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return domain.Transaction{}, err // sql.ErrNoRows -> 404 at the handler
	}
	if p.UserID == buyerID {
		return domain.Transaction{}, domain.ErrSelfPurchase
	}
	if p.Status != domain.ProductAvailable {
		return domain.Transaction{}, domain.ErrItemUnavailable
	}
	if qty < 1 {
		qty = 1
	}

	tx, err := s.Txs.Beginx()
	if err != nil {
		return domain.Transaction{}, err
	}
	defer func() { _ = tx.Rollback() }()

	sold, err := s.Prods.MarkSold(tx, productID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if !sold {
		// Someone else bought it between our read and the flip.
		return domain.Transaction{}, domain.ErrItemUnavailable
	}

	t := domain.Transaction{
		ID:              uuid.NewString(),
		ProductID:       productID,
		BuyerID:         buyerID,
		SellerID:        p.UserID,
		Quantity:        qty,
		TotalPrice:      p.Price * float64(qty),
		Status:          domain.TxPending,
		PaymentMethod:   payment,
		ShippingAddress: shipping,
	}
	if err := s.Txs.Insert(tx, &t); err != nil {
		return domain.Transaction{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Transaction{}, err
	}
	return t, nil
}

// UpdateStatus whitelists the legal transitions of the pending state.
// Cancelling compensates by putting the product back on the market; the
// status change and the release commit or roll back together.
func (s *TransactionService) UpdateStatus(id, requesterID, newStatus string) (domain.Transaction, error) {
	t, err := s.Txs.Get(id)
	if err != nil {
		return domain.Transaction{}, err
	}
	if requesterID != t.BuyerID && requesterID != t.SellerID {
		return domain.Transaction{}, ErrNotParty
	}
	if !domain.TxAllowedTransition(t.Status, newStatus) {
		return domain.Transaction{}, domain.ErrBadTransition
	}

	tx, err := s.Txs.Beginx()
	if err != nil {
		return domain.Transaction{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Txs.UpdateStatus(tx, id, newStatus); err != nil {
		return domain.Transaction{}, err
	}
	if newStatus == domain.TxCancelled {
		if err := s.Prods.Release(tx, t.ProductID); err != nil {
			return domain.Transaction{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Transaction{}, err
	}
	return s.Txs.Get(id)
}

// Delete is a seller-only cleanup of dead transactions. A pending one still
// holds the item, so deleting it releases the product in the same DB
// transaction as the row removal.
func (s *TransactionService) Delete(id, requesterID string) error {
	t, err := s.Txs.Get(id)
	if err != nil {
		return err
	}
	if requesterID != t.SellerID {
		return ErrNotSeller
	}
	if t.Status != domain.TxPending && t.Status != domain.TxCancelled {
		return ErrTxNotDeletable
	}

	tx, err := s.Txs.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if t.Status == domain.TxPending {
		if err := s.Prods.Release(tx, t.ProductID); err != nil {
			return err
		}
	}
	if err := s.Txs.Delete(tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *TransactionService) ListForUser(userID, role string) ([]repos.TransactionRow, error) {
	rows, err := s.Txs.ListForUser(userID, role)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	return rows, nil
}
