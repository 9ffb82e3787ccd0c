package ledger

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProductNotPriced    = errors.New("product has no price")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Store is the storage surface the ledger service needs.
type Store interface {
	BalanceForCNPJ(cnpj string) (Balance, error)
	CurrentPrice(productID int64) (float64, bool, error)
	InsertRedemption(redemption Redemption) (int64, error)
}

// Service answers balance queries and performs redemptions against the store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Balance(cnpj string) (Balance, error) {
	cnpj = strings.TrimSpace(cnpj)
	if cnpj == "" {
		return Balance{}, fmt.Errorf("cnpj is required")
	}
	return s.store.BalanceForCNPJ(cnpj)
}

// Redeem spends the current price of the product from the CNPJ's balance.
// The redemption is rejected when the product is unknown, unpriced, or the
// available balance does not cover the price.
func (s *Service) Redeem(cnpj string, productID int64) (Redemption, error) {
	cnpj = strings.TrimSpace(cnpj)
	if cnpj == "" {
		return Redemption{}, fmt.Errorf("cnpj is required")
	}
	if productID <= 0 {
		return Redemption{}, fmt.Errorf("product id must be > 0")
	}

	price, found, err := s.store.CurrentPrice(productID)
	if err != nil {
		return Redemption{}, fmt.Errorf("load product price: %w", err)
	}
	if !found {
		return Redemption{}, ErrProductNotPriced
	}

	balance, err := s.store.BalanceForCNPJ(cnpj)
	if err != nil {
		return Redemption{}, fmt.Errorf("load balance: %w", err)
	}
	if balance.Available < price {
		return Redemption{}, fmt.Errorf("%w: available %.2f, price %.2f", ErrInsufficientBalance, balance.Available, price)
	}

	redemption := Redemption{CNPJ: cnpj, ProductID: productID, Points: price}
	id, err := s.store.InsertRedemption(redemption)
	if err != nil {
		return Redemption{}, fmt.Errorf("insert redemption: %w", err)
	}
	redemption.ID = id
	return redemption, nil
}
