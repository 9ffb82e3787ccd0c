package ledger

import (
	"errors"
	"testing"

	"gopontos/spreadsheet"
)

type fakeStore struct {
	balances    map[string]Balance
	prices      map[int64]float64
	redemptions []Redemption
	insertErr   error
}

func (f *fakeStore) BalanceForCNPJ(cnpj string) (Balance, error) {
	return f.balances[cnpj], nil
}

func (f *fakeStore) CurrentPrice(productID int64) (float64, bool, error) {
	price, ok := f.prices[productID]
	return price, ok, nil
}

func (f *fakeStore) InsertRedemption(redemption Redemption) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.redemptions = append(f.redemptions, redemption)
	return int64(len(f.redemptions)), nil
}

func TestServiceBalance(t *testing.T) {
	t.Parallel()

	store := &fakeStore{balances: map[string]Balance{
		"111": {CNPJ: "111", Earned: 100, Redeemed: 40, Available: 60},
	}}
	service := NewService(store)

	balance, err := service.Balance(" 111 ")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Available != 60 {
		t.Fatalf("unexpected balance: %+v", balance)
	}

	if _, err := service.Balance("  "); err == nil {
		t.Fatalf("expected error for blank cnpj")
	}
}

func TestServiceRedeem(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		balances: map[string]Balance{"111": {CNPJ: "111", Earned: 100, Available: 100}},
		prices:   map[int64]float64{7: 80},
	}
	service := NewService(store)

	redemption, err := service.Redeem("111", 7)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if redemption.ID != 1 || redemption.Points != 80 || redemption.ProductID != 7 {
		t.Fatalf("unexpected redemption: %+v", redemption)
	}
	if len(store.redemptions) != 1 {
		t.Fatalf("redemption not persisted")
	}
}

func TestServiceRedeem_InsufficientBalance(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		balances: map[string]Balance{"111": {CNPJ: "111", Available: 50}},
		prices:   map[int64]float64{7: 80},
	}
	service := NewService(store)

	_, err := service.Redeem("111", 7)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("want ErrInsufficientBalance, got %v", err)
	}
	if len(store.redemptions) != 0 {
		t.Fatalf("rejected redemption must not persist")
	}
}

func TestServiceRedeem_UnpricedProduct(t *testing.T) {
	t.Parallel()

	store := &fakeStore{balances: map[string]Balance{"111": {Available: 500}}, prices: map[int64]float64{}}
	service := NewService(store)

	if _, err := service.Redeem("111", 7); !errors.Is(err, ErrProductNotPriced) {
		t.Fatalf("want ErrProductNotPriced, got %v", err)
	}
}

func TestServiceRedeem_InvalidArguments(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{})
	if _, err := service.Redeem("", 7); err == nil {
		t.Fatalf("expected error for blank cnpj")
	}
	if _, err := service.Redeem("111", 0); err == nil {
		t.Fatalf("expected error for non-positive product id")
	}
}

func TestSourcesFromResult(t *testing.T) {
	t.Parallel()

	result := &spreadsheet.Result{
		Rows: []spreadsheet.ProcessedRow{
			{RowNumber: 5, Item: &spreadsheet.ImportItem{CNPJ: "111", SaleDate: "2024-03-15", Points: 10, ExecutiveName: "João"}},
			{RowNumber: 6, Error: "points missing or invalid"},
			{RowNumber: 7, Item: &spreadsheet.ImportItem{CNPJ: "222", SaleDate: "2024-03-16", Points: 20, ExecutiveName: "Sem Promotor"}},
		},
		TotalRows: 3,
		ValidRows: 2,
		ErrorRows: 1,
	}

	sources := SourcesFromResult(result, "vendas.xlsx")
	if len(sources) != 2 {
		t.Fatalf("want 2 sources, got %d", len(sources))
	}
	if sources[0].RowNumber != 5 || sources[0].CNPJ != "111" || sources[0].SourceFile != "vendas.xlsx" {
		t.Fatalf("unexpected first source: %+v", sources[0])
	}
	if sources[1].RowNumber != 7 || sources[1].Points != 20 {
		t.Fatalf("unexpected second source: %+v", sources[1])
	}

	if got := SourcesFromResult(nil, "x"); got != nil {
		t.Fatalf("nil result should yield nil sources, got %+v", got)
	}
}
