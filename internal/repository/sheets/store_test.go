package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/api/googleapi"

	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/repository/csvstore"
)

// memoryRepository keeps ranges keyed by tab name.
type memoryRepository struct {
	tabs    map[string][][]interface{}
	missing map[string]bool
	failOn  string
	cleared []string
	added   []string
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{tabs: map[string][][]interface{}{}, missing: map[string]bool{}}
}

func tab(sheetRange string) string {
	return strings.SplitN(sheetRange, "!", 2)[0]
}

func (m *memoryRepository) ReadRange(_ context.Context, sheetRange string) ([][]interface{}, error) {
	if m.missing[tab(sheetRange)] {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, ErrSheetNotFound)
	}
	return m.tabs[tab(sheetRange)], nil
}

func (m *memoryRepository) WriteRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	if m.failOn == tab(sheetRange) {
		return errors.New("quota exceeded")
	}
	m.tabs[tab(sheetRange)] = rows
	return nil
}

func (m *memoryRepository) AddSheet(_ context.Context, title string) error {
	delete(m.missing, title)
	m.added = append(m.added, title)
	return nil
}

func (m *memoryRepository) ClearRange(_ context.Context, sheetRange string) error {
	if m.missing[tab(sheetRange)] {
		return fmt.Errorf("clear range %s: %w", sheetRange, ErrSheetNotFound)
	}
	m.cleared = append(m.cleared, sheetRange)
	delete(m.tabs, tab(sheetRange))
	return nil
}

func TestDataRange(t *testing.T) {
	tests := map[models.Kind]string{
		models.KindPurchases: "Purchases!A:E",
		models.KindSales:     "Sales!A:E",
		models.KindExpenses:  "Expenses!A:C",
	}
	for kind, want := range tests {
		if got := dataRange(kind); got != want {
			t.Errorf("dataRange(%s) = %s, want %s", kind, got, want)
		}
	}
}

func TestStoreEmptyTabsLoadEmpty(t *testing.T) {
	store := NewStore(newMemoryRepository(), nil)

	table, err := store.Load(context.Background(), models.KindExpenses)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(table.Columns, []string{"Date", "Category", "Amount"}) || len(table.Rows) != 0 {
		t.Errorf("unexpected empty table %+v", table)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	repo := newMemoryRepository()
	store := NewStore(repo, nil)
	ctx := context.Background()

	want := &models.Ledger{
		Purchases: []models.PurchaseRecord{{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Item: "Widget", Quantity: decimal.RequireFromString("10"), UnitPrice: decimal.RequireFromString("2"), Total: decimal.RequireFromString("20")}},
		Expenses:  []models.ExpenseRecord{{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Category: models.CategoryRent, Amount: decimal.RequireFromString("100")}},
	}

	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if len(repo.cleared) != 3 {
		t.Errorf("cleared %d ranges, want 3", len(repo.cleared))
	}

	got, err := store.LoadLedger(ctx)
	if err != nil {
		t.Fatalf("LoadLedger() unexpected error: %v", err)
	}
	for _, kind := range models.Kinds {
		if !reflect.DeepEqual(got.Table(kind), want.Table(kind)) {
			t.Errorf("%s mismatch: got %v want %v", kind, got.Table(kind), want.Table(kind))
		}
	}
}

func TestStoreNumericCells(t *testing.T) {
	repo := newMemoryRepository()
	repo.tabs["Sales"] = [][]interface{}{
		{"Date", "Item", "Quantity", "SellingPrice", "Total"},
		{"2024-01-02", "Widget", float64(4), 5.5, float64(22)},
	}

	got, err := NewStore(repo, nil).LoadLedger(context.Background())
	if err != nil {
		t.Fatalf("LoadLedger() unexpected error: %v", err)
	}
	if len(got.Sales) != 1 || !got.Sales[0].SellingPrice.Equal(decimal.RequireFromString("5.5")) {
		t.Errorf("sales = %+v", got.Sales)
	}
}

func TestStoreCorruptHeader(t *testing.T) {
	repo := newMemoryRepository()
	repo.tabs["Expenses"] = [][]interface{}{{"When", "What", "HowMuch"}}

	_, err := NewStore(repo, nil).LoadLedger(context.Background())
	if !errors.Is(err, csvstore.ErrCorruptSource) {
		t.Fatalf("expected ErrCorruptSource, got %v", err)
	}
}

func TestStoreSaveError(t *testing.T) {
	repo := newMemoryRepository()
	repo.failOn = "Sales"

	if err := NewStore(repo, nil).Save(context.Background(), &models.Ledger{}); err == nil {
		t.Fatal("expected save error")
	}
}

func TestMissingTabsLoadEmptyAndAreCreatedOnSave(t *testing.T) {
	repo := newMemoryRepository()
	for _, kind := range models.Kinds {
		repo.missing[string(kind)] = true
	}
	store := NewStore(repo, nil)
	ctx := context.Background()

	ledger, err := store.LoadLedger(ctx)
	if err != nil {
		t.Fatalf("LoadLedger() unexpected error: %v", err)
	}
	if len(ledger.Purchases)+len(ledger.Sales)+len(ledger.Expenses) != 0 {
		t.Errorf("expected empty ledger, got %+v", ledger)
	}

	if err := store.Save(ctx, ledger); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if want := []string{"Purchases", "Sales", "Expenses"}; !reflect.DeepEqual(repo.added, want) {
		t.Errorf("added tabs = %v, want %v", repo.added, want)
	}
	if got := repo.tabs["Expenses"]; len(got) != 1 {
		t.Errorf("Expenses tab = %v, want header only", got)
	}
}

func TestRangeErrorDetectsMissingSheet(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unknown tab", &googleapi.Error{Code: http.StatusBadRequest, Message: "Unable to parse range: Sales!A:E"}, true},
		{"other bad request", &googleapi.Error{Code: http.StatusBadRequest, Message: "Invalid value"}, false},
		{"permission", &googleapi.Error{Code: http.StatusForbidden, Message: "The caller does not have permission"}, false},
		{"not an api error", errors.New("dial tcp: timeout"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rangeError("read", "Sales!A:E", tt.err)
			if got := errors.Is(err, ErrSheetNotFound); got != tt.want {
				t.Errorf("errors.Is(ErrSheetNotFound) = %v, want %v (%v)", got, tt.want, err)
			}
			if !errors.Is(err, tt.err) && !tt.want {
				t.Errorf("cause lost: %v", err)
			}
		})
	}
}
