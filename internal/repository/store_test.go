package repository

import (
	"context"
	"testing"

	"github.com/mamadbah2/stockbook/internal/config"
	"github.com/mamadbah2/stockbook/internal/repository/csvstore"
)

func TestNewStoreCSV(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: config.BackendCSV, DataDir: t.TempDir()}}

	store, err := NewStore(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewStore() unexpected error: %v", err)
	}
	if _, ok := store.(*csvstore.Store); !ok {
		t.Errorf("store = %T, want *csvstore.Store", store)
	}
}

func TestNewStoreUnknownBackend(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: "bolt"}}
	if _, err := NewStore(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
