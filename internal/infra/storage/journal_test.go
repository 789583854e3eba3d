package storage

import (
	"math/big"
	"path/filepath"
	"testing"

	"dexfeed/internal/domain"

	"github.com/ethereum/go-ethereum/common"
)

func setupJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := NewJournal(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("failed to open test journal: %v", err)
	}
	t.Cleanup(func() {
		j.Close()
	})
	return j
}

func TestJournal_Append(t *testing.T) {
	j := setupJournal(t)

	order := domain.Order{
		ID:         1,
		User:       common.HexToAddress("0x1"),
		TokenGive:  domain.BaseAsset,
		AmountGive: big.NewInt(1),
		TokenGet:   common.HexToAddress("0xaa"),
		AmountGet:  big.NewInt(2),
		Timestamp:  100,
	}

	if err := j.Append("Order", order.ID, order); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := j.Append("Order", 2, order); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	n, err := j.Count("Order")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 journaled orders, got %d", n)
	}

	n, err = j.Count("Trade")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 journaled trades, got %d", n)
	}
}

func TestJournal_UpsertToken(t *testing.T) {
	j := setupJournal(t)

	info := domain.TokenInfo{
		Address:  common.HexToAddress("0xaa").Hex(),
		Symbol:   "DEX",
		IconPath: "assets/icons/0xaa.png",
	}
	if err := j.UpsertToken(info); err != nil {
		t.Fatalf("UpsertToken failed: %v", err)
	}

	// second save with the same address must update, not duplicate
	info.IconPath = "assets/icons/refetched.png"
	if err := j.UpsertToken(info); err != nil {
		t.Fatalf("UpsertToken failed: %v", err)
	}

	var n int64
	if err := j.db.Model(&domain.TokenInfo{}).Count(&n).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 token row, got %d", n)
	}
}
