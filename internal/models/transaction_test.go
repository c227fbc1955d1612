package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSetLink(t *testing.T) {
	t.Run("each_kind", func(t *testing.T) {
		for _, kind := range []LinkKind{LinkSecurity, LinkOtherAsset, LinkLiability} {
			tx := Transaction{}
			if err := tx.SetLink(Linkage{Kind: kind, ID: "entity-1"}); err != nil {
				t.Fatalf("SetLink(%s) failed: %v", kind, err)
			}
			if err := tx.ValidateLinkage(); err != nil {
				t.Errorf("expected valid linkage for %s, got %v", kind, err)
			}
			link, ok := tx.Link()
			if !ok || link.Kind != kind || link.ID != "entity-1" {
				t.Errorf("expected round-trip linkage for %s, got %+v ok=%v", kind, link, ok)
			}
		}
	})

	t.Run("clears_previous_link", func(t *testing.T) {
		tx := Transaction{}
		if err := tx.SetLink(Linkage{Kind: LinkSecurity, ID: "sec-1"}); err != nil {
			t.Fatalf("SetLink failed: %v", err)
		}
		if err := tx.SetLink(Linkage{Kind: LinkLiability, ID: "liab-1"}); err != nil {
			t.Fatalf("SetLink failed: %v", err)
		}
		if tx.SecurityID != nil {
			t.Error("expected previous security link to be cleared")
		}
		if tx.LiabilityID == nil || *tx.LiabilityID != "liab-1" {
			t.Error("expected liability link to be set")
		}
	})

	t.Run("empty_id", func(t *testing.T) {
		tx := Transaction{}
		if err := tx.SetLink(Linkage{Kind: LinkSecurity}); err == nil {
			t.Error("expected an error for an empty entity id")
		}
	})

	t.Run("unknown_kind", func(t *testing.T) {
		tx := Transaction{}
		if err := tx.SetLink(Linkage{Kind: "account", ID: "acc-1"}); err == nil {
			t.Error("expected an error for an unknown link kind")
		}
	})
}

func TestValidateLinkage(t *testing.T) {
	id1, id2 := "entity-1", "entity-2"

	t.Run("no_link", func(t *testing.T) {
		tx := Transaction{
			Type:     TransactionBuy,
			Date:     time.Now(),
			Amount:   decimal.NewFromInt(10),
			Quantity: decimal.NewFromInt(1),
		}
		if err := tx.ValidateLinkage(); err == nil {
			t.Error("expected an error for a transaction with no link")
		}
	})

	t.Run("multiple_links", func(t *testing.T) {
		tx := Transaction{SecurityID: &id1, LiabilityID: &id2}
		if err := tx.ValidateLinkage(); err == nil {
			t.Error("expected an error for a transaction with two links")
		}
	})

	t.Run("empty_string_is_unset", func(t *testing.T) {
		empty := ""
		tx := Transaction{SecurityID: &id1, OtherAssetID: &empty}
		if err := tx.ValidateLinkage(); err != nil {
			t.Errorf("expected an empty string column to count as unset, got %v", err)
		}
	})
}
