package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"networth/internal/models"
	"networth/internal/testutil"
)

// stubPlaid implements PlaidProvider with canned responses.
type stubPlaid struct {
	linkToken   string
	accessToken string
	itemID      string
	payload     ImportPayload
	fetchCalls  int
}

func (p *stubPlaid) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	return p.linkToken, nil
}

func (p *stubPlaid) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	return p.accessToken, p.itemID, nil
}

func (p *stubPlaid) FetchHoldings(ctx context.Context, accessToken string) (ImportPayload, error) {
	p.fetchCalls++
	return p.payload, nil
}

// stubSnapTrade implements SnapTradeProvider with canned responses.
type stubSnapTrade struct {
	userSecret    string
	loginURL      string
	payload       ImportPayload
	registerCalls int
}

func (p *stubSnapTrade) RegisterUser(ctx context.Context, userID string) (string, error) {
	p.registerCalls++
	return p.userSecret, nil
}

func (p *stubSnapTrade) LoginURL(ctx context.Context, userID, userSecret string) (string, error) {
	return p.loginURL, nil
}

func (p *stubSnapTrade) FetchHoldings(ctx context.Context, userID, userSecret string) (ImportPayload, error) {
	return p.payload, nil
}

func stubPayload(source models.Source, accountID string) ImportPayload {
	account := models.Account{}
	account.ID = accountID
	account.Name = "Stub Account"
	account.AccountValue = decimal.NewNullDecimal(decimal.NewFromInt(1000))

	security := models.Security{}
	security.ID = accountID + ":sec"
	security.Name = "Stub Security"
	security.Symbol = "STB"
	security.AccountID = &account.ID

	return ImportPayload{
		Source:     source,
		Accounts:   []models.Account{account},
		Securities: []models.Security{security},
		Activities: []ImportedActivity{
			{
				ProviderID: accountID + ":act",
				SecurityID: security.ID,
				Type:       models.TransactionBuy,
				Date:       time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
				Amount:     decimal.NewFromInt(10),
				Quantity:   decimal.NewFromInt(1),
			},
		},
	}
}

func TestPlaidIntegration(t *testing.T) {
	t.Run("unconfigured", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewIntegrationService(db, nil, nil, newTestImportService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreatePlaidLinkToken(context.Background(), user.ID)
		testutil.AssertAppError(t, err, "PROVIDER_NOT_LINKED")
		_, err = svc.SyncPlaid(context.Background(), user.ID)
		testutil.AssertAppError(t, err, "PROVIDER_NOT_LINKED")
	})

	t.Run("create_link_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		plaid := &stubPlaid{linkToken: "link-token-1"}
		svc := NewIntegrationService(db, plaid, nil, newTestImportService(db))
		user := testutil.CreateTestUser(t, db)

		token, err := svc.CreatePlaidLinkToken(context.Background(), user.ID)
		testutil.AssertNoError(t, err)
		if token != "link-token-1" {
			t.Errorf("expected link token 'link-token-1', got %s", token)
		}
	})

	t.Run("connect_stores_item", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		plaid := &stubPlaid{accessToken: "access-1", itemID: "item-1"}
		svc := NewIntegrationService(db, plaid, nil, newTestImportService(db))
		user := testutil.CreateTestUser(t, db)

		err := svc.ConnectPlaid(context.Background(), user.ID, "public-token")
		testutil.AssertNoError(t, err)

		var item models.PlaidItem
		if err := db.First(&item, "user_id = ?", user.ID).Error; err != nil {
			t.Fatalf("failed to load plaid item: %v", err)
		}
		if item.AccessToken != "access-1" || item.ItemID != "item-1" {
			t.Errorf("unexpected stored item: %+v", item)
		}
	})

	t.Run("sync_without_item", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		plaid := &stubPlaid{}
		svc := NewIntegrationService(db, plaid, nil, newTestImportService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.SyncPlaid(context.Background(), user.ID)
		testutil.AssertAppError(t, err, "PROVIDER_NOT_LINKED")
	})

	t.Run("sync_accumulates_items", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		plaid := &stubPlaid{accessToken: "access-1", itemID: "item-1", payload: stubPayload(models.SourcePlaid, "plaid-acc")}
		svc := NewIntegrationService(db, plaid, nil, newTestImportService(db))
		user := testutil.CreateTestUser(t, db)

		testutil.AssertNoError(t, svc.ConnectPlaid(context.Background(), user.ID, "public-1"))
		plaid.itemID = "item-2"
		testutil.AssertNoError(t, svc.ConnectPlaid(context.Background(), user.ID, "public-2"))

		summary, err := svc.SyncPlaid(context.Background(), user.ID)
		testutil.AssertNoError(t, err)

		if plaid.fetchCalls != 2 {
			t.Errorf("expected holdings fetched for both items, got %d calls", plaid.fetchCalls)
		}
		// Both items return the same payload; the upsert keeps one
		// record set while the summary counts both passes.
		if summary.Accounts != 2 || summary.Securities != 2 {
			t.Errorf("unexpected summary: %+v", summary)
		}
		var count int64
		db.Model(&models.Account{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 account row, got %d", count)
		}
	})
}

func TestSnapTradeIntegration(t *testing.T) {
	t.Run("unconfigured", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewIntegrationService(db, nil, nil, newTestImportService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ConnectSnapTrade(context.Background(), user.ID)
		testutil.AssertAppError(t, err, "PROVIDER_NOT_LINKED")
	})

	t.Run("connect_registers_once", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		snaptrade := &stubSnapTrade{userSecret: "secret-1", loginURL: "https://connect.example/login"}
		svc := NewIntegrationService(db, nil, snaptrade, newTestImportService(db))
		user := testutil.CreateTestUser(t, db)

		url, err := svc.ConnectSnapTrade(context.Background(), user.ID)
		testutil.AssertNoError(t, err)
		if url != "https://connect.example/login" {
			t.Errorf("expected the portal URL, got %s", url)
		}

		// A second connect reuses the stored secret.
		_, err = svc.ConnectSnapTrade(context.Background(), user.ID)
		testutil.AssertNoError(t, err)
		if snaptrade.registerCalls != 1 {
			t.Errorf("expected a single registration, got %d", snaptrade.registerCalls)
		}

		var link models.SnapTradeLink
		if err := db.First(&link, "user_id = ?", user.ID).Error; err != nil {
			t.Fatalf("failed to load snaptrade link: %v", err)
		}
		if link.UserSecret != "secret-1" {
			t.Errorf("expected stored secret 'secret-1', got %s", link.UserSecret)
		}
	})

	t.Run("sync_without_link", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		snaptrade := &stubSnapTrade{}
		svc := NewIntegrationService(db, nil, snaptrade, newTestImportService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.SyncSnapTrade(context.Background(), user.ID)
		testutil.AssertAppError(t, err, "PROVIDER_NOT_LINKED")
	})

	t.Run("sync_imports_holdings", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		snaptrade := &stubSnapTrade{
			userSecret: "secret-1",
			loginURL:   "https://connect.example/login",
			payload:    stubPayload(models.SourceSnapTrade, "snap-acc"),
		}
		svc := NewIntegrationService(db, nil, snaptrade, newTestImportService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ConnectSnapTrade(context.Background(), user.ID)
		testutil.AssertNoError(t, err)

		summary, err := svc.SyncSnapTrade(context.Background(), user.ID)
		testutil.AssertNoError(t, err)

		if summary.Accounts != 1 || summary.Securities != 1 || summary.Activities != 1 {
			t.Errorf("unexpected summary: %+v", summary)
		}

		var security models.Security
		if err := db.First(&security, "id = ?", "snap-acc:sec").Error; err != nil {
			t.Fatalf("failed to load imported security: %v", err)
		}
		if security.Source != models.SourceSnapTrade {
			t.Errorf("expected SNAPTRADE source, got %s", security.Source)
		}
	})
}
