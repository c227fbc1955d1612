// Package plaid wraps the Plaid API client and maps its investment data
// to import payloads.
package plaid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/plaid/plaid-go/plaid"
	"github.com/shopspring/decimal"

	apperrors "networth/internal/errors"
	"networth/internal/logger"
	"networth/internal/models"
	"networth/internal/services"
)

var environments = map[string]plaid.Environment{
	"Development": plaid.Development,
	"Sandbox":     plaid.Sandbox,
	"Production":  plaid.Production,
}

// Client wraps the Plaid API client.
type Client struct {
	api *plaid.APIClient
}

// NewClient builds a Plaid client for the named environment. Unknown
// names are treated as a raw environment URL.
func NewClient(clientID, secret, env string) *Client {
	pcfg := plaid.NewConfiguration()
	pcfg.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	pcfg.AddDefaultHeader("PLAID-SECRET", secret)
	if plaidEnv, ok := environments[env]; ok {
		pcfg.UseEnvironment(plaidEnv)
	} else {
		pcfg.UseEnvironment(plaid.Environment(env))
	}
	return &Client{api: plaid.NewAPIClient(pcfg)}
}

// CreateLinkToken creates a Link token for the given user to start the
// Plaid Link flow in the client.
func (c *Client) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	user := plaid.LinkTokenCreateRequestUser{
		ClientUserId: userID,
	}
	request := plaid.NewLinkTokenCreateRequest(
		"Networth",
		"en",
		[]plaid.CountryCode{plaid.COUNTRYCODE_US},
		user,
	)
	request.SetProducts([]plaid.Products{plaid.PRODUCTS_INVESTMENTS})

	resp, _, err := c.api.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*request).Execute()
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrProviderFailure, err)
	}
	return resp.GetLinkToken(), nil
}

// ExchangePublicToken exchanges a Link public token for a persistent
// access token and item id.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error) {
	req := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	resp, _, err := c.api.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*req).Execute()
	if err != nil {
		return "", "", apperrors.Wrap(apperrors.ErrProviderFailure, err)
	}
	return resp.GetAccessToken(), resp.GetItemId(), nil
}

// FetchHoldings pulls investment accounts, holdings, and the last two
// years of investment transactions for one item and maps them to an
// import payload.
func (c *Client) FetchHoldings(ctx context.Context, accessToken string) (services.ImportPayload, error) {
	payload := services.ImportPayload{Source: models.SourcePlaid}

	req := plaid.NewInvestmentsHoldingsGetRequest(accessToken)
	resp, _, err := c.api.PlaidApi.InvestmentsHoldingsGet(ctx).InvestmentsHoldingsGetRequest(*req).Execute()
	if err != nil {
		return payload, apperrors.Wrap(apperrors.ErrProviderFailure, err)
	}

	for _, account := range resp.GetAccounts() {
		payload.Accounts = append(payload.Accounts, mapAccount(account))
	}

	securities := map[string]plaid.Security{}
	for _, security := range resp.GetSecurities() {
		securities[security.GetSecurityId()] = security
	}

	for _, holding := range resp.GetHoldings() {
		security, ok := securities[holding.GetSecurityId()]
		if !ok {
			logger.Get().Warnw("holding references unknown security",
				"security_id", holding.GetSecurityId(),
			)
			continue
		}
		payload.Securities = append(payload.Securities, mapHolding(holding, security))
	}

	activities, err := c.fetchActivities(ctx, accessToken)
	if err != nil {
		return payload, err
	}
	payload.Activities = activities

	return payload, nil
}

func (c *Client) fetchActivities(ctx context.Context, accessToken string) ([]services.ImportedActivity, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(-2, 0, 0)

	req := plaid.NewInvestmentsTransactionsGetRequest(
		accessToken,
		startDate.Format("2006-01-02"),
		endDate.Format("2006-01-02"),
	)
	resp, _, err := c.api.PlaidApi.InvestmentsTransactionsGet(ctx).
		InvestmentsTransactionsGetRequest(*req).Execute()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrProviderFailure, err)
	}

	var activities []services.ImportedActivity
	for _, txn := range resp.GetInvestmentTransactions() {
		securityID := txn.GetSecurityId()
		if securityID == "" {
			continue
		}

		date, err := time.Parse("2006-01-02", txn.GetDate())
		if err != nil {
			date = time.Now()
		}

		activities = append(activities, services.ImportedActivity{
			ProviderID:  txn.GetInvestmentTransactionId(),
			SecurityID:  holdingID(txn.GetAccountId(), securityID),
			Type:        mapActivityType(txn.GetType(), txn.GetSubtype()),
			Date:        date,
			Amount:      decimal.NewFromFloat32(txn.GetAmount()),
			Quantity:    decimal.NewFromFloat32(txn.GetQuantity()),
			Description: txn.GetName(),
		})
	}
	return activities, nil
}

// holdingID keys an imported holding by account and security so the
// same instrument held in two accounts stays distinct.
func holdingID(accountID, securityID string) string {
	return fmt.Sprintf("%s:%s", accountID, securityID)
}

func mapAccount(account plaid.AccountBase) models.Account {
	balances := account.GetBalances()
	mapped := models.Account{
		ID:     account.GetAccountId(),
		Source: models.SourcePlaid,
		Name:   account.GetName(),
	}
	if available, ok := balances.GetAvailableOk(); ok && available != nil {
		mapped.BuyingPower = decimal.NewNullDecimal(decimal.NewFromFloat32(*available).Round(2))
	}
	if current, ok := balances.GetCurrentOk(); ok && current != nil {
		mapped.AccountValue = decimal.NewNullDecimal(decimal.NewFromFloat32(*current).Round(2))
	}
	return mapped
}

func mapHolding(holding plaid.Holding, security plaid.Security) models.Security {
	accountID := holding.GetAccountId()
	symbol := strings.ToUpper(security.GetTickerSymbol())
	if len(symbol) > 10 {
		symbol = symbol[:10]
	}

	mapped := models.Security{}
	mapped.ID = holdingID(accountID, security.GetSecurityId())
	mapped.Name = security.GetName()
	mapped.Source = models.SourcePlaid
	mapped.AccountID = &accountID
	mapped.Symbol = symbol
	mapped.SharesQuantity = decimal.NewNullDecimal(decimal.NewFromFloat32(holding.GetQuantity()).Round(6))
	mapped.Equity = decimal.NewNullDecimal(decimal.NewFromFloat32(holding.GetInstitutionValue()).Round(2))
	return mapped
}

func mapActivityType(primary, subtype string) models.TransactionType {
	switch subtype {
	case "dividend", "qualified dividend", "non-qualified dividend":
		return models.TransactionDividend
	case "interest":
		return models.TransactionInterest
	case "contribution":
		return models.TransactionContribution
	case "deposit":
		return models.TransactionDeposit
	case "withdrawal":
		return models.TransactionWithdrawal
	case "management fee", "account fee", "legal fee", "transfer fee":
		return models.TransactionFee
	}

	switch primary {
	case "buy":
		return models.TransactionBuy
	case "sell":
		return models.TransactionSell
	case "transfer":
		return models.TransactionTransfer
	case "fee":
		return models.TransactionFee
	case "cash":
		return models.TransactionDeposit
	}
	return models.TransactionOther
}
