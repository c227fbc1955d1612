// Package snaptrade is a thin SnapTrade REST client that maps brokerage
// data to import payloads.
package snaptrade

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	apperrors "networth/internal/errors"
	"networth/internal/logger"
	"networth/internal/models"
	"networth/internal/services"
)

const defaultBaseURL = "https://api.snaptrade.com/api/v1"

// Client talks to the SnapTrade REST API.
type Client struct {
	http        *resty.Client
	clientID    string
	consumerKey string
}

// NewClient builds a SnapTrade client.
func NewClient(clientID, consumerKey string) *Client {
	http := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json")
	return &Client{http: http, clientID: clientID, consumerKey: consumerKey}
}

// sign produces the request signature SnapTrade expects: an HMAC-SHA256
// of the request content keyed with the consumer key.
func (c *Client) sign(content string) string {
	mac := hmac.New(sha256.New, []byte(c.consumerKey))
	mac.Write([]byte(content))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (c *Client) request(ctx context.Context, userID, userSecret string) *resty.Request {
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("clientId", c.clientID).
		SetQueryParam("timestamp", timestamp).
		SetHeader("Signature", c.sign(c.clientID+timestamp))
	if userID != "" {
		req.SetQueryParam("userId", userID)
		req.SetQueryParam("userSecret", userSecret)
	}
	return req
}

type registerUserResponse struct {
	UserID     string `json:"userId"`
	UserSecret string `json:"userSecret"`
}

// RegisterUser registers a user with SnapTrade and returns the secret
// that authorizes subsequent calls on their behalf.
func (c *Client) RegisterUser(ctx context.Context, userID string) (string, error) {
	resp, err := c.request(ctx, "", "").
		SetBody(map[string]string{"userId": userID}).
		Post("/snapTrade/registerUser")
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrProviderFailure, err)
	}
	if resp.IsError() {
		return "", apperrors.WithMessage(apperrors.ErrProviderFailure,
			fmt.Sprintf("snaptrade registration failed with status %d", resp.StatusCode()))
	}

	var registered registerUserResponse
	if err := json.Unmarshal(resp.Body(), &registered); err != nil {
		return "", apperrors.Wrap(apperrors.ErrProviderFailure, err)
	}
	return registered.UserSecret, nil
}

// LoginURL returns a redirect URI that opens the SnapTrade connection
// portal for the user.
func (c *Client) LoginURL(ctx context.Context, userID, userSecret string) (string, error) {
	resp, err := c.request(ctx, userID, userSecret).
		Post("/snapTrade/login")
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrProviderFailure, err)
	}
	if resp.IsError() {
		return "", apperrors.WithMessage(apperrors.ErrProviderFailure,
			fmt.Sprintf("snaptrade login failed with status %d", resp.StatusCode()))
	}

	var login struct {
		RedirectURI string `json:"redirectURI"`
	}
	if err := json.Unmarshal(resp.Body(), &login); err != nil {
		return "", apperrors.Wrap(apperrors.ErrProviderFailure, err)
	}
	return login.RedirectURI, nil
}

type accountResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Balance struct {
		Total struct {
			Amount decimal.NullDecimal `json:"amount"`
		} `json:"total"`
	} `json:"balance"`
}

type positionResponse struct {
	Symbol struct {
		Symbol struct {
			ID     string `json:"id"`
			Symbol string `json:"symbol"`
			Name   string `json:"description"`
		} `json:"symbol"`
	} `json:"symbol"`
	Units decimal.NullDecimal `json:"units"`
	Price decimal.NullDecimal `json:"price"`
}

type activityResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	TradeDate string `json:"trade_date"`
	Symbol    *struct {
		ID string `json:"id"`
	} `json:"symbol"`
	Account struct {
		ID string `json:"id"`
	} `json:"account"`
	Amount      decimal.NullDecimal `json:"amount"`
	Units       decimal.NullDecimal `json:"units"`
	Description string              `json:"description"`
}

// FetchHoldings pulls the user's brokerage accounts, positions, and
// activities and maps them to an import payload.
func (c *Client) FetchHoldings(ctx context.Context, userID, userSecret string) (services.ImportPayload, error) {
	payload := services.ImportPayload{Source: models.SourceSnapTrade}

	accounts, err := c.fetchAccounts(ctx, userID, userSecret)
	if err != nil {
		return payload, err
	}

	for _, account := range accounts {
		payload.Accounts = append(payload.Accounts, mapAccount(account))

		positions, err := c.fetchPositions(ctx, userID, userSecret, account.ID)
		if err != nil {
			return payload, err
		}
		for _, position := range positions {
			security, ok := mapPosition(account.ID, position)
			if !ok {
				logger.Get().Warnw("skipping position without symbol", "account_id", account.ID)
				continue
			}
			payload.Securities = append(payload.Securities, security)
		}
	}

	activities, err := c.fetchActivities(ctx, userID, userSecret)
	if err != nil {
		return payload, err
	}
	payload.Activities = activities

	return payload, nil
}

func (c *Client) fetchAccounts(ctx context.Context, userID, userSecret string) ([]accountResponse, error) {
	resp, err := c.request(ctx, userID, userSecret).Get("/accounts")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrProviderFailure, err)
	}
	if resp.IsError() {
		return nil, apperrors.WithMessage(apperrors.ErrProviderFailure,
			fmt.Sprintf("snaptrade accounts request failed with status %d", resp.StatusCode()))
	}

	var accounts []accountResponse
	if err := json.Unmarshal(resp.Body(), &accounts); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrProviderFailure, err)
	}
	return accounts, nil
}

func (c *Client) fetchPositions(ctx context.Context, userID, userSecret, accountID string) ([]positionResponse, error) {
	resp, err := c.request(ctx, userID, userSecret).
		Get(fmt.Sprintf("/accounts/%s/positions", accountID))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrProviderFailure, err)
	}
	if resp.IsError() {
		return nil, apperrors.WithMessage(apperrors.ErrProviderFailure,
			fmt.Sprintf("snaptrade positions request failed with status %d", resp.StatusCode()))
	}

	var positions []positionResponse
	if err := json.Unmarshal(resp.Body(), &positions); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrProviderFailure, err)
	}
	return positions, nil
}

func (c *Client) fetchActivities(ctx context.Context, userID, userSecret string) ([]services.ImportedActivity, error) {
	resp, err := c.request(ctx, userID, userSecret).Get("/activities")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrProviderFailure, err)
	}
	if resp.IsError() {
		return nil, apperrors.WithMessage(apperrors.ErrProviderFailure,
			fmt.Sprintf("snaptrade activities request failed with status %d", resp.StatusCode()))
	}

	var raw []activityResponse
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrProviderFailure, err)
	}

	var activities []services.ImportedActivity
	for _, activity := range raw {
		if activity.Symbol == nil || activity.Symbol.ID == "" {
			continue
		}

		date, err := time.Parse("2006-01-02", activity.TradeDate)
		if err != nil {
			date, err = time.Parse(time.RFC3339, activity.TradeDate)
			if err != nil {
				date = time.Now()
			}
		}

		activities = append(activities, services.ImportedActivity{
			ProviderID:  activity.ID,
			SecurityID:  holdingID(activity.Account.ID, activity.Symbol.ID),
			Type:        mapActivityType(activity.Type),
			Date:        date,
			Amount:      activity.Amount.Decimal,
			Quantity:    activity.Units.Decimal,
			Description: activity.Description,
		})
	}
	return activities, nil
}

// holdingID keys an imported holding by account and symbol so the same
// instrument held in two accounts stays distinct.
func holdingID(accountID, symbolID string) string {
	return fmt.Sprintf("%s:%s", accountID, symbolID)
}

func mapAccount(account accountResponse) models.Account {
	return models.Account{
		ID:           account.ID,
		Source:       models.SourceSnapTrade,
		Name:         account.Name,
		AccountValue: account.Balance.Total.Amount,
	}
}

func mapPosition(accountID string, position positionResponse) (models.Security, bool) {
	symbol := position.Symbol.Symbol
	if symbol.ID == "" {
		return models.Security{}, false
	}

	ticker := strings.ToUpper(symbol.Symbol)
	if len(ticker) > 10 {
		ticker = ticker[:10]
	}

	var equity decimal.NullDecimal
	if position.Units.Valid && position.Price.Valid {
		equity = decimal.NewNullDecimal(position.Units.Decimal.Mul(position.Price.Decimal).Round(2))
	}

	mapped := models.Security{}
	mapped.ID = holdingID(accountID, symbol.ID)
	mapped.Name = symbol.Name
	mapped.Source = models.SourceSnapTrade
	mapped.AccountID = &accountID
	mapped.Symbol = ticker
	mapped.SharesQuantity = position.Units
	mapped.Equity = equity
	return mapped, true
}

func mapActivityType(activityType string) models.TransactionType {
	switch strings.ToUpper(activityType) {
	case "BUY":
		return models.TransactionBuy
	case "SELL":
		return models.TransactionSell
	case "DIVIDEND":
		return models.TransactionDividend
	case "INTEREST":
		return models.TransactionInterest
	case "CONTRIBUTION":
		return models.TransactionContribution
	case "DEPOSIT":
		return models.TransactionDeposit
	case "WITHDRAWAL":
		return models.TransactionWithdrawal
	case "TRANSFER":
		return models.TransactionTransfer
	case "FEE":
		return models.TransactionFee
	case "OPTIONEXPIRATION", "OPTIONASSIGNMENT", "OPTIONEXERCISE":
		return models.TransactionOther
	}
	return models.TransactionOther
}
