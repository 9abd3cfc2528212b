package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// HTTPProvider talks to the banking aggregation bridge over JSON HTTP. The
// bridge fronts the actual aggregator and normalizes its payloads.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProvider(baseURL string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *HTTPProvider) ExchangePublicToken(ctx context.Context, publicToken string) (string, error) {
	var response struct {
		AccessToken string `json:"accessToken"`
	}

	err := p.post(ctx, "/exchange", map[string]string{"publicToken": publicToken}, &response)
	if err != nil {
		return "", err
	}

	return response.AccessToken, nil
}

func (p *HTTPProvider) Accounts(ctx context.Context, accessToken string) ([]Account, error) {
	var response struct {
		Accounts []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"accounts"`
	}

	if err := p.get(ctx, "/accounts", accessToken, &response); err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(response.Accounts))
	for _, a := range response.Accounts {
		accounts = append(accounts, Account{ExternalID: a.ID, Name: a.Name})
	}

	return accounts, nil
}

func (p *HTTPProvider) Categories(ctx context.Context, accessToken string) ([]Category, error) {
	var response struct {
		Categories []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"categories"`
	}

	if err := p.get(ctx, "/categories", accessToken, &response); err != nil {
		return nil, err
	}

	categories := make([]Category, 0, len(response.Categories))
	for _, c := range response.Categories {
		categories = append(categories, Category{ExternalID: c.ID, Name: c.Name})
	}

	return categories, nil
}

func (p *HTTPProvider) Transactions(ctx context.Context, accessToken string) ([]Transaction, error) {
	var response struct {
		Transactions []struct {
			AccountID  string          `json:"accountId"`
			CategoryID string          `json:"categoryId"`
			Amount     decimal.Decimal `json:"amount"`
			Payee      string          `json:"payee"`
			Name       string          `json:"name"`
			Date       time.Time       `json:"date"`
		} `json:"transactions"`
	}

	if err := p.get(ctx, "/transactions", accessToken, &response); err != nil {
		return nil, err
	}

	transactions := make([]Transaction, 0, len(response.Transactions))
	for _, t := range response.Transactions {
		transactions = append(transactions, Transaction{
			ExternalAccountID:  t.AccountID,
			ExternalCategoryID: t.CategoryID,
			Amount:             t.Amount,
			Payee:              t.Payee,
			Description:        t.Name,
			Date:               t.Date,
		})
	}

	return transactions, nil
}

func (p *HTTPProvider) post(ctx context.Context, path string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return p.do(req, out)
}

func (p *HTTPProvider) get(ctx context.Context, path string, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	return p.do(req, out)
}

func (p *HTTPProvider) do(req *http.Request, out any) error {
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("banking provider returned HTTP %d for %s", resp.StatusCode, req.URL.Path)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
