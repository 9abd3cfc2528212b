package controllers

import (
	"net/http"
	"time"

	"github.com/findash/backend/internal/httputil"
	"github.com/findash/backend/internal/mirror"
	"github.com/findash/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// Upload outcomes for a single record.
const (
	StatusInserted      = "inserted"
	StatusSkippedExists = "skipped_exists"
)

// SecondaryTransactionEditable is one record of a bulk upload to the
// secondary store. Ids are caller-supplied.
type SecondaryTransactionEditable struct {
	ID         string    `json:"id" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	Amount     int64     `json:"amount" example:"-12990"`
	Payee      string    `json:"payee" example:"Grocery Store"`
	Notes      string    `json:"notes" example:"Weekly shopping"`
	Date       time.Time `json:"date" example:"2025-04-02T00:00:00.000Z"`
	AccountID  string    `json:"accountId" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	CategoryID string    `json:"categoryId"`
}

func (e SecondaryTransactionEditable) record() mirror.SecondaryTransaction {
	return mirror.SecondaryTransaction{
		ID:         e.ID,
		Amount:     e.Amount,
		Payee:      e.Payee,
		Notes:      e.Notes,
		Date:       e.Date,
		AccountID:  e.AccountID,
		CategoryID: e.CategoryID,
	}
}

// SecondaryTransactionResponse is a secondary store transaction with the
// display names of its account and category resolved from the primary
// store.
type SecondaryTransactionResponse struct {
	ID           string `json:"id"`
	Amount       int64  `json:"amount"`
	Payee        string `json:"payee"`
	Notes        string `json:"notes"`
	Date         string `json:"date"`
	AccountID    string `json:"accountId"`
	CategoryID   string `json:"categoryId"`
	AccountName  string `json:"accountName"`
	CategoryName string `json:"categoryName"`
}

// UploadSecondaryTransactions writes caller-supplied transaction records
// directly to the secondary store, deduplicated by id: a record whose id
// already exists is skipped and the existing item stays untouched.
//
// The check-then-put is not atomic. Concurrent uploads of the same new id
// may both insert, which is harmless: the second put overwrites with the
// identical item.
func (co Controller) UploadSecondaryTransactions(c *gin.Context) {
	var editables []SecondaryTransactionEditable
	if err := httputil.BindData(c, &editables); err != nil {
		return
	}

	results := make([]UploadResult, 0, len(editables))
	for _, editable := range editables {
		_, found, err := co.Store.Get(c.Request.Context(), mirror.TableTransactions, editable.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}

		if found {
			results = append(results, UploadResult{ID: editable.ID, Status: StatusSkippedExists})
			continue
		}

		err = co.Store.Put(c.Request.Context(), mirror.TableTransactions, mirror.SecondaryTransactionItem(editable.record()))
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}

		results = append(results, UploadResult{ID: editable.ID, Status: StatusInserted})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": results})
}

// GetSecondaryTransactions lists the secondary store's transactions. The
// scan itself is unscoped: ownership is filtered afterwards against the
// caller's accounts, since the secondary store has no owner index. Records
// whose account the caller does not own are dropped from the response.
func (co Controller) GetSecondaryTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	to := time.Now().In(time.UTC)
	if filter.To != "" {
		parsed, err := time.Parse(time.RFC3339, filter.To)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
			return
		}
		to = parsed
	}

	from := to.Add(-defaultListWindow)
	if filter.From != "" {
		parsed, err := time.Parse(time.RFC3339, filter.From)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
			return
		}
		from = parsed
	}

	accountNames, categoryNames, err := co.ownedNames(c)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	items, err := co.Store.Scan(c.Request.Context(), mirror.TableTransactions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
		return
	}

	// When there are no resources, we want an empty list, not null
	data := make([]SecondaryTransactionResponse, 0, len(items))
	for _, item := range items {
		t := mirror.SecondaryTransactionFromItem(item)

		accountName, ok := accountNames[t.AccountID]
		if !ok {
			continue
		}

		if filter.AccountID != "" && t.AccountID != filter.AccountID {
			continue
		}

		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}

		data = append(data, SecondaryTransactionResponse{
			ID:           t.ID,
			Amount:       t.Amount,
			Payee:        t.Payee,
			Notes:        t.Notes,
			Date:         mirror.FormatDate(t.Date),
			AccountID:    t.AccountID,
			CategoryID:   t.CategoryID,
			AccountName:  accountName,
			CategoryName: categoryNames[t.CategoryID],
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

// ownedNames loads the id to name maps for the caller's accounts and
// categories, keyed by the string form of the id.
func (co Controller) ownedNames(c *gin.Context) (map[string]string, map[string]string, error) {
	var accounts []models.Account
	err := co.DB.Where("owner_id = ?", owner(c)).Find(&accounts).Error
	if err != nil {
		return nil, nil, err
	}

	var categories []models.Category
	err = co.DB.Where("owner_id = ?", owner(c)).Find(&categories).Error
	if err != nil {
		return nil, nil, err
	}

	accountNames := make(map[string]string, len(accounts))
	for _, account := range accounts {
		accountNames[account.ID.String()] = account.Name
	}

	categoryNames := make(map[string]string, len(categories))
	for _, category := range categories {
		categoryNames[category.ID.String()] = category.Name
	}

	return accountNames, categoryNames, nil
}
