package controllers

import (
	"net/http"
	"time"

	"github.com/findash/backend/internal/httputil"
	"github.com/findash/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"golang.org/x/sync/errgroup"
)

// bulkConcurrency bounds the fan-out of the transaction bulk endpoints.
const bulkConcurrency = 5

// defaultListWindow is the date range for transaction listings when the
// caller does not pass one.
const defaultListWindow = 30 * 24 * time.Hour

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func (co Controller) RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.GET("", co.GetTransactions)
		r.POST("", co.CreateTransaction)
		r.POST("/bulk-create", co.CreateTransactions)
		r.POST("/bulk-delete", co.BulkDeleteTransactions)
	}

	// Secondary store upload and listing
	{
		r.GET("/aws", co.GetSecondaryTransactions)
		r.POST("/aws", co.UploadSecondaryTransactions)
	}

	// Transaction with ID
	{
		r.GET("/:id", co.GetTransaction)
		r.PATCH("/:id", co.UpdateTransaction)
		r.DELETE("/:id", co.DeleteTransaction)
	}
}

// TransactionEditable contains the fields a caller can set.
type TransactionEditable struct {
	Amount     int64      `json:"amount" example:"-12990"`
	Payee      string     `json:"payee" example:"Grocery Store"`
	Notes      string     `json:"notes" example:"Weekly shopping"`
	Date       time.Time  `json:"date" example:"2025-04-02T00:00:00.000Z"`
	AccountID  uuid.UUID  `json:"accountId" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	CategoryID *uuid.UUID `json:"categoryId"`
}

func (e TransactionEditable) model() models.Transaction {
	return models.Transaction{
		Amount:     e.Amount,
		Payee:      e.Payee,
		Notes:      e.Notes,
		Date:       e.Date,
		AccountID:  e.AccountID,
		CategoryID: e.CategoryID,
	}
}

func newTransactionEditable(t models.Transaction) TransactionEditable {
	return TransactionEditable{
		Amount:     t.Amount,
		Payee:      t.Payee,
		Notes:      t.Notes,
		Date:       t.Date,
		AccountID:  t.AccountID,
		CategoryID: t.CategoryID,
	}
}

// TransactionResponse is a transaction with the display names of its
// account and category resolved.
type TransactionResponse struct {
	models.Transaction
	AccountName  string `json:"accountName" example:"Checking"`
	CategoryName string `json:"categoryName" example:"Groceries"`
}

// TransactionQueryFilter contains the supported query parameters of the
// transaction listing. The payee filter supports * wildcards.
type TransactionQueryFilter struct {
	AccountID string `form:"accountId"`
	Payee     string `form:"payee"`
	From      string `form:"from"`
	To        string `form:"to"`
}

// GetTransactions returns the transactions on the accounts of the
// authenticated user. Without an explicit date range, the last 30 days are
// returned.
func (co Controller) GetTransactions(c *gin.Context) {
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

	query := co.DB.
		Preload("Account").
		Preload("Category").
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.owner_id = ?", owner(c)).
		Where("transactions.date >= ? AND transactions.date <= ?", from, to).
		Order("transactions.date DESC")

	if filter.AccountID != "" {
		accountID, err := uuid.Parse(filter.AccountID)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
			return
		}
		query = query.Where("transactions.account_id = ?", accountID)
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	// When there are no resources, we want an empty list, not null
	data := make([]TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		if filter.Payee != "" && !glob.Glob(filter.Payee, transaction.Payee) {
			continue
		}

		data = append(data, TransactionResponse{
			Transaction:  transaction,
			AccountName:  transaction.Account.Name,
			CategoryName: transaction.Category.Name,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

// CreateTransaction creates a new transaction on one of the authenticated
// user's accounts.
func (co Controller) CreateTransaction(c *gin.Context) {
	var editable TransactionEditable
	if err := httputil.BindData(c, &editable); err != nil {
		return
	}

	if err := co.authorizeEditable(c, editable); err != nil {
		return
	}

	transaction := editable.model()
	if err := co.Syncer.CreateTransaction(c.Request.Context(), &transaction); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": transaction})
}

// CreateTransactions creates a batch of transactions with a bounded
// fan-out. The response preserves the input order. The first failure aborts
// the batch; transactions already written stay written.
func (co Controller) CreateTransactions(c *gin.Context) {
	var editables []TransactionEditable
	if err := httputil.BindData(c, &editables); err != nil {
		return
	}

	for _, editable := range editables {
		if err := co.authorizeEditable(c, editable); err != nil {
			return
		}
	}

	transactions := make([]models.Transaction, len(editables))

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(bulkConcurrency)

	for i, editable := range editables {
		g.Go(func() error {
			transaction := editable.model()
			if err := co.Syncer.CreateTransaction(ctx, &transaction); err != nil {
				return err
			}

			transactions[i] = transaction
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": transactions})
}

// BulkDeleteTransactions removes a set of transactions. Only transactions
// on accounts the authenticated user owns are deleted and reported; the
// rest of the ids are ignored.
func (co Controller) BulkDeleteTransactions(c *gin.Context) {
	var body BulkDeleteBody
	if err := httputil.BindData(c, &body); err != nil {
		return
	}

	var ids []uuid.UUID
	err := co.DB.Model(&models.Transaction{}).
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("transactions.id IN ?", parseIDs(body.IDs)).
		Where("accounts.owner_id = ?", owner(c)).
		Pluck("transactions.id", &ids).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(bulkConcurrency)

	for _, id := range ids {
		g.Go(func() error {
			_, err := co.Syncer.DeleteTransaction(ctx, id)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	deleted := make([]DeletedResource, 0, len(ids))
	for _, id := range ids {
		deleted = append(deleted, DeletedResource{ID: id.String()})
	}

	c.JSON(http.StatusOK, gin.H{"data": deleted})
}

// GetTransaction returns a single transaction.
func (co Controller) GetTransaction(c *gin.Context) {
	transaction, err := co.getTransaction(c)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": transaction})
}

// UpdateTransaction edits a transaction. Fields missing from the request
// keep their current value; the mirror receives the entire resulting row.
func (co Controller) UpdateTransaction(c *gin.Context) {
	transaction, err := co.getTransaction(c)
	if err != nil {
		return
	}

	editable := newTransactionEditable(transaction)
	if err := httputil.BindData(c, &editable); err != nil {
		return
	}

	if err := co.authorizeEditable(c, editable); err != nil {
		return
	}

	updated, err := co.Syncer.UpdateTransaction(c.Request.Context(), transaction.ID, editable.model())
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// DeleteTransaction removes a transaction.
func (co Controller) DeleteTransaction(c *gin.Context) {
	transaction, err := co.getTransaction(c)
	if err != nil {
		return
	}

	if _, err := co.Syncer.DeleteTransaction(c.Request.Context(), transaction.ID); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, gin.H{})
}

// getTransaction loads the transaction from the id path parameter. The
// ownership check joins through the account: transactions of other users
// are reported as missing, not as forbidden.
func (co Controller) getTransaction(c *gin.Context) (models.Transaction, error) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		return models.Transaction{}, err
	}

	var transaction models.Transaction
	err = co.DB.
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.owner_id = ?", owner(c)).
		First(&transaction, "transactions.id = ?", id).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return models.Transaction{}, err
	}

	return transaction, nil
}

// authorizeEditable verifies that the referenced account and category
// exist and belong to the authenticated user. On failure the response has
// already been written.
func (co Controller) authorizeEditable(c *gin.Context, editable TransactionEditable) error {
	if editable.AccountID == uuid.Nil {
		c.JSON(http.StatusBadRequest, httpError{Error: errAccountIDNotSet.Error()})
		return errAccountIDNotSet
	}

	err := co.DB.First(&models.Account{}, "id = ? AND owner_id = ?", editable.AccountID, owner(c)).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return err
	}

	if editable.CategoryID != nil && *editable.CategoryID != uuid.Nil {
		err := co.DB.First(&models.Category{}, "id = ? AND owner_id = ?", *editable.CategoryID, owner(c)).Error
		if err != nil {
			c.JSON(status(err), httpError{Error: err.Error()})
			return err
		}
	}

	return nil
}
