package controllers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/findash/backend/internal/controllers"
	"github.com/findash/backend/internal/models"
	"github.com/findash/backend/test"
)

type TransactionListResponse struct {
	Data []controllers.TransactionResponse `json:"data"`
}

type TransactionSingleResponse struct {
	Data models.Transaction `json:"data"`
}

// testDate is a date inside the default listing window.
func testDate() time.Time {
	return time.Now().In(time.UTC).Add(-24 * time.Hour)
}

func (suite *TestSuiteStandard) TestCreateTransaction() {
	account := suite.createAccount("user_1", "Checking")
	category := suite.createCategory("user_1", "Groceries")

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/transactions", controllers.TransactionEditable{
		Amount:     -12990,
		Payee:      "Grocery Store",
		Date:       testDate(),
		AccountID:  account.ID,
		CategoryID: &category.ID,
	})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, &recorder)

	var response TransactionSingleResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(int64(-12990), response.Data.Amount)
	suite.Assert().Equal(account.ID, response.Data.AccountID)
	suite.Require().NotNil(response.Data.CategoryID)
	suite.Assert().Equal(category.ID, *response.Data.CategoryID)
}

func (suite *TestSuiteStandard) TestCreateTransactionNoAccount() {
	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/transactions", controllers.TransactionEditable{
		Amount: -12990,
		Date:   testDate(),
	})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)

	var response struct {
		Error string `json:"error"`
	}
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("the accountId field must be set", response.Error)
}

func (suite *TestSuiteStandard) TestCreateTransactionForeignAccount() {
	account := suite.createAccount("user_2", "Other User")

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/transactions", controllers.TransactionEditable{
		Amount:    -12990,
		Date:      testDate(),
		AccountID: account.ID,
	})
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
}

func (suite *TestSuiteStandard) TestCreateTransactionForeignCategory() {
	account := suite.createAccount("user_1", "Checking")
	category := suite.createCategory("user_2", "Other User")

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/transactions", controllers.TransactionEditable{
		Amount:     -12990,
		Date:       testDate(),
		AccountID:  account.ID,
		CategoryID: &category.ID,
	})
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
}

// Without a date range, only the last 30 days are returned.
func (suite *TestSuiteStandard) TestGetTransactionsDefaultWindow() {
	account := suite.createAccount("user_1", "Checking")
	suite.createTransaction(account, nil, -12990, "Recent", testDate())
	suite.createTransaction(account, nil, -5000, "Ancient", time.Now().In(time.UTC).Add(-40*24*time.Hour))

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, "/transactions", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response TransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("Recent", response.Data[0].Payee)

	// An explicit from makes the older transaction visible
	from := time.Now().In(time.UTC).Add(-60 * 24 * time.Hour).Format(time.RFC3339)
	recorder = test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, fmt.Sprintf("/transactions?from=%s", from), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 2)
}

func (suite *TestSuiteStandard) TestGetTransactionsPayeeFilter() {
	account := suite.createAccount("user_1", "Checking")
	suite.createTransaction(account, nil, -12990, "Grocery Store", testDate())
	suite.createTransaction(account, nil, -899, "Grocery Market", testDate())
	suite.createTransaction(account, nil, -3000, "Gas Station", testDate())

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, "/transactions?payee=Grocery*", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response TransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 2)
}

func (suite *TestSuiteStandard) TestGetTransactionsAccountFilter() {
	checking := suite.createAccount("user_1", "Checking")
	savings := suite.createAccount("user_1", "Savings")
	suite.createTransaction(checking, nil, -12990, "Grocery Store", testDate())
	suite.createTransaction(savings, nil, 100000, "Transfer", testDate())

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, fmt.Sprintf("/transactions?accountId=%s", savings.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response TransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("Transfer", response.Data[0].Payee)
}

// The listing resolves the display names of the account and category and
// never includes other users' transactions.
func (suite *TestSuiteStandard) TestGetTransactionsNamesAndScope() {
	account := suite.createAccount("user_1", "Checking")
	category := suite.createCategory("user_1", "Groceries")
	suite.createTransaction(account, &category.ID, -12990, "Grocery Store", testDate())

	foreign := suite.createAccount("user_2", "Other User")
	suite.createTransaction(foreign, nil, -100, "Hidden", testDate())

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, "/transactions", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response TransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("Checking", response.Data[0].AccountName)
	suite.Assert().Equal("Groceries", response.Data[0].CategoryName)
}

func (suite *TestSuiteStandard) TestGetTransactionNotOwned() {
	foreign := suite.createAccount("user_2", "Other User")
	transaction := suite.createTransaction(foreign, nil, -100, "Hidden", testDate())

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, fmt.Sprintf("/transactions/%s", transaction.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
}

// The bulk create responds in input order.
func (suite *TestSuiteStandard) TestCreateTransactionsBulk() {
	account := suite.createAccount("user_1", "Checking")

	editables := []controllers.TransactionEditable{
		{Amount: -100, Payee: "First", Date: testDate(), AccountID: account.ID},
		{Amount: -200, Payee: "Second", Date: testDate(), AccountID: account.ID},
		{Amount: -300, Payee: "Third", Date: testDate(), AccountID: account.ID},
	}

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/transactions/bulk-create", editables)
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, &recorder)

	var response struct {
		Data []models.Transaction `json:"data"`
	}
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 3)
	suite.Assert().Equal("First", response.Data[0].Payee)
	suite.Assert().Equal("Second", response.Data[1].Payee)
	suite.Assert().Equal("Third", response.Data[2].Payee)

	var count int64
	suite.Require().Nil(models.DB.Model(&models.Transaction{}).Count(&count).Error)
	suite.Assert().Equal(int64(3), count)
}

// One unauthorized record rejects the whole batch before anything is
// written.
func (suite *TestSuiteStandard) TestCreateTransactionsBulkRejected() {
	account := suite.createAccount("user_1", "Checking")
	foreign := suite.createAccount("user_2", "Other User")

	editables := []controllers.TransactionEditable{
		{Amount: -100, Payee: "Mine", Date: testDate(), AccountID: account.ID},
		{Amount: -200, Payee: "Not mine", Date: testDate(), AccountID: foreign.ID},
	}

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/transactions/bulk-create", editables)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)

	var count int64
	suite.Require().Nil(models.DB.Model(&models.Transaction{}).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)
}

// Ids that are malformed or belong to other users are ignored.
func (suite *TestSuiteStandard) TestBulkDeleteTransactions() {
	account := suite.createAccount("user_1", "Checking")
	foreign := suite.createAccount("user_2", "Other User")

	first := suite.createTransaction(account, nil, -100, "First", testDate())
	second := suite.createTransaction(account, nil, -200, "Second", testDate())
	third := suite.createTransaction(account, nil, -300, "Third", testDate())
	notMine := suite.createTransaction(foreign, nil, -400, "Not mine", testDate())

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/transactions/bulk-delete", controllers.BulkDeleteBody{
		IDs: []string{first.ID.String(), second.ID.String(), third.ID.String(), notMine.ID.String(), "not-a-uuid"},
	})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response struct {
		Data []controllers.DeletedResource `json:"data"`
	}
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 3)

	var count int64
	suite.Require().Nil(models.DB.Model(&models.Transaction{}).Count(&count).Error)
	suite.Assert().Equal(int64(1), count)
}

// Fields missing from the PATCH keep their current value.
func (suite *TestSuiteStandard) TestUpdateTransactionPartial() {
	account := suite.createAccount("user_1", "Checking")
	transaction := suite.createTransaction(account, nil, -12990, "Grocery Store", testDate())

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPatch, fmt.Sprintf("/transactions/%s", transaction.ID), `{"notes": "Weekly shopping"}`)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response TransactionSingleResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(int64(-12990), response.Data.Amount)
	suite.Assert().Equal("Grocery Store", response.Data.Payee)
	suite.Assert().Equal("Weekly shopping", response.Data.Notes)
}

// Moving a transaction to another user's account is rejected.
func (suite *TestSuiteStandard) TestUpdateTransactionForeignAccount() {
	account := suite.createAccount("user_1", "Checking")
	foreign := suite.createAccount("user_2", "Other User")
	transaction := suite.createTransaction(account, nil, -12990, "Grocery Store", testDate())

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPatch, fmt.Sprintf("/transactions/%s", transaction.ID), map[string]any{
		"accountId": foreign.ID,
	})
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
}

func (suite *TestSuiteStandard) TestDeleteTransaction() {
	account := suite.createAccount("user_1", "Checking")
	transaction := suite.createTransaction(account, nil, -12990, "Grocery Store", testDate())

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodDelete, fmt.Sprintf("/transactions/%s", transaction.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &recorder)

	recorder = test.RequestAs(suite.co, suite.T(), "user_1", http.MethodDelete, fmt.Sprintf("/transactions/%s", transaction.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
}

// Deleting an account removes its transactions with it.
func (suite *TestSuiteStandard) TestDeleteAccountCascades() {
	account := suite.createAccount("user_1", "Checking")
	transaction := suite.createTransaction(account, nil, -12990, "Grocery Store", testDate())

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodDelete, fmt.Sprintf("/accounts/%s", account.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &recorder)

	var count int64
	suite.Require().Nil(models.DB.Model(&models.Transaction{}).Where("id = ?", transaction.ID).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)
}
