package controllers_test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/findash/backend/internal/controllers"
	"github.com/findash/backend/internal/keyvalue"
	"github.com/findash/backend/internal/mirror"
	"github.com/findash/backend/internal/models"
	"github.com/findash/backend/test"
)

type AccountListResponse struct {
	Data []models.Account `json:"data"`
}

type AccountResponse struct {
	Data models.Account `json:"data"`
}

func (suite *TestSuiteStandard) TestGetAccountsEmpty() {
	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, "/accounts", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response AccountListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().NotNil(response.Data)
	suite.Assert().Len(response.Data, 0)
}

func (suite *TestSuiteStandard) TestGetAccountsSortedAndScoped() {
	suite.createAccount("user_1", "Savings")
	suite.createAccount("user_1", "Checking")
	suite.createAccount("user_2", "Other User")

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, "/accounts", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response AccountListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 2)
	suite.Assert().Equal("Checking", response.Data[0].Name)
	suite.Assert().Equal("Savings", response.Data[1].Name)
}

func (suite *TestSuiteStandard) TestCreateAccount() {
	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/accounts", controllers.AccountEditable{Name: "Checking"})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, &recorder)

	var created AccountResponse
	test.DecodeResponse(suite.T(), &recorder, &created)
	suite.Assert().Equal("Checking", created.Data.Name)

	recorder = test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, fmt.Sprintf("/accounts/%s", created.Data.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)
}

func (suite *TestSuiteStandard) TestCreateAccountNoName() {
	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/accounts", `{}`)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)

	var response struct {
		Error string `json:"error"`
	}
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("the name field must be set", response.Error)
}

// Accounts of other users are reported as missing, not as forbidden.
func (suite *TestSuiteStandard) TestGetAccountNotOwned() {
	account := suite.createAccount("user_2", "Other User")

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, fmt.Sprintf("/accounts/%s", account.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
}

func (suite *TestSuiteStandard) TestGetAccountInvalidID() {
	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, "/accounts/not-a-uuid", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
}

func (suite *TestSuiteStandard) TestUpdateAccount() {
	account := suite.createAccount("user_1", "Checking")

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPatch, fmt.Sprintf("/accounts/%s", account.ID), controllers.AccountEditable{Name: "Daily Driver"})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response AccountResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("Daily Driver", response.Data.Name)
}

// A PATCH without the name keeps the current one.
func (suite *TestSuiteStandard) TestUpdateAccountPartial() {
	account := suite.createAccount("user_1", "Checking")

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPatch, fmt.Sprintf("/accounts/%s", account.ID), `{}`)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response AccountResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("Checking", response.Data.Name)
}

func (suite *TestSuiteStandard) TestDeleteAccount() {
	account := suite.createAccount("user_1", "Checking")

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodDelete, fmt.Sprintf("/accounts/%s", account.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &recorder)

	recorder = test.RequestAs(suite.co, suite.T(), "user_1", http.MethodDelete, fmt.Sprintf("/accounts/%s", account.ID), nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
}

// Only owned accounts are deleted; malformed and foreign ids are ignored.
func (suite *TestSuiteStandard) TestBulkDeleteAccounts() {
	mine := suite.createAccount("user_1", "Checking")
	alsoMine := suite.createAccount("user_1", "Savings")
	foreign := suite.createAccount("user_2", "Other User")

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/accounts/bulk-delete", controllers.BulkDeleteBody{
		IDs: []string{mine.ID.String(), alsoMine.ID.String(), foreign.ID.String(), "not-a-uuid"},
	})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response struct {
		Data []controllers.DeletedResource `json:"data"`
	}
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 2)

	var count int64
	suite.Require().Nil(models.DB.Model(&models.Account{}).Count(&count).Error)
	suite.Assert().Equal(int64(1), count)
}

// Changes through the API converge to the secondary store once the outbox
// is drained.
func (suite *TestSuiteStandard) TestAccountMirrored() {
	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/accounts", controllers.AccountEditable{Name: "Checking"})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, &recorder)

	var created AccountResponse
	test.DecodeResponse(suite.T(), &recorder, &created)

	suite.Require().Nil(suite.co.Syncer.ProcessPending(context.Background()))

	item, found, err := suite.store.Get(context.Background(), mirror.TableAccounts, created.Data.ID.String())
	suite.Require().Nil(err)
	suite.Require().True(found)

	name, _ := keyvalue.StringAttr(item, "name")
	suite.Assert().Equal("Checking", name)
}
