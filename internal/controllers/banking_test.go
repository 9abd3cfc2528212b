package controllers_test

import (
	"encoding/json"
	"net/http"

	"github.com/findash/backend/internal/controllers"
	"github.com/findash/backend/internal/importer"
	"github.com/findash/backend/internal/models"
	"github.com/findash/backend/test"
)

func (suite *TestSuiteStandard) connectBank(user string) {
	recorder := test.RequestAs(suite.co, suite.T(), user, http.MethodPost, "/banking/exchange-public-token", controllers.ExchangeBody{
		PublicToken: "public-sandbox-7c3f",
	})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, &recorder)
}

func (suite *TestSuiteStandard) TestExchangePublicToken() {
	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/banking/exchange-public-token", controllers.ExchangeBody{
		PublicToken: "public-sandbox-7c3f",
	})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, &recorder)

	var response struct {
		Data importer.Result `json:"data"`
	}
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(2, response.Data.Accounts)
	suite.Assert().Equal(1, response.Data.Categories)
	suite.Assert().Equal(2, response.Data.Transactions)
	suite.Assert().Equal(1, response.Data.Skipped)

	recorder = test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, "/accounts", nil)
	var accounts AccountListResponse
	test.DecodeResponse(suite.T(), &recorder, &accounts)
	suite.Assert().Len(accounts.Data, 2)
}

func (suite *TestSuiteStandard) TestExchangePublicTokenEmpty() {
	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/banking/exchange-public-token", `{}`)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)

	var response struct {
		Error string `json:"error"`
	}
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("the publicToken field must be set", response.Error)
}

func (suite *TestSuiteStandard) TestExchangePublicTokenTwice() {
	suite.connectBank("user_1")

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/banking/exchange-public-token", controllers.ExchangeBody{
		PublicToken: "public-sandbox-7c3f",
	})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
}

func (suite *TestSuiteStandard) TestGetConnectedBankNone() {
	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, "/banking/connected-bank", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response struct {
		Data json.RawMessage `json:"data"`
	}
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("null", string(response.Data))
}

// The response carries the connection, but never the access token.
func (suite *TestSuiteStandard) TestGetConnectedBank() {
	suite.connectBank("user_1")

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, "/banking/connected-bank", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response struct {
		Data map[string]any `json:"data"`
	}
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().NotEmpty(response.Data["id"])
	suite.Assert().NotContains(response.Data, "accessToken")

	// Another user does not see the connection
	recorder = test.RequestAs(suite.co, suite.T(), "user_2", http.MethodGet, "/banking/connected-bank", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var other struct {
		Data json.RawMessage `json:"data"`
	}
	test.DecodeResponse(suite.T(), &recorder, &other)
	suite.Assert().Equal("null", string(other.Data))
}

// Disconnecting removes the link and everything imported through it, but
// keeps manually created resources.
func (suite *TestSuiteStandard) TestDisconnectBank() {
	suite.createAccount("user_1", "Cash")
	suite.connectBank("user_1")

	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodDelete, "/banking/connected-bank", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &recorder)

	recorder = test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, "/accounts", nil)
	var accounts AccountListResponse
	test.DecodeResponse(suite.T(), &recorder, &accounts)
	suite.Require().Len(accounts.Data, 1)
	suite.Assert().Equal("Cash", accounts.Data[0].Name)

	var count int64
	suite.Require().Nil(models.DB.Model(&models.Transaction{}).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)
}

func (suite *TestSuiteStandard) TestDisconnectBankNotConnected() {
	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodDelete, "/banking/connected-bank", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
}
