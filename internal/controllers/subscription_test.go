package controllers_test

import (
	"net/http"

	"github.com/findash/backend/internal/controllers"
	"github.com/findash/backend/test"
)

type SubscriptionResponseBody struct {
	Data struct {
		ExternalSubscriptionID string `json:"externalSubscriptionId"`
		Status                 string `json:"status"`
		Active                 bool   `json:"active"`
	} `json:"data"`
}

func (suite *TestSuiteStandard) TestGetCurrentSubscriptionNone() {
	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, "/subscriptions/current", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
}

// The entitlement is derived from the stored status on every read.
func (suite *TestSuiteStandard) TestSubscriptionWebhookLifecycle() {
	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/subscriptions/webhook", controllers.WebhookBody{
		OwnerID:                "user_1",
		ExternalSubscriptionID: "sub_1OxYzA",
		Status:                 "active",
	})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, &recorder)

	recorder = test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, "/subscriptions/current", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response SubscriptionResponseBody
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("sub_1OxYzA", response.Data.ExternalSubscriptionID)
	suite.Assert().True(response.Data.Active)

	// The provider reports a cancellation for the same owner
	recorder = test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/subscriptions/webhook", controllers.WebhookBody{
		OwnerID:                "user_1",
		ExternalSubscriptionID: "sub_1OxYzA",
		Status:                 "cancelled",
	})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	recorder = test.RequestAs(suite.co, suite.T(), "user_1", http.MethodGet, "/subscriptions/current", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("cancelled", response.Data.Status)
	suite.Assert().False(response.Data.Active)
}

func (suite *TestSuiteStandard) TestSubscriptionWebhookNoOwner() {
	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/subscriptions/webhook", controllers.WebhookBody{
		ExternalSubscriptionID: "sub_1OxYzA",
		Status:                 "active",
	})
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
}

// The subscription of another user is not readable.
func (suite *TestSuiteStandard) TestGetCurrentSubscriptionScoped() {
	recorder := test.RequestAs(suite.co, suite.T(), "user_1", http.MethodPost, "/subscriptions/webhook", controllers.WebhookBody{
		OwnerID: "user_1",
		Status:  "active",
	})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, &recorder)

	recorder = test.RequestAs(suite.co, suite.T(), "user_2", http.MethodGet, "/subscriptions/current", nil)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
}
