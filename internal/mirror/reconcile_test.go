package mirror_test

import (
	"context"

	"github.com/findash/backend/internal/keyvalue"
	"github.com/findash/backend/internal/mirror"
	"github.com/findash/backend/internal/models"
)

func (suite *TestSuiteStandard) TestReconcileRepairsMissing() {
	// A write that bypassed the Syncer leaves no outbox entry
	account := models.Account{Name: "Imported", OwnerID: "user_1"}
	suite.Require().Nil(models.DB.Create(&account).Error)

	report, err := suite.syncer.Reconcile(context.Background())
	suite.Require().Nil(err)
	suite.Assert().Equal(1, report[mirror.TableAccounts].Checked)
	suite.Assert().Equal(1, report[mirror.TableAccounts].Repaired)
	suite.Assert().Equal(0, report[mirror.TableAccounts].Removed)

	item, found, err := suite.store.Get(context.Background(), mirror.TableAccounts, account.ID.String())
	suite.Require().Nil(err)
	suite.Require().True(found)
	suite.Assert().True(keyvalue.Equal(mirror.AccountItem(account), item))
}

func (suite *TestSuiteStandard) TestReconcileRemovesOrphans() {
	err := suite.store.Put(context.Background(), mirror.TableAccounts, keyvalue.Item{
		"id":   keyvalue.S("orphan"),
		"name": keyvalue.S("No primary row"),
	})
	suite.Require().Nil(err)

	report, err := suite.syncer.Reconcile(context.Background())
	suite.Require().Nil(err)
	suite.Assert().Equal(1, report[mirror.TableAccounts].Removed)

	_, found, err := suite.store.Get(context.Background(), mirror.TableAccounts, "orphan")
	suite.Require().Nil(err)
	suite.Assert().False(found)
}

func (suite *TestSuiteStandard) TestReconcileRepairsStale() {
	account := suite.createAccount("Checking")
	suite.Require().Nil(suite.syncer.ProcessPending(context.Background()))

	// Change the row without the Syncer, leaving the mirror stale
	err := models.DB.Model(&models.Account{}).
		Where("id = ?", account.ID).
		Update("name", "Renamed Behind The Mirror").Error
	suite.Require().Nil(err)

	report, err := suite.syncer.Reconcile(context.Background())
	suite.Require().Nil(err)
	suite.Assert().Equal(1, report[mirror.TableAccounts].Repaired)

	item, found, err := suite.store.Get(context.Background(), mirror.TableAccounts, account.ID.String())
	suite.Require().Nil(err)
	suite.Require().True(found)

	name, _ := keyvalue.StringAttr(item, "name")
	suite.Assert().Equal("Renamed Behind The Mirror", name)
}

func (suite *TestSuiteStandard) TestReconcileConverged() {
	suite.createAccount("Checking")
	suite.Require().Nil(suite.syncer.ProcessPending(context.Background()))

	report, err := suite.syncer.Reconcile(context.Background())
	suite.Require().Nil(err)
	suite.Assert().Equal(mirror.TableCounts{Checked: 1}, report[mirror.TableAccounts])
	suite.Assert().Equal(mirror.TableCounts{}, report[mirror.TableTransactions])
}
