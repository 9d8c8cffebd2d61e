package tui

import (
	"github.com/budget-tracker/backend/internal/client/navigation"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// Every result carries the token of the screen activation that asked for
// it; the controller drops the ones that arrive too late.

type summaryLoadedMsg struct {
	token   navigation.RequestToken
	summary *entity.MonthSummary
	err     error
}

type categoriesLoadedMsg struct {
	token      navigation.RequestToken
	categories []*entity.Category
	err        error
}

type transactionsLoadedMsg struct {
	token        navigation.RequestToken
	transactions []*entity.Transaction
	err          error
}

type uploadedMsg struct {
	token       navigation.RequestToken
	transaction *entity.Transaction
	err         error
}

type savedMsg struct {
	token navigation.RequestToken
	err   error
}
