// Package accounts persists Account records.
package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// Repository stores accounts. Lookups of unknown accounts fail with
// common.ErrorNotFound.
type Repository interface {
	// CreateOrGet returns the account keyed by (Provider, ProviderAccountID),
	// creating it from in when absent. Existing accounts only get their login
	// bookkeeping refreshed. created reports whether a row was inserted.
	CreateOrGet(ctx context.Context, in models.NewAccount) (acc *models.Account, created bool, err error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, id string, patch models.AccountPatch) (*models.Account, error)
	// DeactivateInactive marks active accounts idle since before as inactive.
	DeactivateInactive(ctx context.Context, before time.Time) (int64, error)
}
