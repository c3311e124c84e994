// Package services contains the gophnotes domain services. Each service
// reaches the store through repomanager.RepositoryManager, normalises
// not-found lookups to (nil, nil) and passes every other error through.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

type AccountService struct {
	repomanager repomanager.RepositoryManager
}

func NewAccountService(m repomanager.RepositoryManager) *AccountService {
	return &AccountService{repomanager: m}
}

// CreateOrGet returns the account of (provider, providerAccountID), creating
// it on first login. name is split into first and last name with
// models.SplitName. Profile fields of an existing account are not changed.
func (s *AccountService) CreateOrGet(ctx context.Context, email, name, provider, providerAccountID string, thumbnail *string) (*models.Account, error) {
	first, last := models.SplitName(name)

	acc, _, err := s.repomanager.Accounts().CreateOrGet(ctx, models.NewAccount{
		Email:             email,
		FirstName:         first,
		LastName:          last,
		Thumbnail:         thumbnail,
		Provider:          provider,
		ProviderAccountID: providerAccountID,
	})
	if err != nil {
		return nil, err
	}
	acc.Normalize()
	return acc, nil
}

func (s *AccountService) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return normalizeAccount(s.repomanager.Accounts().GetByID(ctx, id))
}

func (s *AccountService) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return normalizeAccount(s.repomanager.Accounts().GetByEmail(ctx, email))
}

// Update changes only the attributes set in patch.
func (s *AccountService) Update(ctx context.Context, id string, patch models.AccountPatch) (*models.Account, error) {
	acc, err := s.repomanager.Accounts().Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	acc.Normalize()
	return acc, nil
}

// DeactivateInactive marks accounts not seen since before as inactive and
// returns how many were changed.
func (s *AccountService) DeactivateInactive(ctx context.Context, before time.Time) (int64, error) {
	return s.repomanager.Accounts().DeactivateInactive(ctx, before)
}

func normalizeAccount(acc *models.Account, err error) (*models.Account, error) {
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	acc.Normalize()
	return acc, nil
}
