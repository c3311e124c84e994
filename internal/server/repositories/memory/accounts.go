package memory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type AccountRepository struct {
	s *Store
}

func (r *AccountRepository) CreateOrGet(_ context.Context, in models.NewAccount) (*models.Account, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	for _, a := range r.s.accounts {
		if a.Provider == in.Provider && a.ProviderAccountID == in.ProviderAccountID {
			a.LastLoginAt = &now
			a.IsActive = true
			return cloneAccount(a), false, nil
		}
	}
	for _, a := range r.s.accounts {
		if a.Email == in.Email {
			return nil, false, common.NewForbidden("email " + in.Email + " is linked to another login")
		}
	}

	a := &models.Account{
		ID:                newID(),
		Email:             in.Email,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		LastLoginAt:       &now,
		IsActive:          true,
		Provider:          in.Provider,
		ProviderAccountID: in.ProviderAccountID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if in.Thumbnail != nil {
		t := *in.Thumbnail
		a.Thumbnail = &t
	}
	a.Normalize()
	r.s.accounts[a.ID] = a
	return cloneAccount(a), true, nil
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneAccount(a), nil
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *AccountRepository) Update(_ context.Context, id string, patch models.AccountPatch) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if patch.FirstName != nil {
		a.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		a.LastName = *patch.LastName
	}
	switch {
	case patch.ClearThumbnail:
		a.Thumbnail = nil
	case patch.Thumbnail != nil:
		t := *patch.Thumbnail
		a.Thumbnail = &t
	}
	a.FullName = models.JoinName(a.FirstName, a.LastName)
	a.UpdatedAt = r.s.now()
	return cloneAccount(a), nil
}

func (r *AccountRepository) DeactivateInactive(_ context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, a := range r.s.accounts {
		if !a.IsActive {
			continue
		}
		seen := a.CreatedAt
		if a.LastLoginAt != nil {
			seen = *a.LastLoginAt
		}
		if seen.Before(before) {
			a.IsActive = false
			a.UpdatedAt = r.s.now()
			n++
		}
	}
	return n, nil
}
