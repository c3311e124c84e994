package models

import (
	"strings"
	"time"
)

// Account is an authenticated user. It is created through an identity
// provider login and never deleted.
type Account struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	FullName          string     `json:"fullName"`
	Thumbnail         *string    `json:"thumbnail"`
	LastLoginAt       *time.Time `json:"lastLoginAt"`
	IsActive          bool       `json:"isActive"`
	Provider          string     `json:"provider"`
	ProviderAccountID string     `json:"providerAccountId"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Normalize derives FullName when the store did not supply one.
func (a *Account) Normalize() {
	if a.FullName == "" {
		a.FullName = JoinName(a.FirstName, a.LastName)
	}
}

// Owner returns the summary embedded into notes written by this account.
func (a *Account) Owner() Owner {
	return Owner{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName, Thumbnail: a.Thumbnail}
}

// SplitName splits a provider display name on whitespace. The first token is
// the first name and the rest is the last name; a single token fills both.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], parts[0]
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

func JoinName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// NewAccount holds what a login supplies for an account seen for the first time.
type NewAccount struct {
	Email             string
	FirstName         string
	LastName          string
	Thumbnail         *string
	Provider          string
	ProviderAccountID string
}

// AccountPatch lists account attributes to change. Nil pointers are left
// alone; ClearThumbnail sets the thumbnail to null.
type AccountPatch struct {
	FirstName      *string
	LastName       *string
	Thumbnail      *string
	ClearThumbnail bool
}

func (p AccountPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Thumbnail == nil && !p.ClearThumbnail
}
