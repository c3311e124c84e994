package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// Session identifies the acting account of a request.
type Session struct {
	AccountID string
}

// Provider resolves the session of the request carried by ctx. A nil
// session with a nil error means the request is anonymous.
type Provider interface {
	GetSession(ctx context.Context) (*Session, error)
}

type Manager struct {
	secretKey []byte
	validity  time.Duration
	revoked   RevocationStore
	now       func() time.Time
}

// NewManager returns a Manager signing with secretKey. revoked may be nil,
// in which case tokens stay valid until they expire.
func NewManager(secretKey string, validity time.Duration, revoked RevocationStore) *Manager {
	return &Manager{
		secretKey: []byte(secretKey),
		validity:  validity,
		revoked:   revoked,
		now:       time.Now,
	}
}

// Issue returns a new signed token for accountID.
func (m *Manager) Issue(_ context.Context, accountID string) (string, error) {
	token, _, err := GenerateToken(accountID, m.secretKey, m.validity, m.now())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (m *Manager) GetSession(ctx context.Context) (*Session, error) {
	token, ok := TokenFromContext(ctx)
	if !ok {
		return nil, nil
	}

	claims, err := ParseToken(token, m.secretKey)
	if err != nil {
		return nil, nil
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("revocation check: %w", err)
		}
		if revoked {
			return nil, nil
		}
	}

	return &Session{AccountID: claims.AccountID}, nil
}

// Revoke invalidates token until its expiry. Expired tokens need no
// revocation and are accepted silently.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	claims, err := ParseToken(token, m.secretKey)
	if errors.Is(err, common.ErrTokenExpired) {
		return nil
	}
	if err != nil {
		return err
	}
	if m.revoked == nil {
		return nil
	}

	ttl := claims.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	return m.revoked.Revoke(ctx, claims.ID, ttl)
}
