// Package handlers is the command/query surface of gophnotes. Every handler
// validates its request, resolves the acting account from the session and
// makes at most one service call. Transports decode requests and render
// results but hold no rules of their own.
package handlers

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/session"
)

type AccountService interface {
	CreateOrGet(ctx context.Context, email, name, provider, providerAccountID string, thumbnail *string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, id string, patch models.AccountPatch) (*models.Account, error)
}

type TemplateService interface {
	Create(ctx context.Context, ownerID, name string, fields []models.FieldInput) (*models.Template, error)
	GetByID(ctx context.Context, id string) (*models.Template, error)
	List(ctx context.Context, filter models.TemplateFilter) ([]models.Template, error)
	Update(ctx context.Context, id, ownerID string, patch models.TemplatePatch) (*models.Template, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type NoteService interface {
	Create(ctx context.Context, ownerID string, in models.NoteInput) (*models.Note, error)
	GetByID(ctx context.Context, id string) (*models.Note, error)
	List(ctx context.Context, filter models.NoteFilter) ([]models.Note, error)
	Update(ctx context.Context, id, ownerID string, patch models.NotePatch) (*models.Note, error)
	Publish(ctx context.Context, id, ownerID string) (*models.Note, error)
	Unpublish(ctx context.Context, id, ownerID string) (*models.Note, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type ThumbnailService interface {
	PresignUpload(ctx context.Context, accountID string) (*models.ThumbnailUpload, error)
}

// Services groups the domain services the handlers call.
type Services struct {
	Accounts   AccountService
	Templates  TemplateService
	Notes      NoteService
	Thumbnails ThumbnailService
}

// Success acknowledges commands that have no natural result.
type Success struct {
	Success bool `json:"success"`
}

// requireSession returns the acting session or an unauthenticated
// ForbiddenError when the request has none.
func requireSession(ctx context.Context, sessions session.Provider) (*session.Session, error) {
	s, err := sessions.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, common.NewUnauthenticated()
	}
	return s, nil
}

// rewrite turns the template lock signals into the user-facing message.
// Other errors are returned unchanged.
func rewrite(err error) error {
	if common.IsTemplateLocked(err) {
		return &common.MessageError{Message: common.TemplateLockedMessage, Err: err}
	}
	return err
}

// isExpected reports whether err is a domain outcome rather than a fault.
func isExpected(err error) bool {
	for _, target := range []error{
		common.ErrorValidation,
		common.ErrorNotFound,
		common.ErrorForbidden,
		common.ErrorUnauthorized,
		common.ErrTemplateStructureLocked,
		common.ErrTemplateFieldInUse,
		common.ErrTemplateInUse,
		common.ErrSectionFieldMismatch,
		common.ErrNotImplemented,
		context.Canceled,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
