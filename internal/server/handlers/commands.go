package handlers

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/schema"
	"github.com/dmitrijs2005/gophnotes/internal/server/session"
)

// Commands is the write path.
type Commands struct {
	services Services
	sessions session.Provider
	logger   logging.Logger
}

func NewCommands(services Services, sessions session.Provider, l logging.Logger) *Commands {
	return &Commands{
		services: services,
		sessions: sessions,
		logger:   l.With("module", "commands"),
	}
}

// fail logs unexpected errors and applies the user-facing rewrite.
func (c *Commands) fail(ctx context.Context, op string, err error) error {
	if !isExpected(err) {
		c.logger.Error(ctx, "command failed", "op", op, "error", err)
	}
	return rewrite(err)
}

// CreateOrGetAccount is called by the identity provider callback and needs
// no session.
func (c *Commands) CreateOrGetAccount(ctx context.Context, req *schema.CreateOrGetAccountRequest) (*models.Account, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}

	acc, err := c.services.Accounts.CreateOrGet(ctx, req.Email, req.Name, req.Provider, req.ProviderAccountID, req.Thumbnail)
	if err != nil {
		return nil, c.fail(ctx, "CreateOrGetAccount", err)
	}

	c.logger.Info(ctx, "Account signed in", "account_id", acc.ID, "provider", req.Provider)
	return acc, nil
}

func (c *Commands) UpdateAccount(ctx context.Context, req *schema.UpdateAccountRequest) (*models.Account, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	s, err := requireSession(ctx, c.sessions)
	if err != nil {
		return nil, err
	}
	if req.ID != s.AccountID {
		return nil, common.NewForbidden("Can only update your own account")
	}

	acc, err := c.services.Accounts.Update(ctx, req.ID, req.Patch())
	if err != nil {
		return nil, c.fail(ctx, "UpdateAccount", err)
	}

	c.logger.Info(ctx, "Account updated", "account_id", acc.ID)
	return acc, nil
}

// RequestThumbnailUpload returns a presigned URL for the acting account's
// new thumbnail.
func (c *Commands) RequestThumbnailUpload(ctx context.Context, req *schema.RequestThumbnailUploadRequest) (*models.ThumbnailUpload, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	s, err := requireSession(ctx, c.sessions)
	if err != nil {
		return nil, err
	}

	up, err := c.services.Thumbnails.PresignUpload(ctx, s.AccountID)
	if err != nil {
		return nil, c.fail(ctx, "RequestThumbnailUpload", err)
	}

	c.logger.Info(ctx, "Thumbnail upload presigned", "account_id", s.AccountID, "key", up.Key)
	return up, nil
}

func (c *Commands) CreateTemplate(ctx context.Context, req *schema.CreateTemplateRequest) (*models.Template, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	s, err := requireSession(ctx, c.sessions)
	if err != nil {
		return nil, err
	}

	t, err := c.services.Templates.Create(ctx, s.AccountID, req.Name, req.Inputs())
	if err != nil {
		return nil, c.fail(ctx, "CreateTemplate", err)
	}

	c.logger.Info(ctx, "Template created", "template_id", t.ID, "owner_id", s.AccountID)
	return t, nil
}

func (c *Commands) UpdateTemplate(ctx context.Context, req *schema.UpdateTemplateRequest) (*models.Template, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	s, err := requireSession(ctx, c.sessions)
	if err != nil {
		return nil, err
	}

	t, err := c.services.Templates.Update(ctx, req.ID, s.AccountID, req.Patch())
	if err != nil {
		return nil, c.fail(ctx, "UpdateTemplate", err)
	}

	c.logger.Info(ctx, "Template updated", "template_id", t.ID, "owner_id", s.AccountID)
	return t, nil
}

func (c *Commands) DeleteTemplate(ctx context.Context, req *schema.DeleteTemplateRequest) (*Success, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	s, err := requireSession(ctx, c.sessions)
	if err != nil {
		return nil, err
	}

	if err := c.services.Templates.Delete(ctx, req.ID, s.AccountID); err != nil {
		return nil, c.fail(ctx, "DeleteTemplate", err)
	}

	c.logger.Info(ctx, "Template deleted", "template_id", req.ID, "owner_id", s.AccountID)
	return &Success{Success: true}, nil
}

func (c *Commands) CreateNote(ctx context.Context, req *schema.CreateNoteRequest) (*models.Note, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	s, err := requireSession(ctx, c.sessions)
	if err != nil {
		return nil, err
	}

	n, err := c.services.Notes.Create(ctx, s.AccountID, req.Input())
	if err != nil {
		return nil, c.fail(ctx, "CreateNote", err)
	}

	c.logger.Info(ctx, "Note created", "note_id", n.ID, "template_id", n.TemplateID, "owner_id", s.AccountID)
	return n, nil
}

func (c *Commands) UpdateNote(ctx context.Context, req *schema.UpdateNoteRequest) (*models.Note, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	s, err := requireSession(ctx, c.sessions)
	if err != nil {
		return nil, err
	}

	n, err := c.services.Notes.Update(ctx, req.ID, s.AccountID, req.Patch())
	if err != nil {
		return nil, c.fail(ctx, "UpdateNote", err)
	}

	c.logger.Info(ctx, "Note updated", "note_id", n.ID, "owner_id", s.AccountID)
	return n, nil
}

func (c *Commands) PublishNote(ctx context.Context, req *schema.PublishNoteRequest) (*models.Note, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	s, err := requireSession(ctx, c.sessions)
	if err != nil {
		return nil, err
	}

	n, err := c.services.Notes.Publish(ctx, req.ID, s.AccountID)
	if err != nil {
		return nil, c.fail(ctx, "PublishNote", err)
	}

	c.logger.Info(ctx, "Note published", "note_id", n.ID, "owner_id", s.AccountID)
	return n, nil
}

func (c *Commands) UnpublishNote(ctx context.Context, req *schema.UnpublishNoteRequest) (*models.Note, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	s, err := requireSession(ctx, c.sessions)
	if err != nil {
		return nil, err
	}

	n, err := c.services.Notes.Unpublish(ctx, req.ID, s.AccountID)
	if err != nil {
		return nil, c.fail(ctx, "UnpublishNote", err)
	}

	c.logger.Info(ctx, "Note unpublished", "note_id", n.ID, "owner_id", s.AccountID)
	return n, nil
}

func (c *Commands) DeleteNote(ctx context.Context, req *schema.DeleteNoteRequest) (*Success, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	s, err := requireSession(ctx, c.sessions)
	if err != nil {
		return nil, err
	}

	if err := c.services.Notes.Delete(ctx, req.ID, s.AccountID); err != nil {
		return nil, c.fail(ctx, "DeleteNote", err)
	}

	c.logger.Info(ctx, "Note deleted", "note_id", req.ID, "owner_id", s.AccountID)
	return &Success{Success: true}, nil
}
