package handlers

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/schema"
	"github.com/dmitrijs2005/gophnotes/internal/server/session"
)

// Queries is the read path. Lookups of missing entities return nil without
// an error.
type Queries struct {
	services Services
	sessions session.Provider
	logger   logging.Logger
}

func NewQueries(services Services, sessions session.Provider, l logging.Logger) *Queries {
	return &Queries{
		services: services,
		sessions: sessions,
		logger:   l.With("module", "queries"),
	}
}

// GetCurrentAccount returns the acting account, or nil for anonymous
// requests.
func (q *Queries) GetCurrentAccount(ctx context.Context) (*models.Account, error) {
	s, err := q.sessions.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		q.logger.Debug(ctx, "No session for current account")
		return nil, nil
	}
	return q.services.Accounts.GetByID(ctx, s.AccountID)
}

func (q *Queries) GetAccountByID(ctx context.Context, req *schema.GetAccountByIDRequest) (*models.Account, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	q.logger.Debug(ctx, "Get account", "account_id", req.ID)
	return q.services.Accounts.GetByID(ctx, req.ID)
}

func (q *Queries) GetAccountByEmail(ctx context.Context, req *schema.GetAccountByEmailRequest) (*models.Account, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	return q.services.Accounts.GetByEmail(ctx, req.Email)
}

func (q *Queries) GetTemplateByID(ctx context.Context, req *schema.GetTemplateByIDRequest) (*models.Template, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	q.logger.Debug(ctx, "Get template", "template_id", req.ID)
	return q.services.Templates.GetByID(ctx, req.ID)
}

// ListTemplates lists templates of every owner. With OnlyMyTemplates set the
// acting account replaces any supplied owner filter.
func (q *Queries) ListTemplates(ctx context.Context, req *schema.ListTemplatesRequest) ([]models.Template, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	s, err := requireSession(ctx, q.sessions)
	if err != nil {
		return nil, err
	}

	filter := models.TemplateFilter{OwnerID: req.OwnerID, Q: req.Q}
	if req.OnlyMyTemplates != nil && *req.OnlyMyTemplates {
		filter.OwnerID = &s.AccountID
	}

	q.logger.Debug(ctx, "List templates", "owner_id", filter.OwnerID)
	return q.services.Templates.List(ctx, filter)
}

func (q *Queries) ListMyTemplates(ctx context.Context, req *schema.ListMyTemplatesRequest) ([]models.Template, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	s, err := requireSession(ctx, q.sessions)
	if err != nil {
		return nil, err
	}
	return q.services.Templates.List(ctx, models.TemplateFilter{OwnerID: &s.AccountID, Q: req.Q})
}

// GetNoteByID returns the note regardless of status or owner; any signed-in
// account may open a draft by id.
func (q *Queries) GetNoteByID(ctx context.Context, req *schema.GetNoteByIDRequest) (*models.Note, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	if _, err := requireSession(ctx, q.sessions); err != nil {
		return nil, err
	}
	q.logger.Debug(ctx, "Get note", "note_id", req.ID)
	return q.services.Notes.GetByID(ctx, req.ID)
}

// ListNotes is the shared listing. Only published notes are visible unless
// the owner filter names the acting account.
func (q *Queries) ListNotes(ctx context.Context, req *schema.ListNotesRequest) ([]models.Note, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	s, err := requireSession(ctx, q.sessions)
	if err != nil {
		return nil, err
	}

	filter := models.NoteFilter{
		Status:     req.Status,
		TemplateID: req.TemplateID,
		Q:          req.Q,
		OwnerID:    req.OwnerID,
		Page:       req.Page,
	}
	if filter.OwnerID == nil || *filter.OwnerID != s.AccountID {
		published := models.StatusPublish
		filter.Status = &published
	}

	q.logger.Debug(ctx, "List notes", "owner_id", filter.OwnerID, "status", filter.Status)
	return q.services.Notes.List(ctx, filter)
}

// ListMyNotes lists the acting account's notes in any status.
func (q *Queries) ListMyNotes(ctx context.Context, req *schema.ListMyNotesRequest) ([]models.Note, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	s, err := requireSession(ctx, q.sessions)
	if err != nil {
		return nil, err
	}

	return q.services.Notes.List(ctx, models.NoteFilter{
		Status:     req.Status,
		TemplateID: req.TemplateID,
		Q:          req.Q,
		OwnerID:    &s.AccountID,
		Page:       req.Page,
	})
}
