package handlers

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/session"
)

const (
	actingID = "11111111-1111-4111-8111-111111111111"
	otherID  = "22222222-2222-4222-8222-222222222222"
	entityID = "33333333-3333-4333-8333-333333333333"
	fieldID  = "44444444-4444-4444-8444-444444444444"
)

type fakeSessions struct {
	s   *session.Session
	err error
}

func (f *fakeSessions) GetSession(context.Context) (*session.Session, error) {
	return f.s, f.err
}

func signedIn() *fakeSessions { return &fakeSessions{s: &session.Session{AccountID: actingID}} }
func anonymous() *fakeSessions { return &fakeSessions{} }

type fakeAccounts struct {
	calls     int
	lastID    string
	lastPatch models.AccountPatch
	out       *models.Account
	err       error
}

func (f *fakeAccounts) CreateOrGet(_ context.Context, email, name, provider, providerAccountID string, thumbnail *string) (*models.Account, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	f.calls++
	f.lastID = id
	return f.out, f.err
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	f.calls++
	return f.out, f.err
}

func (f *fakeAccounts) Update(_ context.Context, id string, patch models.AccountPatch) (*models.Account, error) {
	f.calls++
	f.lastID = id
	f.lastPatch = patch
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

type fakeTemplates struct {
	calls      int
	lastOwner  string
	lastFilter models.TemplateFilter
	out        *models.Template
	list       []models.Template
	err        error
}

func (f *fakeTemplates) Create(_ context.Context, ownerID, name string, fields []models.FieldInput) (*models.Template, error) {
	f.calls++
	f.lastOwner = ownerID
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func (f *fakeTemplates) GetByID(context.Context, string) (*models.Template, error) {
	f.calls++
	return f.out, f.err
}

func (f *fakeTemplates) List(_ context.Context, filter models.TemplateFilter) ([]models.Template, error) {
	f.calls++
	f.lastFilter = filter
	return f.list, f.err
}

func (f *fakeTemplates) Update(_ context.Context, id, ownerID string, patch models.TemplatePatch) (*models.Template, error) {
	f.calls++
	f.lastOwner = ownerID
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func (f *fakeTemplates) Delete(_ context.Context, id, ownerID string) error {
	f.calls++
	f.lastOwner = ownerID
	return f.err
}

type fakeNotes struct {
	calls      int
	lastOwner  string
	lastInput  models.NoteInput
	lastFilter models.NoteFilter
	out        *models.Note
	list       []models.Note
	err        error
}

func (f *fakeNotes) Create(_ context.Context, ownerID string, in models.NoteInput) (*models.Note, error) {
	f.calls++
	f.lastOwner = ownerID
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func (f *fakeNotes) GetByID(context.Context, string) (*models.Note, error) {
	f.calls++
	return f.out, f.err
}

func (f *fakeNotes) List(_ context.Context, filter models.NoteFilter) ([]models.Note, error) {
	f.calls++
	f.lastFilter = filter
	return f.list, f.err
}

func (f *fakeNotes) Update(_ context.Context, id, ownerID string, patch models.NotePatch) (*models.Note, error) {
	f.calls++
	f.lastOwner = ownerID
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func (f *fakeNotes) Publish(_ context.Context, id, ownerID string) (*models.Note, error) {
	f.calls++
	f.lastOwner = ownerID
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func (f *fakeNotes) Unpublish(_ context.Context, id, ownerID string) (*models.Note, error) {
	f.calls++
	f.lastOwner = ownerID
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func (f *fakeNotes) Delete(_ context.Context, id, ownerID string) error {
	f.calls++
	f.lastOwner = ownerID
	return f.err
}

type fakeThumbnails struct {
	calls int
	out   *models.ThumbnailUpload
	err   error
}

func (f *fakeThumbnails) PresignUpload(context.Context, string) (*models.ThumbnailUpload, error) {
	f.calls++
	return f.out, f.err
}

type fixture struct {
	accounts   *fakeAccounts
	templates  *fakeTemplates
	notes      *fakeNotes
	thumbnails *fakeThumbnails
}

func newFixture() *fixture {
	return &fixture{
		accounts:   &fakeAccounts{out: &models.Account{ID: actingID}},
		templates:  &fakeTemplates{out: &models.Template{ID: entityID}},
		notes:      &fakeNotes{out: &models.Note{ID: entityID}},
		thumbnails: &fakeThumbnails{out: &models.ThumbnailUpload{Key: "k"}},
	}
}

func (f *fixture) services() Services {
	return Services{Accounts: f.accounts, Templates: f.templates, Notes: f.notes, Thumbnails: f.thumbnails}
}

func (f *fixture) commands(s session.Provider) *Commands {
	return NewCommands(f.services(), s, logging.Discard())
}

func (f *fixture) queries(s session.Provider) *Queries {
	return NewQueries(f.services(), s, logging.Discard())
}

func (f *fixture) totalCalls() int {
	return f.accounts.calls + f.templates.calls + f.notes.calls + f.thumbnails.calls
}
