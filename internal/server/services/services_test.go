package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/memory"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

func newMemoryManager() *repomanager.MemoryRepositoryManager {
	return repomanager.NewMemoryRepositoryManager(memory.NewStore())
}

// --- fakes ---

type fakeAccountsRepo struct {
	accounts.Repository
	err error
}

func (f *fakeAccountsRepo) GetByID(context.Context, string) (*models.Account, error) {
	return nil, f.err
}

func (f *fakeAccountsRepo) GetByEmail(context.Context, string) (*models.Account, error) {
	return nil, f.err
}

func (f *fakeAccountsRepo) Update(context.Context, string, models.AccountPatch) (*models.Account, error) {
	return nil, f.err
}

type fakeRepoMgr struct {
	repomanager.RepositoryManager
	accounts accounts.Repository
}

func (f *fakeRepoMgr) Accounts() accounts.Repository { return f.accounts }

func strPtr(s string) *string { return &s }

// --- accounts ---

func TestAccountService_CreateOrGet_SplitsNameAndDedupes(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(newMemoryManager())

	acc, err := svc.CreateOrGet(ctx, "ada@example.com", "Ada King Lovelace", "google", "g-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "Ada", acc.FirstName)
	assert.Equal(t, "King Lovelace", acc.LastName)
	assert.Equal(t, "Ada King Lovelace", acc.FullName)
	assert.Nil(t, acc.Thumbnail)

	again, err := svc.CreateOrGet(ctx, "ada@example.com", "Someone Else", "google", "g-1", strPtr("http://img"))
	require.NoError(t, err)
	assert.Equal(t, acc.ID, again.ID)
	assert.Equal(t, "Ada", again.FirstName)
	assert.Nil(t, again.Thumbnail)
}

func TestAccountService_CreateOrGet_SingleTokenName(t *testing.T) {
	svc := NewAccountService(newMemoryManager())

	acc, err := svc.CreateOrGet(context.Background(), "plato@example.com", "Plato", "github", "1", nil)
	require.NoError(t, err)
	assert.Equal(t, "Plato", acc.FirstName)
	assert.Equal(t, "Plato", acc.LastName)
}

func TestAccountService_NotFoundIsNil(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(newMemoryManager())

	acc, err := svc.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, acc)

	acc, err = svc.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, acc)
}

func TestAccountService_ErrorsPassThrough(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("db down")
	svc := NewAccountService(&fakeRepoMgr{accounts: &fakeAccountsRepo{err: boom}})

	_, err := svc.GetByID(ctx, "x")
	assert.ErrorIs(t, err, boom)
	_, err = svc.GetByEmail(ctx, "x@example.com")
	assert.ErrorIs(t, err, boom)
}

func TestAccountService_Update_NotImplementedSurfaces(t *testing.T) {
	svc := NewAccountService(&fakeRepoMgr{accounts: &fakeAccountsRepo{err: common.ErrNotImplemented}})

	_, err := svc.Update(context.Background(), "x", models.AccountPatch{FirstName: strPtr("A")})
	assert.Same(t, common.ErrNotImplemented, err)
}

func TestAccountService_Update_OnlyProvidedFields(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(newMemoryManager())

	acc, err := svc.CreateOrGet(ctx, "ada@example.com", "Ada Lovelace", "google", "g-1", strPtr("http://old"))
	require.NoError(t, err)

	upd, err := svc.Update(ctx, acc.ID, models.AccountPatch{LastName: strPtr("Byron")})
	require.NoError(t, err)
	assert.Equal(t, "Ada", upd.FirstName)
	assert.Equal(t, "Byron", upd.LastName)
	assert.Equal(t, "Ada Byron", upd.FullName)
	require.NotNil(t, upd.Thumbnail)
	assert.Equal(t, "http://old", *upd.Thumbnail)

	upd, err = svc.Update(ctx, acc.ID, models.AccountPatch{ClearThumbnail: true})
	require.NoError(t, err)
	assert.Nil(t, upd.Thumbnail)
}

func TestAccountService_DeactivateInactive(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(newMemoryManager())

	_, err := svc.CreateOrGet(ctx, "ada@example.com", "Ada Lovelace", "google", "g-1", nil)
	require.NoError(t, err)

	n, err := svc.DeactivateInactive(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.DeactivateInactive(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

// --- templates and notes ---

type world struct {
	accounts  *AccountService
	templates *TemplateService
	notes     *NoteService
	owner     *models.Account
	other     *models.Account
}

func newWorld(t *testing.T) *world {
	t.Helper()
	rm := newMemoryManager()
	w := &world{
		accounts:  NewAccountService(rm),
		templates: NewTemplateService(rm),
		notes:     NewNoteService(rm),
	}
	var err error
	w.owner, err = w.accounts.CreateOrGet(context.Background(), "ada@example.com", "Ada Lovelace", "google", "g-1", nil)
	require.NoError(t, err)
	w.other, err = w.accounts.CreateOrGet(context.Background(), "bob@example.com", "Bob Stone", "google", "g-2", nil)
	require.NoError(t, err)
	return w
}

func (w *world) template(t *testing.T) *models.Template {
	t.Helper()
	tpl, err := w.templates.Create(context.Background(), w.owner.ID, "Daily", []models.FieldInput{
		{Label: "Summary", Order: 1, IsRequired: true},
		{Label: "Body", Order: 2},
	})
	require.NoError(t, err)
	return tpl
}

func TestTemplateService_Create(t *testing.T) {
	w := newWorld(t)
	tpl := w.template(t)

	assert.NotEmpty(t, tpl.ID)
	assert.Equal(t, w.owner.ID, tpl.OwnerID)
	require.Len(t, tpl.Fields, 2)
	assert.Equal(t, "Summary", tpl.Fields[0].Label)
	assert.NotEmpty(t, tpl.Fields[0].ID)
	assert.NotEqual(t, tpl.Fields[0].ID, tpl.Fields[1].ID)
	assert.False(t, tpl.IsUsed)
}

func TestTemplateService_Create_NoFields(t *testing.T) {
	w := newWorld(t)
	_, err := w.templates.Create(context.Background(), w.owner.ID, "Empty", nil)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestTemplateService_GetByID_NotFound(t *testing.T) {
	w := newWorld(t)
	tpl, err := w.templates.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, tpl)
}

func TestTemplateService_List(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	w.template(t)
	_, err := w.templates.Create(ctx, w.other.ID, "Weekly review", []models.FieldInput{{Label: "Wins", Order: 1}})
	require.NoError(t, err)

	all, err := w.templates.List(ctx, models.TemplateFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := w.templates.List(ctx, models.TemplateFilter{OwnerID: &w.owner.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Daily", mine[0].Name)

	found, err := w.templates.List(ctx, models.TemplateFilter{Q: strPtr("REVIEW")})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Weekly review", found[0].Name)

	none, err := w.templates.List(ctx, models.TemplateFilter{Q: strPtr("zzz")})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTemplateService_Update_Forbidden(t *testing.T) {
	w := newWorld(t)
	tpl := w.template(t)

	_, err := w.templates.Update(context.Background(), tpl.ID, w.other.ID, models.TemplatePatch{Name: strPtr("Mine now")})
	assert.ErrorIs(t, err, common.ErrorForbidden)

	err = w.templates.Delete(context.Background(), tpl.ID, w.other.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)
}

func TestTemplateService_Update_EmptyFields(t *testing.T) {
	w := newWorld(t)
	tpl := w.template(t)

	_, err := w.templates.Update(context.Background(), tpl.ID, w.owner.ID, models.TemplatePatch{Fields: []models.FieldInput{}})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestTemplateService_StructureLockRoundTrip(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	tpl := w.template(t)

	// Unused: adding a field is fine.
	added := append(fieldInputsOf(tpl), models.FieldInput{Label: "Mood", Order: 3})
	tpl, err := w.templates.Update(ctx, tpl.ID, w.owner.ID, models.TemplatePatch{Fields: added})
	require.NoError(t, err)
	require.Len(t, tpl.Fields, 3)

	_, err = w.notes.Create(ctx, w.owner.ID, models.NoteInput{Title: "Mon", TemplateID: tpl.ID})
	require.NoError(t, err)

	got, err := w.templates.GetByID(ctx, tpl.ID)
	require.NoError(t, err)
	assert.True(t, got.IsUsed)

	// Used: removing a field is locked.
	_, err = w.templates.Update(ctx, tpl.ID, w.owner.ID, models.TemplatePatch{Fields: fieldInputsOf(tpl)[:2]})
	assert.ErrorIs(t, err, common.ErrTemplateStructureLocked)

	// Used: relabelling keeps the structure.
	relabelled := fieldInputsOf(tpl)
	relabelled[2].Label = "Feeling"
	relabelled[2].IsRequired = true
	upd, err := w.templates.Update(ctx, tpl.ID, w.owner.ID, models.TemplatePatch{Name: strPtr("Daily log"), Fields: relabelled})
	require.NoError(t, err)
	assert.Equal(t, "Daily log", upd.Name)
	assert.Equal(t, "Feeling", upd.Fields[2].Label)

	err = w.templates.Delete(ctx, tpl.ID, w.owner.ID)
	assert.ErrorIs(t, err, common.ErrTemplateInUse)
}

func fieldInputsOf(tpl *models.Template) []models.FieldInput {
	out := make([]models.FieldInput, 0, len(tpl.Fields))
	for _, f := range tpl.Fields {
		out = append(out, models.FieldInput{ID: f.ID, Label: f.Label, Order: f.Order, IsRequired: f.IsRequired})
	}
	return out
}

func TestNoteService_CreateSnapshotsAndDefaults(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	tpl := w.template(t)

	n, err := w.notes.Create(ctx, w.owner.ID, models.NoteInput{
		Title:      "Monday",
		TemplateID: tpl.ID,
		Sections:   []models.SectionInput{{FieldID: tpl.Fields[0].ID, Content: "ok"}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, n.Status)
	assert.Equal(t, "Daily", n.TemplateName)
	assert.Equal(t, "Ada", n.Owner.FirstName)
	require.Len(t, n.Sections, 1)
	assert.Equal(t, "Summary", n.Sections[0].FieldLabel)
	assert.True(t, n.Sections[0].IsRequired)

	empty, err := w.notes.Create(ctx, w.owner.ID, models.NoteInput{Title: "Tuesday", TemplateID: tpl.ID})
	require.NoError(t, err)
	assert.NotNil(t, empty.Sections)
	assert.Empty(t, empty.Sections)
}

func TestNoteService_Create_FieldMismatch(t *testing.T) {
	w := newWorld(t)
	tpl := w.template(t)

	_, err := w.notes.Create(context.Background(), w.owner.ID, models.NoteInput{
		Title:      "Monday",
		TemplateID: tpl.ID,
		Sections:   []models.SectionInput{{FieldID: "not-a-field"}},
	})
	assert.ErrorIs(t, err, common.ErrSectionFieldMismatch)
}

func TestNoteService_PublishUnpublish(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	tpl := w.template(t)

	n, err := w.notes.Create(ctx, w.owner.ID, models.NoteInput{
		Title:      "Monday",
		TemplateID: tpl.ID,
		Sections:   []models.SectionInput{{FieldID: tpl.Fields[1].ID, Content: "text"}},
	})
	require.NoError(t, err)

	pub, err := w.notes.Publish(ctx, n.ID, w.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublish, pub.Status)

	again, err := w.notes.Publish(ctx, n.ID, w.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublish, again.Status)
	assert.Equal(t, pub.UpdatedAt, again.UpdatedAt)

	draft, err := w.notes.Unpublish(ctx, n.ID, w.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, draft.Status)
	assert.Equal(t, n.Sections, draft.Sections)

	_, err = w.notes.Publish(ctx, n.ID, w.other.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)
}

func TestNoteService_UpdateMergesSections(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	tpl := w.template(t)

	n, err := w.notes.Create(ctx, w.owner.ID, models.NoteInput{
		Title:      "Monday",
		TemplateID: tpl.ID,
		Sections:   []models.SectionInput{{FieldID: tpl.Fields[0].ID, Content: "a"}},
	})
	require.NoError(t, err)

	upd, err := w.notes.Update(ctx, n.ID, w.owner.ID, models.NotePatch{
		Title: strPtr("Monday!"),
		Sections: []models.SectionPatch{
			{ID: n.Sections[0].ID, Content: "b"},
			{FieldID: tpl.Fields[1].ID, Content: "c"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Monday!", upd.Title)
	require.Len(t, upd.Sections, 2)
	assert.Equal(t, n.Sections[0].ID, upd.Sections[0].ID)
	assert.Equal(t, "b", upd.Sections[0].Content)
	assert.Equal(t, "c", upd.Sections[1].Content)

	_, err = w.notes.Update(ctx, n.ID, w.other.ID, models.NotePatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, common.ErrorForbidden)
}

func TestNoteService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	tpl := w.template(t)

	n, err := w.notes.Create(ctx, w.owner.ID, models.NoteInput{Title: "Monday", TemplateID: tpl.ID})
	require.NoError(t, err)
	_, err = w.notes.Create(ctx, w.owner.ID, models.NoteInput{Title: "Tuesday", TemplateID: tpl.ID})
	require.NoError(t, err)
	_, err = w.notes.Publish(ctx, n.ID, w.owner.ID)
	require.NoError(t, err)

	published := models.StatusPublish
	list, err := w.notes.List(ctx, models.NoteFilter{Status: &published})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, n.ID, list[0].ID)

	list, err = w.notes.List(ctx, models.NoteFilter{OwnerID: &w.other.ID})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	assert.ErrorIs(t, w.notes.Delete(ctx, n.ID, w.other.ID), common.ErrorForbidden)
	require.NoError(t, w.notes.Delete(ctx, n.ID, w.owner.ID))

	got, err := w.notes.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
