package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/templates"
)

const selectNotes = `
	SELECT n.id, n.title, n.template_id, n.template_name, n.owner_id,
		n.owner_first_name, n.owner_last_name, n.owner_thumbnail,
		n.status, n.created_at, n.updated_at
	FROM notes n`

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, ownerID string, in models.NoteInput) (*models.Note, error) {
	var out *models.Note

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		templateName, owner, err := snapshotSource(ctx, tx, in.TemplateID, ownerID)
		if err != nil {
			return err
		}
		fields, err := templates.LoadFields(ctx, tx, []string{in.TemplateID})
		if err != nil {
			return err
		}
		sections, err := models.BuildSections(fields[in.TemplateID], in.Sections, uuid.NewString)
		if err != nil {
			return err
		}

		n := &models.Note{
			ID:           uuid.NewString(),
			Title:        in.Title,
			TemplateID:   in.TemplateID,
			TemplateName: templateName,
			OwnerID:      ownerID,
			Owner:        owner,
			Status:       models.StatusDraft,
			Sections:     sections,
		}

		query := `
			INSERT INTO notes (id, title, template_id, template_name, owner_id,
				owner_first_name, owner_last_name, owner_thumbnail, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING created_at, updated_at`
		err = tx.QueryRowContext(ctx, query, n.ID, n.Title, n.TemplateID, n.TemplateName, n.OwnerID,
			owner.FirstName, owner.LastName, owner.Thumbnail, string(n.Status)).Scan(&n.CreatedAt, &n.UpdatedAt)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		if err := upsertSections(ctx, tx, n.ID, sections); err != nil {
			return err
		}
		n.Normalize()
		out = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	return getNote(ctx, r.db, id, false)
}

func (r *PostgresRepository) List(ctx context.Context, filter models.NoteFilter) ([]models.Note, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Status != nil {
		add("n.status = $%d", string(*filter.Status))
	}
	if filter.TemplateID != nil {
		add("n.template_id = $%d", *filter.TemplateID)
	}
	if filter.OwnerID != nil {
		add("n.owner_id = $%d", *filter.OwnerID)
	}
	if filter.Q != nil && *filter.Q != "" {
		add("n.title ILIKE $%d", dbx.ContainsPattern(*filter.Q))
	}

	query := selectNotes
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY n.updated_at DESC, n.id"
	if filter.Page != nil {
		args = append(args, models.PageSize, models.Offset(*filter.Page))
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(result) == 0 {
		return result, nil
	}

	ids := make([]string, len(result))
	for i, n := range result {
		ids[i] = n.ID
	}
	sections, err := loadSections(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Sections = sections[result[i].ID]
		result[i].Normalize()
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, ownerID string, patch models.NotePatch) (*models.Note, error) {
	var out *models.Note

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		cur, err := lockOwned(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}
		templateName, owner, err := snapshotSource(ctx, tx, cur.TemplateID, ownerID)
		if err != nil {
			return err
		}
		fields, err := templates.LoadFields(ctx, tx, []string{cur.TemplateID})
		if err != nil {
			return err
		}
		merged, err := models.MergeSections(cur.Sections, fields[cur.TemplateID], patch.Sections, uuid.NewString)
		if err != nil {
			return err
		}

		query := `
			UPDATE notes SET
				title = COALESCE($2, title),
				template_name = $3,
				owner_first_name = $4,
				owner_last_name = $5,
				owner_thumbnail = $6,
				updated_at = now()
			WHERE id = $1`
		_, err = tx.ExecContext(ctx, query, id, patch.Title, templateName, owner.FirstName, owner.LastName, owner.Thumbnail)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if err := upsertSections(ctx, tx, id, merged); err != nil {
			return err
		}

		out, err = getNote(ctx, tx, id, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id, ownerID string, target models.NoteStatus) (*models.Note, error) {
	var out *models.Note

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		cur, err := lockOwned(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}
		next, err := cur.Status.Transition(target)
		if err != nil {
			return err
		}
		if next == cur.Status {
			out = cur
			return nil
		}

		query := `UPDATE notes SET status = $2, updated_at = now() WHERE id = $1`
		if _, err := tx.ExecContext(ctx, query, id, string(next)); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		out, err = getNote(ctx, tx, id, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := lockOwned(ctx, tx, id, ownerID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

// snapshotSource reads the values copied into a note: the template name and
// the owner summary. The template row is share-locked so its field set
// cannot change until the transaction ends.
func snapshotSource(ctx context.Context, tx dbx.DBTX, templateID, ownerID string) (string, models.Owner, error) {
	query := `
		SELECT t.name, a.first_name, a.last_name, a.thumbnail
		FROM templates t, accounts a
		WHERE t.id = $1 AND a.id = $2
		FOR SHARE OF t`

	var (
		name      string
		owner     = models.Owner{ID: ownerID}
		thumbnail sql.NullString
	)
	err := tx.QueryRowContext(ctx, query, templateID, ownerID).Scan(&name, &owner.FirstName, &owner.LastName, &thumbnail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", owner, fmt.Errorf("template %s or owner %s: %w", templateID, ownerID, common.ErrorNotFound)
		}
		return "", owner, fmt.Errorf("db error: %w", err)
	}
	if thumbnail.Valid {
		owner.Thumbnail = &thumbnail.String
	}
	return name, owner, nil
}

func lockOwned(ctx context.Context, tx dbx.DBTX, id, ownerID string) (*models.Note, error) {
	cur, err := getNote(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if cur.OwnerID != ownerID {
		return nil, common.NewForbidden("Can only modify your own note")
	}
	return cur, nil
}

func getNote(ctx context.Context, q dbx.DBTX, id string, forUpdate bool) (*models.Note, error) {
	query := selectNotes + ` WHERE n.id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	n, err := scanNote(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	sections, err := loadSections(ctx, q, []string{id})
	if err != nil {
		return nil, err
	}
	n.Sections = sections[id]
	n.Normalize()
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	var (
		n         models.Note
		status    string
		thumbnail sql.NullString
	)
	err := s.Scan(&n.ID, &n.Title, &n.TemplateID, &n.TemplateName, &n.OwnerID,
		&n.Owner.FirstName, &n.Owner.LastName, &thumbnail,
		&status, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	n.Status = models.NoteStatus(status)
	n.Owner.ID = n.OwnerID
	if thumbnail.Valid {
		n.Owner.Thumbnail = &thumbnail.String
	}
	return &n, nil
}

func loadSections(ctx context.Context, q dbx.DBTX, noteIDs []string) (map[string][]models.Section, error) {
	query := `
		SELECT id, note_id, field_id, field_label, content, is_required
		FROM sections
		WHERE note_id = ANY($1::uuid[])
		ORDER BY note_id, position`

	rows, err := q.QueryContext(ctx, query, noteIDs)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]models.Section, len(noteIDs))
	for rows.Next() {
		var (
			s      models.Section
			noteID string
		)
		if err := rows.Scan(&s.ID, &noteID, &s.FieldID, &s.FieldLabel, &s.Content, &s.IsRequired); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result[noteID] = append(result[noteID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// upsertSections writes sections with their slice index as position.
func upsertSections(ctx context.Context, tx dbx.DBTX, noteID string, sections []models.Section) error {
	query := `
		INSERT INTO sections (id, note_id, field_id, field_label, content, is_required, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			field_label = EXCLUDED.field_label,
			content = EXCLUDED.content,
			is_required = EXCLUDED.is_required,
			position = EXCLUDED.position`

	for i, s := range sections {
		if _, err := tx.ExecContext(ctx, query, s.ID, noteID, s.FieldID, s.FieldLabel, s.Content, s.IsRequired, i); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
