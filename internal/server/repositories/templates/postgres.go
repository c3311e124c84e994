package templates

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
)

const selectTemplates = `
	SELECT t.id, t.name, t.owner_id, t.updated_at,
		EXISTS (SELECT 1 FROM notes n WHERE n.template_id = t.id) AS is_used
	FROM templates t`

// PostgresRepository implements Repository on PostgreSQL. It needs the
// *sql.DB itself to open transactions for mutations.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Template) (*models.Template, error) {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `INSERT INTO templates (id, name, owner_id) VALUES ($1, $2, $3) RETURNING updated_at`
		if err := tx.QueryRowContext(ctx, query, t.ID, t.Name, t.OwnerID).Scan(&t.UpdatedAt); err != nil {
			if dbx.IsForeignKeyViolation(err) {
				return fmt.Errorf("owner %s: %w", t.OwnerID, common.ErrorNotFound)
			}
			return fmt.Errorf("db error: %w", err)
		}
		return upsertFields(ctx, tx, t.ID, t.Fields)
	})
	if err != nil {
		return nil, err
	}

	t.IsUsed = false
	t.Normalize()
	return t, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Template, error) {
	return getTemplate(ctx, r.db, id, false)
}

func (r *PostgresRepository) List(ctx context.Context, filter models.TemplateFilter) ([]models.Template, error) {
	var (
		conds []string
		args  []any
	)
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		conds = append(conds, fmt.Sprintf("t.owner_id = $%d", len(args)))
	}
	if filter.Q != nil && *filter.Q != "" {
		args = append(args, dbx.ContainsPattern(*filter.Q))
		conds = append(conds, fmt.Sprintf("t.name ILIKE $%d", len(args)))
	}

	query := selectTemplates
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY t.updated_at DESC, t.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Template{}
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.OwnerID, &t.UpdatedAt, &t.IsUsed); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(result) == 0 {
		return result, nil
	}

	ids := make([]string, len(result))
	for i, t := range result {
		ids[i] = t.ID
	}
	fields, err := LoadFields(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Fields = fields[result[i].ID]
		result[i].Normalize()
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, ownerID string, patch models.TemplatePatch) (*models.Template, error) {
	var out *models.Template

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		cur, err := lockOwned(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}

		if patch.Fields != nil {
			if cur.IsUsed && models.StructureChanged(cur.Fields, patch.Fields) {
				return common.ErrTemplateStructureLocked
			}
			next := models.ApplyFieldInputs(cur.Fields, patch.Fields, uuid.NewString)
			for _, fieldID := range models.RemovedFields(cur.Fields, next) {
				if _, err := tx.ExecContext(ctx, `DELETE FROM fields WHERE id = $1`, fieldID); err != nil {
					if dbx.IsForeignKeyViolation(err) {
						return fmt.Errorf("field %s: %w", fieldID, common.ErrTemplateFieldInUse)
					}
					return fmt.Errorf("db error: %w", err)
				}
			}
			if err := upsertFields(ctx, tx, id, next); err != nil {
				return err
			}
		}

		query := `UPDATE templates SET name = COALESCE($2, name), updated_at = now() WHERE id = $1`
		if _, err := tx.ExecContext(ctx, query, id, patch.Name); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		out, err = getTemplate(ctx, tx, id, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		cur, err := lockOwned(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}
		if cur.IsUsed {
			return common.ErrTemplateInUse
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id); err != nil {
			if dbx.IsForeignKeyViolation(err) {
				return common.ErrTemplateInUse
			}
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

// lockOwned loads the template row FOR UPDATE and checks its owner.
func lockOwned(ctx context.Context, tx dbx.DBTX, id, ownerID string) (*models.Template, error) {
	cur, err := getTemplate(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if cur.OwnerID != ownerID {
		return nil, common.NewForbidden("Can only modify your own template")
	}
	return cur, nil
}

func getTemplate(ctx context.Context, q dbx.DBTX, id string, forUpdate bool) (*models.Template, error) {
	query := selectTemplates + ` WHERE t.id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF t`
	}

	var t models.Template
	err := q.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.OwnerID, &t.UpdatedAt, &t.IsUsed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	fields, err := LoadFields(ctx, q, []string{id})
	if err != nil {
		return nil, err
	}
	t.Fields = fields[id]
	t.Normalize()
	return &t, nil
}

// LoadFields returns the fields of the given templates keyed by template id,
// each slice ordered by field order.
func LoadFields(ctx context.Context, q dbx.DBTX, templateIDs []string) (map[string][]models.Field, error) {
	query := `
		SELECT id, template_id, label, "order", is_required
		FROM fields
		WHERE template_id = ANY($1::uuid[])
		ORDER BY template_id, "order"`

	rows, err := q.QueryContext(ctx, query, templateIDs)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]models.Field, len(templateIDs))
	for rows.Next() {
		var (
			f          models.Field
			templateID string
		)
		if err := rows.Scan(&f.ID, &templateID, &f.Label, &f.Order, &f.IsRequired); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result[templateID] = append(result[templateID], f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// upsertFields writes fields in order. The (template_id, order) constraint
// is deferred, so reordering within one transaction is allowed.
func upsertFields(ctx context.Context, tx dbx.DBTX, templateID string, fields []models.Field) error {
	query := `
		INSERT INTO fields (id, template_id, label, "order", is_required)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			label = EXCLUDED.label,
			"order" = EXCLUDED."order",
			is_required = EXCLUDED.is_required`

	for _, f := range fields {
		if _, err := tx.ExecContext(ctx, query, f.ID, templateID, f.Label, f.Order, f.IsRequired); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
