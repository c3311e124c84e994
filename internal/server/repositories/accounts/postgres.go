package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

const accountColumns = `id, email, first_name, last_name, thumbnail, last_login_at, is_active,
		provider, provider_account_id, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateOrGet(ctx context.Context, in models.NewAccount) (*models.Account, bool, error) {
	query := `
		INSERT INTO accounts (id, email, first_name, last_name, thumbnail, last_login_at, is_active,
			provider, provider_account_id)
		VALUES ($1, $2, $3, $4, $5, now(), TRUE, $6, $7)
		ON CONFLICT (provider, provider_account_id)
		DO UPDATE SET last_login_at = now(), is_active = TRUE
		RETURNING ` + accountColumns + `, (xmax = 0) AS inserted`

	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), in.Email, in.FirstName, in.LastName, in.Thumbnail, in.Provider, in.ProviderAccountID)

	var created bool
	acc, err := scanAccount(row, &created)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, false, fmt.Errorf("email %s is linked to another login: %w", in.Email, common.ErrorForbidden)
		}
		return nil, false, fmt.Errorf("db error: %w", err)
	}
	return acc, created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.AccountPatch) (*models.Account, error) {
	query := `
		UPDATE accounts SET
			first_name = COALESCE($2, first_name),
			last_name  = COALESCE($3, last_name),
			thumbnail  = CASE WHEN $5 THEN NULL ELSE COALESCE($4, thumbnail) END,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + accountColumns

	row := r.db.QueryRowContext(ctx, query, id, patch.FirstName, patch.LastName, patch.Thumbnail, patch.ClearThumbnail)
	acc, err := scanAccount(row, nil)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return acc, nil
}

func (r *PostgresRepository) DeactivateInactive(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE accounts SET is_active = FALSE, updated_at = now()
		WHERE is_active AND COALESCE(last_login_at, created_at) < $1`

	res, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, arg), nil)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return acc, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

// scanAccount reads accountColumns, plus the inserted flag when it is non-nil.
func scanAccount(row *sql.Row, inserted *bool) (*models.Account, error) {
	var (
		a         models.Account
		thumbnail sql.NullString
		lastLogin sql.NullTime
	)
	dest := []any{
		&a.ID, &a.Email, &a.FirstName, &a.LastName, &thumbnail, &lastLogin, &a.IsActive,
		&a.Provider, &a.ProviderAccountID, &a.CreatedAt, &a.UpdatedAt,
	}
	if inserted != nil {
		dest = append(dest, inserted)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if thumbnail.Valid {
		a.Thumbnail = &thumbnail.String
	}
	if lastLogin.Valid {
		a.LastLoginAt = &lastLogin.Time
	}
	a.Normalize()
	return &a, nil
}
