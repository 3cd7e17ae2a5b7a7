package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/dbx"
	"github.com/dmitrijs2005/mediakeeper/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, username string) (*models.UserCredential, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT username, salt, verifier FROM users WHERE username = ?`, username)

	cred := &models.UserCredential{}
	if err := row.Scan(&cred.Username, &cred.Salt, &cred.Verifier); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return cred, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, cred *models.UserCredential) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, salt, verifier) VALUES (?, ?, ?)`,
		cred.Username, cred.Salt, cred.Verifier)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return common.ErrDuplicateUser
		}
		return fmt.Errorf("failed to create user %q: %w", cred.Username, err)
	}
	return nil
}
