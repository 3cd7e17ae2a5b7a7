package users

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:userstest?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS users (
  username TEXT PRIMARY KEY,
  salt     BLOB NOT NULL,
  verifier BLOB NOT NULL,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM users`)
	require.NoError(t, err)
	return db
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	cred := &models.UserCredential{
		Username: "alice",
		Salt:     []byte{1, 2, 3, 4},
		Verifier: []byte{5, 6, 7, 8},
	}
	require.NoError(t, repo.Create(ctx, cred))

	got, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, cred.Username, got.Username)
	assert.Equal(t, cred.Salt, got.Salt)
	assert.Equal(t, cred.Verifier, got.Verifier)
}

func TestCreate_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	cred := &models.UserCredential{Username: "alice", Salt: []byte{1}, Verifier: []byte{2}}
	require.NoError(t, repo.Create(ctx, cred))

	err := repo.Create(ctx, cred)
	assert.ErrorIs(t, err, common.ErrDuplicateUser)
}

func TestGet_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	_, err := repo.Get(ctx, "nobody")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}
