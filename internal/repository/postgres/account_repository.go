package postgres

import (
	"context"

	"github.com/stemsi/academic-records/internal/model"
)

var accountSelect = `SELECT ` + accountColumns("a") + ` FROM accounts a`

// AccountRepository handles account data access.
type AccountRepository struct {
	db DBTX
}

// Create inserts an account and fills its id and join timestamp.
func (r *AccountRepository) Create(ctx context.Context, a *model.Account) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO accounts (username, email, first_name, last_name, password_hash, is_active, is_staff, is_superuser)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, date_joined`,
		a.Username, a.Email, a.FirstName, a.LastName, a.PasswordHash, a.IsActive, a.IsStaff, a.IsSuperuser,
	).Scan(&a.ID, &a.DateJoined)
	return translate(err)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int) (*model.Account, error) {
	return queryOne(ctx, r.db, accountDest, accountSelect+` WHERE a.id = $1`, id)
}

// GetByUsername retrieves an account by its exact username.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	return queryOne(ctx, r.db, accountDest, accountSelect+` WHERE a.username = $1`, username)
}

// GetByEmail retrieves an account by its exact email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return queryOne(ctx, r.db, accountDest, accountSelect+` WHERE a.email = $1`, email)
}

func (r *AccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE username = $1)`, username).Scan(&exists)
	return exists, translate(err)
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists)
	return exists, translate(err)
}
