package postgres

import (
	"context"

	"github.com/stemsi/academic-records/internal/model"
)

// TokenRepository handles auth token data access.
type TokenRepository struct {
	db DBTX
}

func tokenDest(t *model.Token) []any {
	return []any{&t.Key, &t.AccountID, &t.CreatedAt}
}

// GetOrCreate inserts candidateKey unless the account already holds a token,
// then returns whichever token is stored.
func (r *TokenRepository) GetOrCreate(ctx context.Context, accountID int, candidateKey string) (*model.Token, error) {
	if _, err := r.db.Exec(ctx,
		`INSERT INTO auth_tokens (key, account_id) VALUES ($1, $2)
		 ON CONFLICT (account_id) DO NOTHING`,
		candidateKey, accountID,
	); err != nil {
		return nil, translate(err)
	}
	return r.GetByAccountID(ctx, accountID)
}

func (r *TokenRepository) GetByKey(ctx context.Context, key string) (*model.Token, error) {
	return queryOne(ctx, r.db, tokenDest,
		`SELECT key, account_id, created_at FROM auth_tokens WHERE key = $1`, key)
}

func (r *TokenRepository) GetByAccountID(ctx context.Context, accountID int) (*model.Token, error) {
	return queryOne(ctx, r.db, tokenDest,
		`SELECT key, account_id, created_at FROM auth_tokens WHERE account_id = $1`, accountID)
}

// Delete revokes a token. Unknown keys yield repository.ErrNotFound.
func (r *TokenRepository) Delete(ctx context.Context, key string) error {
	return requireRow(r.db.Exec(ctx, `DELETE FROM auth_tokens WHERE key = $1`, key))
}
