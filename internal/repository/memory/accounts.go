package memory

import (
	"context"
	"errors"

	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/repository"
)

type accountRepo struct{ s *Store }

func (r *accountRepo) Create(_ context.Context, a *model.Account) error {
	return r.s.write(func(d *data) error {
		for _, existing := range d.accounts {
			if existing.Username == a.Username {
				return duplicate(repository.FieldUsername, "accounts_username_key")
			}
			if existing.Email == a.Email {
				return duplicate(repository.FieldEmail, "accounts_email_key")
			}
		}
		d.nextAccount++
		a.ID = d.nextAccount
		a.DateJoined = r.s.now()
		d.accounts[a.ID] = *a
		return nil
	})
}

func (r *accountRepo) find(match func(model.Account) bool) (*model.Account, error) {
	var found *model.Account
	err := r.s.read(func(d *data) error {
		for _, a := range d.accounts {
			if match(a) {
				found = &a
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return found, err
}

func (r *accountRepo) GetByID(_ context.Context, id int) (*model.Account, error) {
	return r.find(func(a model.Account) bool { return a.ID == id })
}

func (r *accountRepo) GetByUsername(_ context.Context, username string) (*model.Account, error) {
	return r.find(func(a model.Account) bool { return a.Username == username })
}

func (r *accountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	return r.find(func(a model.Account) bool { return a.Email == email })
}

func (r *accountRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return exists(err)
}

func (r *accountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return exists(err)
}

// exists folds a lookup error into a presence flag.
func exists(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	}
	return false, err
}

type tokenRepo struct{ s *Store }

func (r *tokenRepo) GetOrCreate(_ context.Context, accountID int, candidateKey string) (*model.Token, error) {
	var tok model.Token
	err := r.s.write(func(d *data) error {
		for _, t := range d.tokens {
			if t.AccountID == accountID {
				tok = t
				return nil
			}
		}
		if _, ok := d.accounts[accountID]; !ok {
			return repository.ErrMissingReference
		}
		if _, taken := d.tokens[candidateKey]; taken {
			return duplicate("key", "auth_tokens_pkey")
		}
		tok = model.Token{Key: candidateKey, AccountID: accountID, CreatedAt: r.s.now()}
		d.tokens[candidateKey] = tok
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

func (r *tokenRepo) GetByKey(_ context.Context, key string) (*model.Token, error) {
	var tok model.Token
	err := r.s.read(func(d *data) error {
		t, ok := d.tokens[key]
		if !ok {
			return repository.ErrNotFound
		}
		tok = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

func (r *tokenRepo) GetByAccountID(_ context.Context, accountID int) (*model.Token, error) {
	var found *model.Token
	err := r.s.read(func(d *data) error {
		for _, t := range d.tokens {
			if t.AccountID == accountID {
				found = &t
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return found, err
}

func (r *tokenRepo) Delete(_ context.Context, key string) error {
	return r.s.write(func(d *data) error {
		if _, ok := d.tokens[key]; !ok {
			return repository.ErrNotFound
		}
		delete(d.tokens, key)
		return nil
	})
}
