package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Priyanshux26/Gym-management-system/internal/domain"
)

// FindUserByUsername implements domain.UserRepository. Usernames match case-insensitively.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT id, username, password_hash, role FROM users WHERE lower(username) = lower($1)`

	var u domain.User
	found := true
	err := s.withConn(ctx, "find_user", func(ctx context.Context, conn *pgxpool.Conn) error {
		err := conn.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)
		if errors.Is(err, pgx.ErrNoRows) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// UpsertUser implements domain.UserRepository.
func (s *Store) UpsertUser(ctx context.Context, u domain.User) (domain.User, error) {
	const stmt = `INSERT INTO users (username, password_hash, role) VALUES ($1,$2,$3)
        ON CONFLICT (lower(username)) DO UPDATE SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role
        RETURNING id`

	err := s.withConn(ctx, "upsert_user", func(ctx context.Context, conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, stmt, u.Username, u.PasswordHash, u.Role).Scan(&u.ID)
	})
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
