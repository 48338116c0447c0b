package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Priyanshux26/Gym-management-system/internal/domain"
)

// FindUserByUsername implements domain.UserRepository.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	found := true
	err := s.withConn(ctx, "find_user", func(ctx context.Context, conn *sql.Conn) error {
		err := conn.QueryRowContext(ctx, `SELECT id, username, password_hash, role FROM users WHERE username = ?`, username).
			Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)
		if errors.Is(err, sql.ErrNoRows) {
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
	const stmt = `INSERT INTO users (username, password_hash, role) VALUES (?,?,?)
        ON CONFLICT (username) DO UPDATE SET password_hash = excluded.password_hash, role = excluded.role
        RETURNING id`

	err := s.withConn(ctx, "upsert_user", func(ctx context.Context, conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, stmt, u.Username, u.PasswordHash, u.Role).Scan(&u.ID)
	})
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
