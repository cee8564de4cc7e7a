// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/routeboard/auth"
	"github.com/danielhkuo/routeboard/models"
	"github.com/danielhkuo/routeboard/validation"
)

const msgUsernameTaken = "A user with that username already exists."

type userInput struct {
	Username string `json:"username" validate:"required,max=150,printascii"`
	Password string `json:"password" validate:"required,min=8"`
}

// CreateUser registers a new user with a bcrypt-hashed password
func (s *Store) CreateUser(ctx context.Context, src validation.Source) (models.User, error) {
	var errs validation.Errors
	var in userInput
	if v := validation.String(src, "username"); v != nil {
		in.Username = *v
	}
	if v, ok := src.Lookup("password"); ok {
		in.Password = v
	}
	if strings.ContainsAny(in.Username, " \t") {
		errs.Add("username", "Username may not contain spaces.")
	}
	validation.Struct(&in, &errs)
	if !errs.Has("password") && len(in.Password) > auth.MaxPasswordBytes {
		errs.Add("password", fmt.Sprintf("Ensure this field has no more than %d bytes.", auth.MaxPasswordBytes))
	}

	if !errs.Has("username") {
		_, err := s.UserByUsername(ctx, in.Username)
		if err == nil {
			errs.Add("username", msgUsernameTaken)
		} else if !errors.Is(err, ErrNotFound) {
			return models.User{}, err
		}
	}
	if err := errs.Err(); err != nil {
		return models.User{}, err
	}

	id, err := auth.NewID()
	if err != nil {
		return models.User{}, err
	}
	hash, err := auth.HashPassword(in.Password, s.passwordCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           id,
		Username:     in.Username,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO app_user (id, username, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`), user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	if isUniqueViolation(err) {
		// lost a race with a concurrent registration of the same name
		errs.Add("username", msgUsernameTaken)
		return models.User{}, errs.Err()
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, s.db.Rebind(`
		SELECT id, username, password_hash, created_at FROM app_user WHERE username = ?
	`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return user, ErrNotFound
	}
	if err != nil {
		return user, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, s.db.Rebind(`
		SELECT id, username, password_hash, created_at FROM app_user WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return user, ErrNotFound
	}
	if err != nil {
		return user, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user matching the credentials, or
// auth.ErrInvalidCredentials without revealing which part was wrong
func (s *Store) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.UserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return models.User{}, auth.ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return models.User{}, err
	}
	return user, nil
}
