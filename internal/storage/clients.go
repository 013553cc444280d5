package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
)

const (
	RoleClient   = "CLIENT"
	RoleEmployee = "EMPLOYEE"

	defaultClientName = "Client"
)

// ResolveClient implements get-or-create keyed on phone number. Defaults are
// applied only on creation; an existing record is returned unchanged. A blank
// phone gets a synthetic placeholder so the row is not blocked, and the
// resolution flags it for the import report.
func (s *PVZStorage) ResolveClient(ctx context.Context, phone, fullName, email string) (*Client, ClientResolution, error) {
	var res ClientResolution

	phone = strings.TrimSpace(phone)
	if phone == "" {
		phone = placeholderPhone(s.now())
		res.PlaceholderPhone = true
	}

	existing, err := s.repos.Users.GetByPhone(ctx, phone)
	if err == nil {
		return toDomainClient(existing), res, nil
	}
	if !errors.Is(err, repository.ErrObjectNotFound) {
		return nil, res, err
	}

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		fullName = defaultClientName
	}

	id, err := s.repos.Users.Create(ctx, &repository.User{
		Phone:    phone,
		FullName: fullName,
		Email:    optString(email),
		Role:     RoleClient,
	})
	if err != nil {
		return nil, res, fmt.Errorf("failed to create client: %w", err)
	}
	if id == 0 {
		// Lost the insert race: somebody created this phone concurrently.
		existing, err := s.repos.Users.GetByPhone(ctx, phone)
		if err != nil {
			return nil, res, err
		}
		return toDomainClient(existing), res, nil
	}

	res.Created = true
	s.logger.Info("client created",
		zap.Int64("client_id", id),
		zap.String("phone", phone),
		zap.Bool("placeholder_phone", res.PlaceholderPhone))

	return &Client{ID: id, Phone: phone, FullName: fullName, Email: optString(email), Role: RoleClient}, res, nil
}

func (s *PVZStorage) GetUser(ctx context.Context, id int64) (*Client, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDomainClient(user), nil
}

// GetUserByPhone returns the raw user row including the password hash; the
// server layer needs it for login checks.
func (s *PVZStorage) GetUserByPhone(ctx context.Context, phone string) (*repository.User, error) {
	return s.repos.Users.GetByPhone(ctx, phone)
}

func placeholderPhone(now time.Time) string {
	return "+7" + now.Format("060102150405")
}

func toDomainClient(u *repository.User) *Client {
	return &Client{
		ID:       u.ID,
		Phone:    u.Phone,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
	}
}
