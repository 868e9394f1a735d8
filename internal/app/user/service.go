package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tommy-mor/spare/internal/cache"
	"github.com/tommy-mor/spare/internal/db"
	dom "github.com/tommy-mor/spare/internal/domain/user"
	"github.com/tommy-mor/spare/internal/logging"
)

type Service interface {
	List(ctx context.Context, input ListUsersInput) ([]UserDto, error)
	GetById(ctx context.Context, id string) (*UserDto, error)
	Create(ctx context.Context, input CreateUserInput) (*UserDto, error)
	Update(ctx context.Context, input UpdateUserInput) (*UserDto, error)
	Delete(ctx context.Context, id string) error
}

const (
	defaultUserCacheTTL = 5 * time.Minute
	defaultListLimit    = 50
	maxListLimit        = 100
)

type service struct {
	repo   dom.Repository
	cache  cache.UserCache
	tx     db.Transactor
	events Events
	logger logging.Logger
	now    func() time.Time
}

func NewService(
	repo dom.Repository,
	cache cache.UserCache,
	tx db.Transactor,
	events Events,
	logger logging.Logger,
) Service {
	return &service{
		repo:   repo,
		cache:  cache,
		tx:     tx,
		events: events,
		logger: logger.With("component", "user_service"),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (s *service) List(ctx context.Context, input ListUsersInput) ([]UserDto, error) {
	filter := dom.ListFilter{
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	users, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("list users: %w", err)
	}

	return toDTOs(users), nil
}

func (s *service) GetById(ctx context.Context, id string) (*UserDto, error) {
	// 1) Check cache
	if data, err := s.cache.GetByID(ctx, id); err == nil && data != nil {
		var dto UserDto
		if err := json.Unmarshal(data, &dto); err == nil {
			return &dto, nil
		}
		// If unmarshal fails, log and fall through to DB
		s.logger.Error("failed to unmarshal user from cache", "error", err, "id", id)
	} else if err != nil {
		s.logger.Error("failed to get user from cache", "error", err, "id", id)
	}

	// 2) Fallback to DB
	u, err := s.repo.GetById(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := toDTO(u)
	s.writeCache(ctx, dto, "get")

	return dto, nil
}

func (s *service) Create(ctx context.Context, input CreateUserInput) (*UserDto, error) {
	email := normalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, dom.ErrEmailTaken
	} else if !IsNotFound(err) {
		return nil, fmt.Errorf("create user: %w", err)
	}

	now := s.now()
	u := &dom.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if IsConflict(err) {
			return nil, err
		}
		s.logger.Error("failed to create user", "error", err, "email", email)
		return nil, fmt.Errorf("create user: %w", err)
	}

	dto := toDTO(u)
	s.writeCache(ctx, dto, "create")

	if err := s.events.UserCreated(ctx, dto); err != nil {
		s.logger.Error("failed to publish UserCreated event", "error", err, "id", dto.Id)
	}

	return dto, nil
}

func (s *service) Update(ctx context.Context, input UpdateUserInput) (*UserDto, error) {
	var updated *dom.User

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		u, err := s.repo.GetById(ctx, input.ID)
		if err != nil {
			return err
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if err := validateName(name); err != nil {
				return err
			}
			u.Name = name
		}

		if input.Email != nil {
			email := normalizeEmail(*input.Email)
			if err := validateEmail(email); err != nil {
				return err
			}
			if email != u.Email {
				if other, err := s.repo.GetByEmail(ctx, email); err == nil && other.ID != u.ID {
					return dom.ErrEmailTaken
				} else if err != nil && !IsNotFound(err) {
					return err
				}
			}
			u.Email = email
		}

		u.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		if IsNotFound(err) || IsConflict(err) || errors.Is(err, ErrInvalidEmail) || errors.Is(err, ErrInvalidName) {
			return nil, err
		}
		s.logger.Error("failed to update user", "error", err, "id", input.ID)
		return nil, fmt.Errorf("update user: %w", err)
	}

	dto := toDTO(updated)
	s.writeCache(ctx, dto, "update")

	if err := s.events.UserUpdated(ctx, dto); err != nil {
		s.logger.Error("failed to publish UserUpdated event", "error", err, "id", dto.Id)
	}

	return dto, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete user cache after delete", "error", err, "id", id)
	}

	if err := s.events.UserDeleted(ctx, id); err != nil {
		s.logger.Error("failed to publish UserDeleted event", "error", err, "id", id)
	}

	return nil
}

// writeCache is best-effort; failures are logged and swallowed.
func (s *service) writeCache(ctx context.Context, dto *UserDto, op string) {
	data, err := json.Marshal(dto)
	if err != nil {
		s.logger.Error("failed to marshal user for cache", "error", err, "id", dto.Id, "op", op)
		return
	}
	if err := s.cache.Set(ctx, dto.Id, data, defaultUserCacheTTL); err != nil {
		s.logger.Error("failed to set user cache", "error", err, "id", dto.Id, "op", op)
	}
}
