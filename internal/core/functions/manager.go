package functions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"faas-platform/internal/core/executor"
	"faas-platform/pkg/rand"
)

var (
	// ErrNotFound means no function exists with the given ID.
	ErrNotFound = errors.New("function not found")
	// ErrDuplicate means the name or route is already taken.
	ErrDuplicate = errors.New("function already exists")
	// ErrInvalidTimeout means the declared timeout is out of range.
	ErrInvalidTimeout = errors.New("timeout must be at least 1 second")
)

// Manager is the function registry: CRUD over the relational store, with
// language and timeout validation at the write boundary.
type Manager struct {
	db *gorm.DB
	lg zerolog.Logger
}

func NewManager(db *gorm.DB, lg zerolog.Logger) *Manager {
	return &Manager{
		db: db,
		lg: lg.With().Str("component", "function-registry").Logger(),
	}
}

// CreateInput carries the user-supplied fields of a function.
type CreateInput struct {
	Name     string `json:"name"`
	Route    string `json:"route"`
	Language string `json:"language"`
	Timeout  int    `json:"timeout"`
	Code     string `json:"code"`
}

func (in CreateInput) validate() error {
	if _, err := executor.ParseLanguage(in.Language); err != nil {
		return err
	}
	if in.Timeout < 1 {
		return ErrInvalidTimeout
	}
	return nil
}

func (m *Manager) Create(ctx context.Context, in CreateInput) (*Function, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var count int64
	if err := m.db.WithContext(ctx).Model(&Function{}).
		Where("name = ? OR route = ?", in.Name, in.Route).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check duplicates: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicate
	}

	fn := &Function{
		ID:        rand.ID16(),
		Name:      in.Name,
		Route:     in.Route,
		Language:  in.Language,
		Timeout:   in.Timeout,
		Code:      in.Code,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.db.WithContext(ctx).Create(fn).Error; err != nil {
		return nil, fmt.Errorf("db create function: %w", err)
	}

	m.lg.Info().Str("function_id", fn.ID).Str("name", fn.Name).Msg("function registered")
	return fn, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*Function, error) {
	var fn Function
	if err := m.db.WithContext(ctx).First(&fn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db get function: %w", err)
	}
	return &fn, nil
}

func (m *Manager) List(ctx context.Context, offset, limit int) ([]Function, error) {
	if limit <= 0 {
		limit = 10
	}
	var functions []Function
	if err := m.db.WithContext(ctx).Offset(offset).Limit(limit).Find(&functions).Error; err != nil {
		return nil, fmt.Errorf("db list functions: %w", err)
	}
	return functions, nil
}

func (m *Manager) Update(ctx context.Context, id string, in CreateInput) (*Function, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	fn, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fn.Name = in.Name
	fn.Route = in.Route
	fn.Language = in.Language
	fn.Timeout = in.Timeout
	fn.Code = in.Code
	if err := m.db.WithContext(ctx).Save(fn).Error; err != nil {
		return nil, fmt.Errorf("db update function: %w", err)
	}
	return fn, nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	fn, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := m.db.WithContext(ctx).Delete(fn).Error; err != nil {
		return fmt.Errorf("db delete function: %w", err)
	}
	m.lg.Info().Str("function_id", id).Msg("function removed")
	return nil
}
