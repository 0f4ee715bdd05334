package repository

import (
	"context"
	"errors"

	"github.com/dwiprasetyo/user-management-api/internal/domain/entity"
)

var (
	// ErrUserNotFound is returned when no row matches the given id or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when an insert or update would violate the
	// unique email constraint. Two registrations racing on the same email are
	// arbitrated by the database; the loser sees this error.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines the persistence operations the services need.
type UserRepository interface {
	Insert(ctx context.Context, u *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	Count(ctx context.Context) (int64, error)
}
