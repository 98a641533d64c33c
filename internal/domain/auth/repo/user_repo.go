package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/model"
)

type UserRepo interface {
	CreateUser(ctx context.Context, u model.User) (uuid.UUID, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	UpdateUser(ctx context.Context, u model.User) error

	CountByRole(ctx context.Context, role model.Role) (int64, error)
}
