package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	customErrors "github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/errors"
	"github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/model"
)

type PostgresUserRepo struct {
	db *gorm.DB
}

func NewPostgresUserRepo(db *gorm.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

func (p *PostgresUserRepo) CreateUser(ctx context.Context, user model.User) (uuid.UUID, error) {
	res := p.db.WithContext(ctx).Create(&user)
	if err := res.Error; err != nil {
		// the unique index on email resolves the existence-check/insert race
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, customErrors.ErrAlreadyExists
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return uuid.Nil, customErrors.ErrAlreadyExists
		}
		return uuid.Nil, customErrors.WrapStoreUnavailable(err, "CreateUser")
	}
	return user.ID, nil
}

func (p *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("email = ?", email).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapStoreUnavailable(err, "GetUserByEmail")
	}

	return u, nil
}

func (p *PostgresUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	res := p.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count)
	if err := res.Error; err != nil {
		return false, customErrors.WrapStoreUnavailable(err, "ExistsByEmail")
	}
	return count > 0, nil
}

func (p *PostgresUserRepo) UpdateUser(ctx context.Context, user model.User) error {
	res := p.db.WithContext(ctx).Save(&user)
	if err := res.Error; err != nil {
		return customErrors.WrapStoreUnavailable(err, "UpdateUser")
	}
	return nil
}

func (p *PostgresUserRepo) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	var count int64
	res := p.db.WithContext(ctx).Model(&model.User{}).Where("role = ?", role).Count(&count)
	if err := res.Error; err != nil {
		return 0, customErrors.WrapStoreUnavailable(err, "CountByRole")
	}
	return count, nil
}
