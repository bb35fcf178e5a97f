package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/oceanharvest/fishmarket-backend/internal/sequence"
	"github.com/oceanharvest/fishmarket-backend/pkg/config"
	"github.com/oceanharvest/fishmarket-backend/pkg/db"
	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
	pkgerrors "github.com/oceanharvest/fishmarket-backend/pkg/errors"
	"github.com/oceanharvest/fishmarket-backend/pkg/security"
)

const (
	buyerPrefix     = "BUY"
	fishermanPrefix = "FISHER"
	userIDWidth     = 4
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines user-level operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*UserDTO, error)
	Login(ctx context.Context, input LoginInput) (*UserDTO, error)
	Get(ctx context.Context, id string) (*UserDTO, error)
	List(ctx context.Context) ([]UserDTO, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*UserDTO, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	tx       txRunner
	locker   *sequence.Locker
	password config.PasswordConfig
}

// NewService builds a users service with the required dependencies.
func NewService(repo Repository, tx txRunner, locker *sequence.Locker, password config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if locker == nil {
		return nil, fmt.Errorf("sequence locker required")
	}
	return &service{repo: repo, tx: tx, locker: locker, password: password}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	role, err := enums.ParseUserRole(strings.TrimSpace(input.Role))
	if err != nil {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid role %q", input.Role)
	}
	if strings.TrimSpace(input.Username) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "hash password")
	}

	prefix := prefixForRole(role)

	var created *models.User
	for attempt := 0; attempt < sequence.MaxAttempts; attempt++ {
		created, err = s.tryRegister(ctx, prefix, role, hash, input)
		if err == nil {
			return FromModel(created), nil
		}
		if isIDCollision(err) {
			continue
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username or email already taken")
		}
		return nil, err
	}
	return nil, pkgerrors.New(pkgerrors.CodeConflict, "could not allocate user identifier")
}

func (s *service) tryRegister(ctx context.Context, prefix string, role enums.UserRole, hash string, input RegisterInput) (*models.User, error) {
	s.locker.Lock(prefix)
	defer s.locker.Unlock(prefix)

	var created *models.User
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		maxID, err := repo.MaxID(ctx, prefix)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load max user id")
		}
		id, err := sequence.Next(prefix, userIDWidth, maxID)
		if err != nil {
			return err
		}
		user := &models.User{
			ID:           id,
			FirstName:    strings.TrimSpace(input.FirstName),
			LastName:     strings.TrimSpace(input.LastName),
			Username:     strings.TrimSpace(input.Username),
			Email:        strings.TrimSpace(input.Email),
			PasswordHash: hash,
			Role:         role,
			ProfileInfo:  input.ProfileInfo,
			Location:     input.Location,
		}
		created, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*UserDTO, error) {
	if strings.TrimSpace(input.Login) == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "login and password required")
	}

	user, err := s.repo.FindByUsernameOrEmail(ctx, strings.TrimSpace(input.Login))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	return FromModel(user), nil
}

func (s *service) Get(ctx context.Context, id string) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "user %s not found", id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateUserInput) (*UserDTO, error) {
	updates := input.Updates()
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "user %s not found", id)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "user %s not found", id)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}

func prefixForRole(role enums.UserRole) string {
	if role == enums.UserRoleFisherman {
		return fishermanPrefix
	}
	return buyerPrefix
}

func isIDCollision(err error) bool {
	return db.IsUniqueViolation(err, "users_pkey") || db.IsUniqueViolation(err, "users.id")
}
