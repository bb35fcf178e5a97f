package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oceanharvest/fishmarket-backend/internal/sequence"
	"github.com/oceanharvest/fishmarket-backend/pkg/config"
	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
	pkgerrors "github.com/oceanharvest/fishmarket-backend/pkg/errors"
)

type stubUsersRepo struct {
	byID       map[string]*models.User
	createErrs []error
	created    []*models.User
}

func newStubUsersRepo() *stubUsersRepo {
	return &stubUsersRepo{byID: map[string]*models.User{}}
}

func (s *stubUsersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if len(s.createErrs) > 0 {
		err := s.createErrs[0]
		s.createErrs = s.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if _, exists := s.byID[user.ID]; exists {
		return nil, fmt.Errorf("duplicate key value violates unique constraint \"users_pkey\"")
	}
	for _, existing := range s.byID {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, fmt.Errorf("duplicate key value violates unique constraint \"idx_users_username\"")
		}
	}
	s.byID[user.ID] = user
	s.created = append(s.created, user)
	return user, nil
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUsersRepo) FindByUsernameOrEmail(ctx context.Context, login string) (*models.User, error) {
	for _, user := range s.byID {
		if user.Username == login || user.Email == login {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsersRepo) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.byID))
	for _, user := range s.byID {
		out = append(out, *user)
	}
	return out, nil
}

func (s *stubUsersRepo) Update(ctx context.Context, id string, updates map[string]any) error {
	user, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["first_name"].(string); ok {
		user.FirstName = v
	}
	if v, ok := updates["last_name"].(string); ok {
		user.LastName = v
	}
	if v, ok := updates["location"].(string); ok {
		user.Location = &v
	}
	return nil
}

func (s *stubUsersRepo) Delete(ctx context.Context, id string) error {
	if _, ok := s.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *stubUsersRepo) MaxID(ctx context.Context, prefix string) (string, error) {
	best := ""
	bestN := -1
	for id := range s.byID {
		n, err := sequence.Counter(prefix, id)
		if err != nil {
			continue
		}
		if n > bestN {
			bestN = n
			best = id
		}
	}
	return best, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, sequence.NewLocker(), testPasswordConfig())
	require.NoError(t, err)
	return svc
}

func registerInput(n int, role string) RegisterInput {
	return RegisterInput{
		FirstName: "Test",
		LastName:  "User",
		Username:  fmt.Sprintf("user%d", n),
		Email:     fmt.Sprintf("user%d@example.com", n),
		Password:  "hunter2-secret",
		Role:      role,
	}
}

func TestRegisterAssignsSequentialIDs(t *testing.T) {
	repo := newStubUsersRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	buyer, err := svc.Register(ctx, registerInput(1, "BUYER"))
	require.NoError(t, err)
	assert.Equal(t, "BUY0001", buyer.ID)
	assert.Equal(t, enums.UserRoleBuyer, buyer.Role)

	second, err := svc.Register(ctx, registerInput(2, "BUYER"))
	require.NoError(t, err)
	assert.Equal(t, "BUY0002", second.ID)

	fisher, err := svc.Register(ctx, registerInput(3, "FISHERMAN"))
	require.NoError(t, err)
	assert.Equal(t, "FISHER0001", fisher.ID)
}

func TestRegisterRejectsInvalidRole(t *testing.T) {
	repo := newStubUsersRepo()
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), registerInput(1, "ADMIN"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, repo.created)
}

func TestRegisterDuplicateUsernameIsConflict(t *testing.T) {
	repo := newStubUsersRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput(1, "BUYER"))
	require.NoError(t, err)

	dup := registerInput(2, "BUYER")
	dup.Username = "user1"
	_, err = svc.Register(ctx, dup)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestRegisterRetriesOnIDCollision(t *testing.T) {
	repo := newStubUsersRepo()
	repo.createErrs = []error{
		fmt.Errorf("duplicate key value violates unique constraint \"users_pkey\""),
	}
	svc := newTestService(t, repo)

	user, err := svc.Register(context.Background(), registerInput(1, "BUYER"))
	require.NoError(t, err)
	assert.Equal(t, "BUY0001", user.ID)
}

func TestRegisterConflictAfterRetryExhaustion(t *testing.T) {
	collision := fmt.Errorf("duplicate key value violates unique constraint \"users_pkey\"")
	repo := newStubUsersRepo()
	repo.createErrs = []error{collision, collision, collision}
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), registerInput(1, "BUYER"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestLogin(t *testing.T) {
	repo := newStubUsersRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput(1, "BUYER"))
	require.NoError(t, err)

	user, err := svc.Login(ctx, LoginInput{Login: "user1", Password: "hunter2-secret"})
	require.NoError(t, err)
	assert.Equal(t, "BUY0001", user.ID)

	user, err = svc.Login(ctx, LoginInput{Login: "user1@example.com", Password: "hunter2-secret"})
	require.NoError(t, err)
	assert.Equal(t, "BUY0001", user.ID)

	_, err = svc.Login(ctx, LoginInput{Login: "user1", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	_, err = svc.Login(ctx, LoginInput{Login: "nobody", Password: "hunter2-secret"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	repo := newStubUsersRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerInput(1, "BUYER"))
	require.NoError(t, err)

	newName := "Updated"
	updated, err := svc.Update(ctx, created.ID, UpdateUserInput{FirstName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.FirstName)
	assert.Equal(t, "User", updated.LastName)
}

func TestGetMissingUser(t *testing.T) {
	repo := newStubUsersRepo()
	svc := newTestService(t, repo)

	_, err := svc.Get(context.Background(), "BUY9999")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
