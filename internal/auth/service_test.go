package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tradeflow/trade-portal/trade-portal-backend/internal/workflow"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newTestTokens() *TokenManager {
	return NewTokenManager([]byte("test-signing-key"), time.Hour)
}

func TestRegisterHashesPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", mock.Anything, "ops@acme.example").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*auth.User")).Return(nil)

	service := NewService(mockRepo, newTestTokens(), zap.NewNop())

	user, err := service.Register(context.Background(), RegisterRequest{
		CompanyID: uuid.New(),
		Email:     "Ops@Acme.example",
		Name:      "Ops Person",
		Role:      workflow.RoleExportManager,
		Password:  "correct-horse-battery",
	})

	require.NoError(t, err)
	assert.Equal(t, "ops@acme.example", user.Email, "email is normalized")
	assert.NotEqual(t, "correct-horse-battery", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse-battery")))
	mockRepo.AssertExpectations(t)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	service := NewService(new(MockUserRepository), newTestTokens(), zap.NewNop())

	_, err := service.Register(context.Background(), RegisterRequest{
		CompanyID: uuid.New(),
		Email:     "x@acme.example",
		Name:      "X",
		Role:      workflow.Role("WAREHOUSE_CAT"),
		Password:  "password123",
	})
	assert.Error(t, err)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", mock.Anything, "taken@acme.example").Return(&User{}, nil)

	service := NewService(mockRepo, newTestTokens(), zap.NewNop())

	_, err := service.Register(context.Background(), RegisterRequest{
		CompanyID: uuid.New(),
		Email:     "taken@acme.example",
		Name:      "X",
		Role:      workflow.RoleFinance,
		Password:  "password123",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRoundTripsClaims(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &User{
		ID:           uuid.New(),
		CompanyID:    uuid.New(),
		Email:        "finance@acme.example",
		Role:         workflow.RoleFinance,
		PasswordHash: string(hash),
	}
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", mock.Anything, "finance@acme.example").Return(user, nil)

	tokens := newTestTokens()
	service := NewService(mockRepo, tokens, zap.NewNop())

	token, _, err := service.Login(context.Background(), LoginRequest{
		Email:    "finance@acme.example",
		Password: "password123",
	})
	require.NoError(t, err)

	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "finance@acme.example", claims.Email)
	assert.Equal(t, string(workflow.RoleFinance), claims.Role)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &User{Email: "finance@acme.example", Role: workflow.RoleFinance, PasswordHash: string(hash)}

	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", mock.Anything, "finance@acme.example").Return(user, nil)

	service := NewService(mockRepo, newTestTokens(), zap.NewNop())

	_, _, err := service.Login(context.Background(), LoginRequest{
		Email:    "finance@acme.example",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	user := &User{ID: uuid.New(), CompanyID: uuid.New(), Email: "x@acme.example", Role: workflow.RoleFinance}

	other := NewTokenManager([]byte("different-key"), time.Hour)
	token, err := other.Generate(user)
	require.NoError(t, err)

	_, err = newTestTokens().Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsUnknownRoleClaim(t *testing.T) {
	tokens := newTestTokens()
	user := &User{ID: uuid.New(), CompanyID: uuid.New(), Email: "x@acme.example", Role: workflow.Role("SMUGGLER")}
	token, err := tokens.Generate(user)
	require.NoError(t, err)

	_, err = tokens.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
