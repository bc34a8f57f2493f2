package usecase_test

import (
	"context"
	"testing"
	"time"

	"mealtrack/internal/auth/adapter/session"
	"mealtrack/internal/auth/domain/model"
	"mealtrack/internal/auth/domain/repository"
	"mealtrack/internal/auth/usecase"
	"mealtrack/internal/shared/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// Mock remote account endpoints
type mockUserRemote struct {
	mock.Mock
}

func (m *mockUserRemote) Login(ctx context.Context, creds repository.Credentials) (*model.User, string, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *mockUserRemote) Register(ctx context.Context, reg repository.Registration) (*model.User, string, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *mockUserRemote) FetchUser(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRemote) UpdateUser(ctx context.Context, userID string, patch model.ProfilePatch) (*model.User, error) {
	args := m.Called(ctx, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRemote) ListUsers(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *mockUserRemote) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRemote) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type AuthUsecaseTestSuite struct {
	suite.Suite
	mockRemote *mockUserRemote
	sessions   *session.MemoryStore
	usecase    *usecase.AuthUsecase
}

func (suite *AuthUsecaseTestSuite) SetupTest() {
	suite.mockRemote = &mockUserRemote{}
	suite.sessions = session.NewMemoryStore()
	suite.usecase = usecase.NewAuthUsecase(suite.mockRemote, suite.sessions, nil, nil, nil)
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func (suite *AuthUsecaseTestSuite) TestLogin_Success() {
	// Arrange
	ctx := context.Background()
	user := &model.User{UserID: "7", Username: "alice", Email: "alice@example.com"}
	suite.mockRemote.On("Login", ctx, repository.Credentials{Username: "alice", Password: "Str0ng&Secret!"}).
		Return(user, "token-abc", nil)

	// Act
	sess, err := suite.usecase.Login(ctx, "alice", "Str0ng&Secret!")

	// Assert
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "token-abc", sess.Token)
	assert.Equal(suite.T(), "alice", sess.User.Username)

	stored, err := suite.usecase.CurrentSession(ctx)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), stored)
	assert.Equal(suite.T(), "7", stored.User.UserID)
}

func (suite *AuthUsecaseTestSuite) TestLogin_InvalidCredentials() {
	// Arrange
	ctx := context.Background()
	suite.mockRemote.On("Login", ctx, mock.Anything).
		Return(nil, "", errors.NewAuthorizationError("Username or password is incorrect"))

	// Act
	sess, err := suite.usecase.Login(ctx, "alice", "wrong")

	// Assert
	require.Error(suite.T(), err)
	assert.Nil(suite.T(), sess)
	assert.True(suite.T(), errors.IsAuthorization(err))

	stored, _ := suite.usecase.CurrentSession(ctx)
	assert.Nil(suite.T(), stored, "a failed login must not leave a session behind")
}

func (suite *AuthUsecaseTestSuite) TestLogin_EmptyInput() {
	// Act
	_, err := suite.usecase.Login(context.Background(), "  ", "")

	// Assert
	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.IsValidation(err))
	suite.mockRemote.AssertNotCalled(suite.T(), "Login", mock.Anything, mock.Anything)
}

func (suite *AuthUsecaseTestSuite) TestRegister_Success() {
	// Arrange
	ctx := context.Background()
	reg := repository.Registration{Username: "bob", Email: "bob@example.com", Password: "Sup3r$ecretPass"}
	user := &model.User{UserID: "8", Username: "bob", Email: "bob@example.com"}
	suite.mockRemote.On("Register", ctx, reg).Return(user, "token-xyz", nil)

	// Act
	sess, err := suite.usecase.Register(ctx, reg)

	// Assert
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "token-xyz", sess.Token)
}

func (suite *AuthUsecaseTestSuite) TestRegister_PasswordPolicy() {
	tests := []struct {
		name     string
		password string
	}{
		{name: "too short", password: "Ab1!"},
		{name: "no uppercase", password: "weak&secret pass1"},
		{name: "no digit", password: "Weak&Secret Pass"},
		{name: "no symbol", password: "WeakSecretPass12"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			reg := repository.Registration{Username: "bob", Email: "bob@example.com", Password: tt.password}
			_, err := suite.usecase.Register(context.Background(), reg)
			require.Error(suite.T(), err)
			assert.True(suite.T(), errors.IsValidation(err))
		})
	}
	suite.mockRemote.AssertNotCalled(suite.T(), "Register", mock.Anything, mock.Anything)
}

func (suite *AuthUsecaseTestSuite) TestRegister_InvalidEmail() {
	reg := repository.Registration{Username: "bob", Email: "not-an-email", Password: "Sup3r$ecretPass"}

	_, err := suite.usecase.Register(context.Background(), reg)

	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.IsValidation(err))
}

func (suite *AuthUsecaseTestSuite) TestLogout_ClearsSession() {
	// Arrange
	ctx := context.Background()
	require.NoError(suite.T(), suite.sessions.Save(ctx, &model.Session{
		User:  model.User{UserID: "7", Username: "alice"},
		Token: "token-abc",
	}))

	// Act
	err := suite.usecase.Logout(ctx)

	// Assert
	require.NoError(suite.T(), err)
	stored, _ := suite.usecase.CurrentSession(ctx)
	assert.Nil(suite.T(), stored)
}

func (suite *AuthUsecaseTestSuite) TestCurrentSession_ExpiredTokenTreatedAsLoggedOut() {
	// Arrange
	ctx := context.Background()
	expired := signedToken(suite.T(), time.Now().Add(-time.Hour))
	require.NoError(suite.T(), suite.sessions.Save(ctx, &model.Session{
		User:  model.User{UserID: "7", Username: "alice"},
		Token: expired,
	}))

	// Act
	stored, err := suite.usecase.CurrentSession(ctx)

	// Assert
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), stored)
}

func (suite *AuthUsecaseTestSuite) TestCurrentSession_UnexpiredTokenKept() {
	// Arrange
	ctx := context.Background()
	valid := signedToken(suite.T(), time.Now().Add(time.Hour))
	require.NoError(suite.T(), suite.sessions.Save(ctx, &model.Session{
		User:  model.User{UserID: "7", Username: "alice"},
		Token: valid,
	}))

	// Act
	stored, err := suite.usecase.CurrentSession(ctx)

	// Assert
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), stored)
	assert.Equal(suite.T(), valid, stored.Token)
}

func (suite *AuthUsecaseTestSuite) TestCurrentSession_OpaqueTokenKept() {
	// Arrange: a token that is not a parseable JWT carries no local expiry
	// information and stays until the server rejects it.
	ctx := context.Background()
	require.NoError(suite.T(), suite.sessions.Save(ctx, &model.Session{
		User:  model.User{UserID: "7", Username: "alice"},
		Token: "token-abc",
	}))

	// Act
	stored, err := suite.usecase.CurrentSession(ctx)

	// Assert
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), stored)
	assert.Equal(suite.T(), "token-abc", stored.Token)
}

func (suite *AuthUsecaseTestSuite) TestToken_NoSession() {
	// Act
	_, err := suite.usecase.Token(context.Background())

	// Assert
	assert.ErrorIs(suite.T(), err, errors.ErrNoSession)
}

func (suite *AuthUsecaseTestSuite) TestInvalidateSession() {
	// Arrange
	ctx := context.Background()
	require.NoError(suite.T(), suite.sessions.Save(ctx, &model.Session{
		User:  model.User{UserID: "7"},
		Token: "token-abc",
	}))

	// Act
	suite.usecase.InvalidateSession(ctx)

	// Assert
	stored, _ := suite.usecase.CurrentSession(ctx)
	assert.Nil(suite.T(), stored)
}

func (suite *AuthUsecaseTestSuite) TestUpdateProfile_PatchesAndRefreshesSession() {
	// Arrange
	ctx := context.Background()
	require.NoError(suite.T(), suite.sessions.Save(ctx, &model.Session{
		User:  model.User{UserID: "7", Username: "alice"},
		Token: "token-abc",
	}))
	newName := "alice2"
	updated := &model.User{UserID: "7", Username: "alice2", Email: "alice@example.com"}
	suite.mockRemote.On("UpdateUser", ctx, "7", model.ProfilePatch{Username: &newName}).Return(updated, nil)

	// Act
	user, err := suite.usecase.UpdateProfile(ctx, model.ProfilePatch{Username: &newName})

	// Assert
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "alice2", user.Username)
	stored, _ := suite.usecase.CurrentSession(ctx)
	require.NotNil(suite.T(), stored)
	assert.Equal(suite.T(), "alice2", stored.User.Username)
}

func (suite *AuthUsecaseTestSuite) TestUpdateProfile_EmptyPatch() {
	// Act
	_, err := suite.usecase.UpdateProfile(context.Background(), model.ProfilePatch{})

	// Assert
	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.IsValidation(err))
}

func (suite *AuthUsecaseTestSuite) TestUpdateProfile_NoSession() {
	newName := "ghost"

	_, err := suite.usecase.UpdateProfile(context.Background(), model.ProfilePatch{Username: &newName})

	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.IsAuthorization(err))
}

func (suite *AuthUsecaseTestSuite) TestUsernameExists() {
	// Arrange
	ctx := context.Background()
	suite.mockRemote.On("UsernameExists", ctx, "alice").Return(true, nil)

	// Act
	taken, err := suite.usecase.UsernameExists(ctx, "alice")

	// Assert
	require.NoError(suite.T(), err)
	assert.True(suite.T(), taken)
}

func (suite *AuthUsecaseTestSuite) TestEmailExists_InvalidFormatRejectedLocally() {
	// Act
	_, err := suite.usecase.EmailExists(context.Background(), "not-an-email")

	// Assert
	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.IsValidation(err))
	suite.mockRemote.AssertNotCalled(suite.T(), "EmailExists", mock.Anything, mock.Anything)
}

func TestAuthUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(AuthUsecaseTestSuite))
}
