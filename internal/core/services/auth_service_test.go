package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
	"github.com/kassatrack/cash_report_app/internal/core/services"
	"github.com/kassatrack/cash_report_app/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockUsers    *MockUserRepository
	mockRoles    *MockRoleRepository
	mockSessions *MockSessionStore
	service      portssvc.AuthSvcFacade
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUsers = new(MockUserRepository)
	suite.mockRoles = new(MockRoleRepository)
	suite.mockSessions = new(MockSessionStore)
	suite.service = services.NewAuthService(suite.mockUsers, suite.mockRoles, suite.mockSessions, 12*time.Hour, discardLogger())
}

func credsFor(username, password, role string, active bool, deviceLimit int) *domain.UserCredentials {
	hash, _ := utils.HashPassword(password)
	return &domain.UserCredentials{
		User: domain.User{
			UserID:      "uid-" + username,
			Username:    username,
			Role:        role,
			IsActive:    active,
			DeviceLimit: deviceLimit,
			Locations:   []string{"Central"},
		},
		PasswordHash: hash,
	}
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	creds := credsFor("ivanov", "s3cret-pass", domain.RoleOperator, true, 2)

	suite.mockUsers.On("FindUserByUsername", ctx, "ivanov").Return(creds, nil).Once()
	suite.mockSessions.On("ListByUser", ctx, creds.UserID).Return([]domain.Session{}, nil).Once()
	suite.mockRoles.On("ListCapabilitiesForRole", ctx, domain.RoleOperator).
		Return([]domain.Capability{domain.CapReportsViewAssigned, domain.CapReportsCreate, domain.CapReportsEditOwn}, nil).Once()
	suite.mockSessions.On("Put", ctx, mock.MatchedBy(func(s domain.Session) bool {
		return s.UserID == creds.UserID &&
			s.Role == domain.RoleOperator &&
			len(s.SID) == 64 &&
			s.Capabilities.Has(domain.CapReportsCreate) &&
			!s.Capabilities.Has(domain.CapReportsViewAll)
	}), 12*time.Hour).Return(nil).Once()

	sess, err := suite.service.Login(ctx, portssvc.LoginParams{
		Username: "ivanov",
		Password: "s3cret-pass",
	})

	suite.Require().NoError(err)
	suite.Equal("ivanov", sess.Username)
	suite.Equal([]string{"Central"}, sess.Locations)
	suite.mockSessions.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_AdminGetsFullCatalog() {
	ctx := context.Background()
	creds := credsFor("root", "s3cret-pass", domain.RoleAdmin, true, 0)

	suite.mockUsers.On("FindUserByUsername", ctx, "root").Return(creds, nil).Once()
	suite.mockSessions.On("Put", ctx, mock.MatchedBy(func(s domain.Session) bool {
		for _, c := range domain.AllCapabilities() {
			if !s.Capabilities.Has(c) {
				return false
			}
		}
		return true
	}), mock.Anything).Return(nil).Once()

	_, err := suite.service.Login(ctx, portssvc.LoginParams{Username: "root", Password: "s3cret-pass"})

	suite.Require().NoError(err)
	// The stored grant is never consulted for admin.
	suite.mockRoles.AssertNotCalled(suite.T(), "ListCapabilitiesForRole", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	creds := credsFor("ivanov", "s3cret-pass", domain.RoleOperator, true, 0)

	suite.mockUsers.On("FindUserByUsername", ctx, "ivanov").Return(creds, nil).Once()

	_, err := suite.service.Login(ctx, portssvc.LoginParams{Username: "ivanov", Password: "wrong"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownUserSameError() {
	ctx := context.Background()

	suite.mockUsers.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Login(ctx, portssvc.LoginParams{Username: "ghost", Password: "anything"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AuthServiceTestSuite) TestLogin_DeactivatedUser() {
	ctx := context.Background()
	creds := credsFor("ivanov", "s3cret-pass", domain.RoleOperator, false, 0)

	suite.mockUsers.On("FindUserByUsername", ctx, "ivanov").Return(creds, nil).Once()

	_, err := suite.service.Login(ctx, portssvc.LoginParams{Username: "ivanov", Password: "s3cret-pass"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockSessions.AssertNotCalled(suite.T(), "Put", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_DeviceLimitReached() {
	ctx := context.Background()
	creds := credsFor("ivanov", "s3cret-pass", domain.RoleOperator, true, 2)

	suite.mockUsers.On("FindUserByUsername", ctx, "ivanov").Return(creds, nil).Once()
	suite.mockSessions.On("ListByUser", ctx, creds.UserID).
		Return([]domain.Session{{SID: "a"}, {SID: "b"}}, nil).Once()

	_, err := suite.service.Login(ctx, portssvc.LoginParams{Username: "ivanov", Password: "s3cret-pass"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDeviceLimitReached)
	suite.mockSessions.AssertNotCalled(suite.T(), "Put", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestResolveSession_TouchesActivity() {
	ctx := context.Background()
	stored := &domain.Session{SID: "sid-1", UserID: "u1", Role: domain.RoleOperator}

	suite.mockSessions.On("Get", ctx, "sid-1").Return(stored, nil).Once()
	suite.mockSessions.On("Touch", ctx, "sid-1", mock.Anything).Return(nil).Once()

	sess, err := suite.service.ResolveSession(ctx, "sid-1")

	suite.Require().NoError(err)
	suite.Equal("u1", sess.UserID)
	suite.mockSessions.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestResolveSession_ExpiredIsUnauthorized() {
	ctx := context.Background()

	suite.mockSessions.On("Get", ctx, "sid-1").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ResolveSession(ctx, "sid-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogout_MissingSessionIsFine() {
	ctx := context.Background()

	suite.mockSessions.On("Delete", ctx, "sid-1").Return(apperrors.ErrNotFound).Once()

	suite.NoError(suite.service.Logout(ctx, "sid-1"))
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
