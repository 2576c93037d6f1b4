package services_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/kassatrack/cash_report_app/internal/core/authz"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portsrepo "github.com/kassatrack/cash_report_app/internal/core/ports/repositories"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.UserCredentials, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserCredentials), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.UserCredentials) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, userID, role string, deviceLimit int, locations []string) error {
	args := m.Called(ctx, userID, role, deviceLimit, locations)
	return args.Error(0)
}

func (m *MockUserRepository) SetUserActive(ctx context.Context, userID string, active bool) error {
	args := m.Called(ctx, userID, active)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

// --- Mock RoleRepository ---

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) ListRoleNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRoleRepository) RoleExists(ctx context.Context, roleName string) (bool, error) {
	args := m.Called(ctx, roleName)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleRepository) ListCapabilitiesForRole(ctx context.Context, roleName string) ([]domain.Capability, error) {
	args := m.Called(ctx, roleName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Capability), args.Error(1)
}

func (m *MockRoleRepository) ReplaceRolePermissions(ctx context.Context, roleName string, caps []domain.Capability) error {
	args := m.Called(ctx, roleName, caps)
	return args.Error(0)
}

// --- Mock ReportRepository ---

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindReportByID(ctx context.Context, reportID int64) (*domain.Report, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepository) ListReports(ctx context.Context, filter portsrepo.ReportFilter) (*portsrepo.ReportPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.ReportPage), args.Error(1)
}

func (m *MockReportRepository) ListRevisions(ctx context.Context, reportID int64) ([]domain.RevisionEntry, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RevisionEntry), args.Error(1)
}

func (m *MockReportRepository) CreateReport(ctx context.Context, report domain.Report) (int64, error) {
	args := m.Called(ctx, report)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) UpdateReportWithHistory(ctx context.Context, updated domain.Report, editorID string, editedAt time.Time) error {
	args := m.Called(ctx, updated, editorID, editedAt)
	return args.Error(0)
}

func (m *MockReportRepository) ListReportedLocations(ctx context.Context, date time.Time) ([]string, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock PivotRepository ---

type MockPivotRepository struct {
	mock.Mock
}

func (m *MockPivotRepository) SavePivotTemplate(ctx context.Context, tmpl domain.PivotTemplate) (int64, error) {
	args := m.Called(ctx, tmpl)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPivotRepository) FindPivotTemplates(ctx context.Context) ([]domain.PivotTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PivotTemplate), args.Error(1)
}

func (m *MockPivotRepository) FindPivotTemplateByID(ctx context.Context, id int64) (*domain.PivotTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PivotTemplate), args.Error(1)
}

func (m *MockPivotRepository) DeletePivotTemplate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock SettingsRepository ---

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetSetting(ctx context.Context, key string) (json.RawMessage, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockSettingsRepository) ListSettings(ctx context.Context) (map[string]json.RawMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]json.RawMessage), args.Error(1)
}

func (m *MockSettingsRepository) UpsertSetting(ctx context.Context, key string, value json.RawMessage) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// --- Mock SessionStore ---

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Put(ctx context.Context, sess domain.Session, ttl time.Duration) error {
	args := m.Called(ctx, sess, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, sid string) (*domain.Session, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionStore) Touch(ctx context.Context, sid string, at time.Time) error {
	args := m.Called(ctx, sid, at)
	return args.Error(0)
}

func (m *MockSessionStore) Delete(ctx context.Context, sid string) error {
	args := m.Called(ctx, sid)
	return args.Error(0)
}

func (m *MockSessionStore) ListByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Session), args.Error(1)
}

func (m *MockSessionStore) DeleteByUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockSessionStore) InvalidateSessionsForRole(ctx context.Context, roleName string) (int, error) {
	args := m.Called(ctx, roleName)
	return args.Int(0), args.Error(1)
}

// --- Mock settings facade (used by the report service) ---

type MockSettingsFacade struct {
	mock.Mock
}

func (m *MockSettingsFacade) GetAll(ctx context.Context) (map[string]json.RawMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]json.RawMessage), args.Error(1)
}

func (m *MockSettingsFacade) Upsert(ctx context.Context, actor authz.Actor, key string, value json.RawMessage) error {
	args := m.Called(ctx, actor, key, value)
	return args.Error(0)
}

func (m *MockSettingsFacade) LiveSchema(ctx context.Context) (domain.ReportSchema, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ReportSchema), args.Error(1)
}

func (m *MockSettingsFacade) PaginationLimit(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}

func (m *MockSettingsFacade) TelegramTarget(ctx context.Context) (string, string) {
	args := m.Called(ctx)
	return args.String(0), args.String(1)
}

// --- Mock notifier ---

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.ReportNotification) {
	m.Called(ctx, n)
}
