package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
	"github.com/kassatrack/cash_report_app/internal/core/authz"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portsrepo "github.com/kassatrack/cash_report_app/internal/core/ports/repositories"
	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
	"github.com/kassatrack/cash_report_app/internal/core/services"
	"github.com/kassatrack/cash_report_app/internal/dto"
)

const testCutoffHour = 9

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type ReportServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockReportRepository
	mockSettings *MockSettingsFacade
	mockNotifier *MockNotifier
	service      portssvc.ReportSvcFacade
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportRepository)
	suite.mockSettings = new(MockSettingsFacade)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewReportService(suite.mockRepo, suite.mockSettings, suite.mockNotifier, testCutoffHour, discardLogger())
}

func operatorActor(userID string, locations ...string) authz.Actor {
	return authz.Actor{
		UserID: userID,
		Capabilities: domain.NewCapabilitySet(
			domain.CapReportsViewAssigned,
			domain.CapReportsCreate,
			domain.CapReportsEditOwn,
		),
		Locations: locations,
	}
}

func testSchema() domain.ReportSchema {
	return domain.ReportSchema{
		Columns:   []string{"Cash", "Card"},
		Rows:      []string{"Morning", "Evening"},
		Locations: []string{"Central", "North"},
	}
}

func testData() domain.ReportData {
	return domain.ReportData{
		"Morning_Cash": decimal.NewFromInt(1500),
		"Evening_Card": decimal.NewFromInt(2300),
	}
}

func (suite *ReportServiceTestSuite) TestCreateReport_Success() {
	ctx := context.Background()
	actor := operatorActor("u1", "Central")
	req := dto.CreateReportRequest{
		Date:     time.Now().Format("2006-01-02"),
		Location: "Central",
		Data:     testData(),
		Schema:   testSchema(),
	}

	suite.mockRepo.On("CreateReport", ctx, mock.MatchedBy(func(r domain.Report) bool {
		return r.Location == "Central" && r.CreatedBy == "u1" && r.LateComment == ""
	})).Return(int64(7), nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.MatchedBy(func(n domain.ReportNotification) bool {
		return n.Kind == domain.NotificationNew && n.ReportID == 7
	})).Once()

	report, err := suite.service.CreateReport(ctx, actor, req)

	suite.Require().NoError(err)
	suite.Equal(int64(7), report.ID)
	suite.Equal("u1", report.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestCreateReport_LateWithoutComment() {
	ctx := context.Background()
	actor := operatorActor("u1", "Central")
	req := dto.CreateReportRequest{
		Date:     "2020-01-01",
		Location: "Central",
		Data:     testData(),
		Schema:   testSchema(),
	}

	_, err := suite.service.CreateReport(ctx, actor, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrLateJustificationRequired)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateReport", mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestCreateReport_LateWithComment() {
	ctx := context.Background()
	actor := operatorActor("u1", "Central")
	req := dto.CreateReportRequest{
		Date:        "2020-01-01",
		Location:    "Central",
		Data:        testData(),
		Schema:      testSchema(),
		LateComment: "register was offline until noon",
	}

	suite.mockRepo.On("CreateReport", ctx, mock.MatchedBy(func(r domain.Report) bool {
		return r.LateComment == "register was offline until noon"
	})).Return(int64(8), nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.Anything).Once()

	report, err := suite.service.CreateReport(ctx, actor, req)

	suite.Require().NoError(err)
	suite.Equal(int64(8), report.ID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestCreateReport_ForeignBranchForbidden() {
	ctx := context.Background()
	actor := operatorActor("u1", "Central")
	req := dto.CreateReportRequest{
		Date:     time.Now().Format("2006-01-02"),
		Location: "North",
		Data:     testData(),
		Schema:   testSchema(),
	}

	_, err := suite.service.CreateReport(ctx, actor, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateReport", mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestCreateReport_DuplicatePropagates() {
	ctx := context.Background()
	actor := operatorActor("u1", "Central")
	req := dto.CreateReportRequest{
		Date:     time.Now().Format("2006-01-02"),
		Location: "Central",
		Data:     testData(),
		Schema:   testSchema(),
	}

	suite.mockRepo.On("CreateReport", ctx, mock.Anything).Return(int64(0), apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateReport(ctx, actor, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestUpdateReport_ArchivesAndNotifies() {
	ctx := context.Background()
	actor := operatorActor("u1", "Central")
	priorData := testData()
	current := &domain.Report{
		ID:         5,
		ReportDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local),
		Location:   "Central",
		Data:       priorData,
		Schema:     testSchema(),
		CreatedBy:  "u1",
	}
	newData := domain.ReportData{"Morning_Cash": decimal.NewFromInt(1800)}
	req := dto.UpdateReportRequest{
		Date:     "2026-03-10",
		Location: "Central",
		Data:     newData,
		Schema:   testSchema(),
	}
	refreshed := *current
	refreshed.Data = newData
	refreshed.EditCount = 1

	suite.mockRepo.On("FindReportByID", ctx, int64(5)).Return(current, nil).Once()
	suite.mockRepo.On("UpdateReportWithHistory", ctx, mock.MatchedBy(func(r domain.Report) bool {
		return r.ID == 5 && r.UpdatedBy != nil && *r.UpdatedBy == "u1"
	}), "u1", mock.Anything).Return(nil).Once()
	suite.mockRepo.On("FindReportByID", ctx, int64(5)).Return(&refreshed, nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.MatchedBy(func(n domain.ReportNotification) bool {
		return n.Kind == domain.NotificationEdit &&
			n.ReportID == 5 &&
			n.PriorData["Morning_Cash"].Equal(decimal.NewFromInt(1500))
	})).Once()

	report, err := suite.service.UpdateReport(ctx, actor, 5, req)

	suite.Require().NoError(err)
	suite.Equal(1, report.EditCount)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestUpdateReport_NotOwnerForbidden() {
	ctx := context.Background()
	actor := operatorActor("u2", "Central")
	current := &domain.Report{
		ID:        5,
		Location:  "Central",
		Data:      testData(),
		CreatedBy: "u1",
	}

	suite.mockRepo.On("FindReportByID", ctx, int64(5)).Return(current, nil).Once()

	_, err := suite.service.UpdateReport(ctx, actor, 5, dto.UpdateReportRequest{
		Date:     "2026-03-10",
		Location: "Central",
		Data:     testData(),
		Schema:   testSchema(),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateReportWithHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestListReports_ScopedBeforePagination() {
	ctx := context.Background()
	actor := operatorActor("u1", "Central", "North")

	suite.mockSettings.On("PaginationLimit", ctx).Return(10).Once()
	suite.mockRepo.On("ListReports", ctx, mock.MatchedBy(func(f portsrepo.ReportFilter) bool {
		return !f.AllLocations &&
			len(f.Locations) == 2 &&
			f.Limit == 10 && f.Offset == 10
	})).Return(&portsrepo.ReportPage{Reports: []domain.Report{}, Total: 23}, nil).Once()

	listing, err := suite.service.ListReports(ctx, actor, dto.ListReportsQuery{Page: 2})

	suite.Require().NoError(err)
	suite.Equal(23, listing.Total)
	suite.Equal(3, listing.Pages)
	suite.Equal(2, listing.CurrentPage)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestListReports_AdminSeesAll() {
	ctx := context.Background()
	actor := authz.Actor{
		UserID:       "admin",
		Capabilities: domain.NewCapabilitySet(domain.AllCapabilities()...),
	}

	suite.mockSettings.On("PaginationLimit", ctx).Return(10).Once()
	suite.mockRepo.On("ListReports", ctx, mock.MatchedBy(func(f portsrepo.ReportFilter) bool {
		return f.AllLocations
	})).Return(&portsrepo.ReportPage{Reports: []domain.Report{}, Total: 0}, nil).Once()

	listing, err := suite.service.ListReports(ctx, actor, dto.ListReportsQuery{})

	suite.Require().NoError(err)
	suite.Equal(1, listing.Pages)
}

func (suite *ReportServiceTestSuite) TestGetHistory_DiffsAgainstCurrent() {
	ctx := context.Background()
	actor := operatorActor("u1", "Central")
	current := &domain.Report{
		ID:        5,
		Location:  "Central",
		CreatedBy: "u1",
		Data:      domain.ReportData{"Morning_Cash": decimal.NewFromInt(1800)},
	}
	entries := []domain.RevisionEntry{
		{
			ID:        2,
			ReportID:  5,
			PriorData: domain.ReportData{"Morning_Cash": decimal.NewFromInt(1600)},
		},
		{
			ID:        1,
			ReportID:  5,
			PriorData: domain.ReportData{"Morning_Cash": decimal.NewFromInt(1500)},
		},
	}

	suite.mockRepo.On("FindReportByID", ctx, int64(5)).Return(current, nil).Once()
	suite.mockRepo.On("ListRevisions", ctx, int64(5)).Return(entries, nil).Once()

	views, err := suite.service.GetHistory(ctx, actor, 5)

	suite.Require().NoError(err)
	suite.Require().Len(views, 2)
	// Every entry diffs against the current value, not its successor.
	suite.Require().Len(views[0].Changes, 1)
	suite.True(views[0].Changes[0].NewValue.Equal(decimal.NewFromInt(1800)))
	suite.Require().Len(views[1].Changes, 1)
	suite.True(views[1].Changes[0].NewValue.Equal(decimal.NewFromInt(1800)))
	suite.True(views[1].Changes[0].OldValue.Equal(decimal.NewFromInt(1500)))
}

func (suite *ReportServiceTestSuite) TestSubmissionStatus_FlagsEveryBranch() {
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	suite.mockSettings.On("LiveSchema", ctx).Return(domain.ReportSchema{
		Columns:   []string{"Cash"},
		Rows:      []string{"Morning"},
		Locations: []string{"Central", "North", "East"},
	}, nil).Once()
	suite.mockRepo.On("ListReportedLocations", ctx, day).Return([]string{"Central", "East"}, nil).Once()

	statuses, err := suite.service.SubmissionStatus(ctx, "2026-03-10")

	suite.Require().NoError(err)
	suite.Require().Len(statuses, 3)
	suite.Equal(dto.SubmissionStatusEntry{Name: "Central", Submitted: true}, statuses[0])
	suite.Equal(dto.SubmissionStatusEntry{Name: "North", Submitted: false}, statuses[1])
	suite.Equal(dto.SubmissionStatusEntry{Name: "East", Submitted: true}, statuses[2])
}

func (suite *ReportServiceTestSuite) TestSubmissionStatus_BadDate() {
	_, err := suite.service.SubmissionStatus(context.Background(), "not-a-date")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListReportedLocations", mock.Anything, mock.Anything)
}

// Walks a full report lifecycle across three differently-scoped actors:
// an operator submits, a foreign-branch operator is denied even a read, a
// branch manager edits, and the history exposes the archived value.
func (suite *ReportServiceTestSuite) TestReportLifecycle_AcrossActors() {
	ctx := context.Background()
	operator := operatorActor("op-central", "Central")
	foreign := operatorActor("op-north", "North")
	manager := authz.Actor{
		UserID: "mgr-central",
		Capabilities: domain.NewCapabilitySet(
			domain.CapReportsViewAssigned,
			domain.CapReportsCreate,
			domain.CapReportsEditAssigned,
		),
		Locations: []string{"Central"},
	}

	today := time.Now().Format("2006-01-02")
	suite.mockRepo.On("CreateReport", ctx, mock.MatchedBy(func(r domain.Report) bool {
		return r.CreatedBy == "op-central" && r.Location == "Central"
	})).Return(int64(11), nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.Anything)

	created, err := suite.service.CreateReport(ctx, operator, dto.CreateReportRequest{
		Date:     today,
		Location: "Central",
		Data:     testData(),
		Schema:   testSchema(),
	})
	suite.Require().NoError(err)

	stored := &domain.Report{
		ID:         11,
		ReportDate: created.ReportDate,
		Location:   "Central",
		Data:       testData(),
		Schema:     testSchema(),
		CreatedBy:  "op-central",
	}
	suite.mockRepo.On("FindReportByID", ctx, int64(11)).Return(stored, nil)

	_, err = suite.service.GetReport(ctx, foreign, 11)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	// edit_assigned lets the manager edit a report they did not create.
	edited := domain.ReportData{"Morning_Cash": decimal.NewFromInt(1800), "Evening_Card": decimal.NewFromInt(2300)}
	suite.mockRepo.On("UpdateReportWithHistory", ctx, mock.Anything, "mgr-central", mock.Anything).Return(nil).Once()

	_, err = suite.service.UpdateReport(ctx, manager, 11, dto.UpdateReportRequest{
		Date:     today,
		Location: "Central",
		Data:     edited,
		Schema:   testSchema(),
	})
	suite.Require().NoError(err)

	suite.mockRepo.On("ListRevisions", ctx, int64(11)).Return([]domain.RevisionEntry{
		{ID: 1, ReportID: 11, PriorData: testData()},
	}, nil).Once()

	views, err := suite.service.GetHistory(ctx, operator, 11)
	suite.Require().NoError(err)
	suite.Require().Len(views, 1)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
