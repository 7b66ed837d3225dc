package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sitecrew/daily_report_app/internal/apperrors"
	"github.com/sitecrew/daily_report_app/internal/core/domain"
	portssvc "github.com/sitecrew/daily_report_app/internal/core/ports/services"
	"github.com/sitecrew/daily_report_app/internal/core/services"
	"github.com/sitecrew/daily_report_app/internal/dto"
	"github.com/sitecrew/daily_report_app/internal/utils/dateutil"
)

// --- Mock ReportRepository ---
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindByProjectAndDay(ctx context.Context, projectName string, day time.Time) (*domain.Report, error) {
	args := m.Called(ctx, projectName, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepository) FindLatestBeforeOrOn(ctx context.Context, projectName string, day time.Time) (*domain.Report, error) {
	args := m.Called(ctx, projectName, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepository) FindLatestByDay(ctx context.Context, day time.Time) (*domain.Report, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepository) ListReports(ctx context.Context, projectName *string) ([]domain.Report, error) {
	args := m.Called(ctx, projectName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *MockReportRepository) UpsertDraft(ctx context.Context, report domain.Report) (*domain.Report, error) {
	args := m.Called(ctx, report)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepository) MarkSubmitted(ctx context.Context, projectName string, day time.Time, reportID string, submittedAt time.Time, userID string) (*domain.Report, error) {
	args := m.Called(ctx, projectName, day, reportID, submittedAt, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

// --- Test Suite ---
type ReportServiceTestSuite struct {
	suite.Suite
	mockRepo *MockReportRepository
	service  portssvc.ReportSvcFacade
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportRepository)
	suite.service = services.NewReportService(suite.mockRepo)
}

func dayUTC(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func saveRequest(project, date string) dto.SaveReportRequest {
	return dto.SaveReportRequest{
		ProjectName:   project,
		ReportDate:    date,
		ActivityToday: "Poured foundation",
		Materials: []dto.LineItemInput{
			{Description: "Cement", Unit: "bags", Today: decimal.NewFromInt(5)},
		},
	}
}

// --- SaveDraft ---

func (suite *ReportServiceTestSuite) TestSaveDraft_FirstReportStartsFromZero() {
	ctx := context.Background()
	userID := uuid.NewString()
	day := dayUTC(2024, 3, 1)
	req := saveRequest("Bridge A", "2024-03-01")

	suite.mockRepo.On("FindByProjectAndDay", ctx, "Bridge A", day).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindLatestBeforeOrOn", ctx, "Bridge A", dayUTC(2024, 2, 29)).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("UpsertDraft", ctx, mock.MatchedBy(func(r domain.Report) bool {
		return r.ProjectName == "Bridge A" &&
			r.ReportDate.Equal(day) &&
			r.Status == domain.StatusDraft &&
			len(r.Materials) == 1 &&
			r.Materials[0].Prev.IsZero() &&
			r.Materials[0].Accumulated.Equal(decimal.NewFromInt(5)) &&
			r.CreatedBy == userID
	})).Return(&domain.Report{ReportID: uuid.NewString()}, nil).Once()

	saved, err := suite.service.SaveDraft(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(saved)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestSaveDraft_RollsForwardFromBaseline() {
	ctx := context.Background()
	day := dayUTC(2024, 3, 3)
	req := saveRequest("Bridge A", "2024-03-03")
	req.Materials = []dto.LineItemInput{
		{Description: "Cement", Unit: "bags", Today: decimal.NewFromInt(2)},
		{Description: "Sand", Unit: "m3", Today: decimal.NewFromInt(4)},
	}

	baseline := &domain.Report{
		ProjectName: "Bridge A",
		ReportDate:  dayUTC(2024, 3, 1),
		Materials: []domain.LineItem{
			{Description: "Cement", Unit: "bags", Prev: decimal.NewFromInt(10), Today: decimal.NewFromInt(5), Accumulated: decimal.NewFromInt(15)},
		},
	}

	suite.mockRepo.On("FindByProjectAndDay", ctx, "Bridge A", day).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindLatestBeforeOrOn", ctx, "Bridge A", dayUTC(2024, 3, 2)).Return(baseline, nil).Once()
	suite.mockRepo.On("UpsertDraft", ctx, mock.MatchedBy(func(r domain.Report) bool {
		return len(r.Materials) == 2 &&
			r.Materials[0].Prev.Equal(decimal.NewFromInt(15)) &&
			r.Materials[0].Accumulated.Equal(decimal.NewFromInt(17)) &&
			r.Materials[1].Prev.IsZero() &&
			r.Materials[1].Accumulated.Equal(decimal.NewFromInt(4))
	})).Return(&domain.Report{ReportID: uuid.NewString()}, nil).Once()

	_, err := suite.service.SaveDraft(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestSaveDraft_BaselineExcludesSameDay() {
	// Re-saving a day must not use that day's own stored report as baseline.
	ctx := context.Background()
	day := dayUTC(2024, 3, 3)
	req := saveRequest("Bridge A", "2024-03-03")

	existingDraft := &domain.Report{
		ReportID:    uuid.NewString(),
		ProjectName: "Bridge A",
		ReportDate:  day,
		Status:      domain.StatusDraft,
		Materials: []domain.LineItem{
			{Description: "Cement", Prev: decimal.NewFromInt(15), Today: decimal.NewFromInt(2), Accumulated: decimal.NewFromInt(17)},
		},
	}

	suite.mockRepo.On("FindByProjectAndDay", ctx, "Bridge A", day).Return(existingDraft, nil).Once()
	suite.mockRepo.On("FindLatestBeforeOrOn", ctx, "Bridge A", dayUTC(2024, 3, 2)).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("UpsertDraft", ctx, mock.MatchedBy(func(r domain.Report) bool {
		return r.Materials[0].Prev.IsZero() && r.Materials[0].Accumulated.Equal(decimal.NewFromInt(5))
	})).Return(&domain.Report{ReportID: existingDraft.ReportID}, nil).Once()

	_, err := suite.service.SaveDraft(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestSaveDraft_NormalizesDatetimeInput() {
	ctx := context.Background()
	day := dayUTC(2024, 3, 1)
	req := saveRequest("Bridge A", "2024-03-01T23:15:00Z")

	suite.mockRepo.On("FindByProjectAndDay", ctx, "Bridge A", day).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindLatestBeforeOrOn", ctx, "Bridge A", dayUTC(2024, 2, 29)).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("UpsertDraft", ctx, mock.MatchedBy(func(r domain.Report) bool {
		return r.ReportDate.Equal(day)
	})).Return(&domain.Report{ReportID: uuid.NewString()}, nil).Once()

	_, err := suite.service.SaveDraft(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestSaveDraft_RejectsInvalidDateBeforeStoreAccess() {
	ctx := context.Background()
	req := saveRequest("Bridge A", "not-a-date")

	saved, err := suite.service.SaveDraft(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(saved)
	suite.ErrorIs(err, apperrors.ErrInvalidDate)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindByProjectAndDay", mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertDraft", mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestSaveDraft_RejectsBlankProjectName() {
	ctx := context.Background()
	req := saveRequest("   ", "2024-03-01")

	saved, err := suite.service.SaveDraft(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(saved)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertDraft", mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestSaveDraft_RejectsAfterSubmission() {
	ctx := context.Background()
	day := dayUTC(2024, 3, 1)
	req := saveRequest("Bridge A", "2024-03-01")
	submittedAt := time.Now()

	existing := &domain.Report{
		ReportID:    uuid.NewString(),
		ProjectName: "Bridge A",
		ReportDate:  day,
		Status:      domain.StatusSubmitted,
		SubmittedAt: &submittedAt,
	}

	suite.mockRepo.On("FindByProjectAndDay", ctx, "Bridge A", day).Return(existing, nil).Once()

	saved, err := suite.service.SaveDraft(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(saved)
	suite.ErrorIs(err, apperrors.ErrAlreadySubmitted)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertDraft", mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestSaveDraft_SubmitLandsBetweenCheckAndUpsert() {
	// The status pre-check sees a draft, a concurrent submit flips the row,
	// and the guarded upsert then refuses it.
	ctx := context.Background()
	day := dayUTC(2024, 3, 1)
	req := saveRequest("Bridge A", "2024-03-01")

	suite.mockRepo.On("FindByProjectAndDay", ctx, "Bridge A", day).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindLatestBeforeOrOn", ctx, "Bridge A", dayUTC(2024, 2, 29)).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("UpsertDraft", ctx, mock.AnythingOfType("domain.Report")).Return(nil, apperrors.ErrAlreadySubmitted).Once()

	saved, err := suite.service.SaveDraft(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(saved)
	suite.ErrorIs(err, apperrors.ErrAlreadySubmitted)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestSaveDraft_RepoError() {
	ctx := context.Background()
	day := dayUTC(2024, 3, 1)
	req := saveRequest("Bridge A", "2024-03-01")
	expectedErr := assert.AnError

	suite.mockRepo.On("FindByProjectAndDay", ctx, "Bridge A", day).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindLatestBeforeOrOn", ctx, "Bridge A", dayUTC(2024, 2, 29)).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("UpsertDraft", ctx, mock.AnythingOfType("domain.Report")).Return(nil, expectedErr).Once()

	saved, err := suite.service.SaveDraft(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(saved)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Submit ---

func (suite *ReportServiceTestSuite) TestSubmit_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	day := dayUTC(2024, 3, 1)
	submittedAt := time.Now()
	stored := &domain.Report{
		ReportID:    uuid.NewString(),
		ProjectName: "Bridge A",
		ReportDate:  day,
		Status:      domain.StatusSubmitted,
		SubmittedAt: &submittedAt,
	}

	suite.mockRepo.On("MarkSubmitted", ctx, "Bridge A", day, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time"), userID).
		Return(stored, nil).Once()

	report, err := suite.service.Submit(ctx, "Bridge A", "2024-03-01", userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.Equal(domain.StatusSubmitted, report.Status)
	suite.NotNil(report.SubmittedAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestSubmit_InvalidDate() {
	ctx := context.Background()

	report, err := suite.service.Submit(ctx, "Bridge A", "03/01/2024 but wrong", uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrInvalidDate)
	suite.mockRepo.AssertNotCalled(suite.T(), "MarkSubmitted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Lookups ---

func (suite *ReportServiceTestSuite) TestGetAll_FiltersByProject() {
	ctx := context.Background()
	project := "Bridge A"
	expected := []domain.Report{{ReportID: uuid.NewString(), ProjectName: project}}

	suite.mockRepo.On("ListReports", ctx, &project).Return(expected, nil).Once()

	reports, err := suite.service.GetAll(ctx, &project)

	suite.Require().NoError(err)
	suite.Equal(expected, reports)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestGetAll_EmptyResultIsNotNil() {
	ctx := context.Background()

	suite.mockRepo.On("ListReports", ctx, (*string)(nil)).Return(nil, nil).Once()

	reports, err := suite.service.GetAll(ctx, nil)

	suite.Require().NoError(err)
	suite.NotNil(reports)
	suite.Empty(reports)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestGetByDay_NormalizesBeforeLookup() {
	ctx := context.Background()
	day := dayUTC(2024, 3, 1)
	expected := &domain.Report{ReportID: uuid.NewString(), ProjectName: "Bridge A", ReportDate: day}

	suite.mockRepo.On("FindByProjectAndDay", ctx, "Bridge A", day).Return(expected, nil).Once()

	report, err := suite.service.GetByDay(ctx, "Bridge A", "2024-03-01T08:30:00Z")

	suite.Require().NoError(err)
	suite.Equal(expected, report)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestGetByDay_NotFound() {
	ctx := context.Background()
	day := dayUTC(2024, 3, 1)

	suite.mockRepo.On("FindByProjectAndDay", ctx, "Bridge A", day).Return(nil, apperrors.ErrNotFound).Once()

	report, err := suite.service.GetByDay(ctx, "Bridge A", "2024-03-01")

	suite.Require().Error(err)
	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestGetLatestByDay_Success() {
	ctx := context.Background()
	day := dayUTC(2024, 3, 1)
	expected := &domain.Report{ReportID: uuid.NewString(), ReportDate: day}

	suite.mockRepo.On("FindLatestByDay", ctx, day).Return(expected, nil).Once()

	report, err := suite.service.GetLatestByDay(ctx, "2024-03-01")

	suite.Require().NoError(err)
	suite.Equal(expected, report)
	suite.mockRepo.AssertExpectations(suite.T())
}

// Guard: normalized day arithmetic used by the service matches dateutil.
func (suite *ReportServiceTestSuite) TestBaselineDayIsStrictlyEarlier() {
	day := dayUTC(2024, 3, 1)
	suite.True(dateutil.PrevDay(day).Before(day))
	suite.Equal(dayUTC(2024, 2, 29), dateutil.PrevDay(day))
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
