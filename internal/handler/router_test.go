package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/makeup-api/internal/dto"
	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
)

type tokenAuth map[string]models.Principal

func (a tokenAuth) Authenticate(ctx context.Context, token string) (*models.Principal, error) {
	p, ok := a[token]
	if !ok {
		return nil, appErrors.ErrUnauthenticated
	}
	return &p, nil
}

type extensionServiceMock struct {
	sweeps int
	grants []dto.ExtensionRequest
}

func (m *extensionServiceMock) Grant(ctx context.Context, admin models.Principal, req dto.ExtensionRequest) (*models.Extension, error) {
	m.grants = append(m.grants, req)
	return &models.Extension{ID: "ext-1", CourseCode: req.CourseCode, ExamType: req.ExamType, AdminEmail: admin.Email, IsActive: true}, nil
}

func (m *extensionServiceMock) Close(ctx context.Context, admin models.Principal, req dto.ExtensionRequest) (bool, error) {
	return false, nil
}

func (m *extensionServiceMock) Status(ctx context.Context, req dto.ExtensionRequest) (*dto.ExtensionStatusResponse, error) {
	return &dto.ExtensionStatusResponse{CourseCode: req.CourseCode, ExamType: req.ExamType}, nil
}

func (m *extensionServiceMock) ListActive(ctx context.Context) ([]models.Extension, error) {
	return []models.Extension{}, nil
}

func (m *extensionServiceMock) SweepExpired(ctx context.Context) (*dto.SweepResponse, error) {
	m.sweeps++
	return &dto.SweepResponse{SweptAt: time.Now()}, nil
}

type mailingListMock struct{ excluded map[string]bool }

func (m *mailingListMock) Status(ctx context.Context, email string) (*dto.MailingListStatus, error) {
	return &dto.MailingListStatus{Email: email, Excluded: m.excluded[email]}, nil
}

func (m *mailingListMock) OptOut(ctx context.Context, email string) (*dto.MailingListStatus, error) {
	m.excluded[email] = true
	return m.Status(ctx, email)
}

func (m *mailingListMock) OptIn(ctx context.Context, email string) (*dto.MailingListStatus, error) {
	delete(m.excluded, email)
	return m.Status(ctx, email)
}

type courseCatalogMock struct{ openFor models.ExamType }

func (m *courseCatalogMock) ListCodes(ctx context.Context) ([]string, error) {
	return []string{"CS101", "CS102"}, nil
}

func (m *courseCatalogMock) OpenCourseCodes(ctx context.Context, examType models.ExamType) ([]string, error) {
	m.openFor = examType
	return []string{"CS101"}, nil
}

type routerFixture struct {
	engine     *gin.Engine
	extensions *extensionServiceMock
	courses    *courseCatalogMock
}

func newRouterFixture() *routerFixture {
	gin.SetMode(gin.TestMode)
	f := &routerFixture{extensions: &extensionServiceMock{}, courses: &courseCatalogMock{}}
	auth := tokenAuth{
		"admin":   {Email: "ttd@example.edu", AccountType: models.AccountAdmin},
		"faculty": {Email: "ic@example.edu", AccountType: models.AccountFaculty, CourseCodes: []string{"CS101"}},
		"student": {Email: "asha@example.edu", AccountType: models.AccountStudent},
	}
	f.engine = gin.New()
	Routes{
		APIPrefix:  "/api/v1",
		CronToken:  "cron-secret",
		Auth:       auth,
		Requests:   NewMakeupRequestHandler(&requestServiceMock{}, exporterMock{}),
		Extensions: NewExtensionHandler(f.extensions),
		Accounts:   NewAccountHandler(&mailingListMock{excluded: map[string]bool{}}),
		Courses:    NewCourseHandler(f.courses, f.courses),
		Metrics:    NewMetricsHandler(nil, nil, nil),
	}.Register(f.engine)
	return f
}

func (f *routerFixture) do(method, path, token string, body []byte, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestRouterAccountResolution(t *testing.T) {
	f := newRouterFixture()

	w := f.do(http.MethodGet, "/api/v1/account", "faculty", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accountType":"faculty"`)
	assert.Contains(t, w.Body.String(), `"courseCodes":["CS101"]`)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/v1/account", "", nil).Code)
}

func TestRouterMailingListRoundTrip(t *testing.T) {
	f := newRouterFixture()

	w := f.do(http.MethodPost, "/api/v1/account/mailing-list/opt-out", "student", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"excluded":true`)

	w = f.do(http.MethodPost, "/api/v1/account/mailing-list/opt-in", "student", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"excluded":false`)
}

func TestRouterExtensionsRequireAdmin(t *testing.T) {
	f := newRouterFixture()
	payload := []byte(`{"courseCode":"CS101","examType":"compre"}`)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/api/v1/extensions", "faculty", payload).Code)
	w := f.do(http.MethodPost, "/api/v1/extensions", "admin", payload)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, f.extensions.grants, 1)

	w = f.do(http.MethodGet, "/api/v1/extensions/status?courseCode=CS101&examType=compre", "student", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"active":false`)
}

func TestRouterCleanupAcceptsCronToken(t *testing.T) {
	f := newRouterFixture()

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/v1/extensions/cleanup", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/api/v1/extensions/cleanup", "student", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/v1/extensions/cleanup", "", nil, "X-Cron-Token", "cron-secret").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/v1/extensions/cleanup", "admin", nil).Code)
	assert.Equal(t, 2, f.extensions.sweeps)
}

func TestRouterSubmissionIsStudentOnly(t *testing.T) {
	f := newRouterFixture()
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/api/v1/requests", "faculty", nil).Code)
}

func TestRouterCourseCodes(t *testing.T) {
	f := newRouterFixture()

	w := f.do(http.MethodGet, "/api/v1/courses/codes", "student", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"CS102"`)

	w = f.do(http.MethodGet, "/api/v1/courses/codes?open=true&examType=midsem", "student", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ExamTypeMidsem, f.courses.openFor)
	assert.NotContains(t, w.Body.String(), `"CS102"`)
}

func TestRouterHealth(t *testing.T) {
	f := newRouterFixture()
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/ready", "", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, f.do(http.MethodGet, "/metrics", "", nil).Code)
}
