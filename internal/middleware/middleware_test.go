package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
	"github.com/noah-isme/makeup-api/pkg/logger"
)

type authenticatorStub map[string]models.Principal

func (a authenticatorStub) Authenticate(ctx context.Context, token string) (*models.Principal, error) {
	p, ok := a[token]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "invalid session token")
	}
	return &p, nil
}

var testAuth = authenticatorStub{
	"admin-token":   {Email: "ttd@example.edu", AccountType: models.AccountAdmin},
	"student-token": {Email: "asha@example.edu", AccountType: models.AccountStudent},
}

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		principal, _ := PrincipalFrom(c)
		email := ""
		if principal != nil {
			email = principal.Email
		}
		c.JSON(http.StatusOK, gin.H{"email": email, "actor": c.GetString(logger.ActorKey)})
	})
	r.GET("/", handlers...)
	return r
}

func perform(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentityRequiresBearerToken(t *testing.T) {
	r := newTestRouter(Identity(testAuth))

	assert.Equal(t, http.StatusUnauthorized, perform(r, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, map[string]string{"Authorization": "Basic abc"}).Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, map[string]string{"Authorization": "Bearer nope"}).Code)

	w := perform(r, map[string]string{"Authorization": "bearer student-token"})
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "asha@example.edu", body["email"])
	assert.Equal(t, "asha@example.edu", body["actor"])
}

func TestRequireAccount(t *testing.T) {
	r := newTestRouter(Identity(testAuth), RequireAccount(models.AccountAdmin))

	assert.Equal(t, http.StatusForbidden, perform(r, map[string]string{"Authorization": "Bearer student-token"}).Code)
	assert.Equal(t, http.StatusOK, perform(r, map[string]string{"Authorization": "Bearer admin-token"}).Code)

	bare := newTestRouter(RequireAccount(models.AccountAdmin))
	assert.Equal(t, http.StatusUnauthorized, perform(bare, nil).Code)
}

func TestAdminOrCronToken(t *testing.T) {
	r := newTestRouter(OptionalIdentity(testAuth), AdminOrCronToken("cron-secret"))

	assert.Equal(t, http.StatusOK, perform(r, map[string]string{"Authorization": "Bearer admin-token"}).Code)
	assert.Equal(t, http.StatusForbidden, perform(r, map[string]string{"Authorization": "Bearer student-token"}).Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, map[string]string{CronTokenHeader: "guess"}).Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, nil).Code)

	w := perform(r, map[string]string{CronTokenHeader: "cron-secret"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"actor":"cron"`)

	disabled := newTestRouter(OptionalIdentity(testAuth), AdminOrCronToken(""))
	assert.Equal(t, http.StatusUnauthorized, perform(disabled, map[string]string{CronTokenHeader: ""}).Code)
}
