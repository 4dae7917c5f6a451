package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
)

func newAccountFixture() *AccountService {
	courses := NewCourseService(newCourseRepoStub(
		models.Course{CourseCode: "CS101", ICEmail: "ic@example.edu"},
		models.Course{CourseCode: "CS102", ICEmail: "IC@example.edu"},
	), nil, 0, nil)
	return NewAccountService(newEmailSetStub("ttd@example.edu"), courses, nil)
}

func TestAccountServiceResolve(t *testing.T) {
	svc := newAccountFixture()
	ctx := context.Background()

	admin, err := svc.Resolve(ctx, "ttd@example.edu", "TTD")
	require.NoError(t, err)
	assert.Equal(t, models.AccountAdmin, admin.AccountType)

	faculty, err := svc.Resolve(ctx, "ic@example.edu", "IC")
	require.NoError(t, err)
	assert.Equal(t, models.AccountFaculty, faculty.AccountType)
	assert.Equal(t, []string{"CS101", "CS102"}, faculty.CourseCodes)

	student, err := svc.Resolve(ctx, "asha@example.edu", "Asha")
	require.NoError(t, err)
	assert.Equal(t, models.AccountStudent, student.AccountType)
	assert.Empty(t, student.CourseCodes)
}

func signSession(t *testing.T, secret string, claims models.SessionClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestIdentityServiceAuthenticate(t *testing.T) {
	svc := NewIdentityService(IdentityConfig{Secret: "s3cret", Issuer: "portal"}, newAccountFixture(), nil)
	valid := models.SessionClaims{
		Email: "ic@example.edu",
		Name:  "IC",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "portal",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	principal, err := svc.Authenticate(context.Background(), signSession(t, "s3cret", valid))
	require.NoError(t, err)
	assert.Equal(t, models.AccountFaculty, principal.AccountType)

	_, err = svc.Authenticate(context.Background(), signSession(t, "wrong", valid))
	require.True(t, errors.Is(err, appErrors.ErrUnauthenticated))

	wrongIssuer := valid
	wrongIssuer.Issuer = "elsewhere"
	_, err = svc.Authenticate(context.Background(), signSession(t, "s3cret", wrongIssuer))
	require.True(t, errors.Is(err, appErrors.ErrUnauthenticated))

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	_, err = svc.Authenticate(context.Background(), signSession(t, "s3cret", expired))
	require.True(t, errors.Is(err, appErrors.ErrUnauthenticated))

	noEmail := valid
	noEmail.Email = " "
	_, err = svc.Authenticate(context.Background(), signSession(t, "s3cret", noEmail))
	require.True(t, errors.Is(err, appErrors.ErrUnauthenticated))
}

func TestMailingListServiceRoundTrip(t *testing.T) {
	svc := NewMailingListService(newEmailSetStub(), nil)
	ctx := context.Background()

	status, err := svc.OptOut(ctx, "asha@example.edu")
	require.NoError(t, err)
	assert.True(t, status.Excluded)

	status, err = svc.Status(ctx, "ASHA@example.edu")
	require.NoError(t, err)
	assert.True(t, status.Excluded)

	status, err = svc.OptIn(ctx, "asha@example.edu")
	require.NoError(t, err)
	assert.False(t, status.Excluded)
}
