package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "makeup:")
	ctx := context.Background()

	var dest map[string]string
	err := repo.Get(ctx, "course:CS101", &dest)
	require.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.NoError(t, repo.Set(ctx, "course:CS101", map[string]string{"a": "b"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "course:*"))
	assert.NoError(t, repo.Ping(ctx))
	assert.Equal(t, "makeup:course:CS101", repo.key("course:CS101"))
}
