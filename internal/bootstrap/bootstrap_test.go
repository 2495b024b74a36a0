package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/toursearch/internal/adapters/cache"
	"github.com/zatekoja/toursearch/internal/domain/entities"
	"github.com/zatekoja/toursearch/pkg/config"
)

func TestBuild_MockStack(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "false")
	cfg, err := config.Load()
	require.NoError(t, err)

	stack := Build(context.Background(), cfg, nil, true)
	t.Cleanup(stack.Close)

	assert.IsType(t, &cache.MemoryAdapter{}, stack.Cache)

	countries, err := stack.Directory.Countries(context.Background())
	require.NoError(t, err)
	assert.Len(t, countries, 3)

	session := stack.NewSession()
	t.Cleanup(session.Close)
	assert.NotEmpty(t, session.ID())
	assert.Equal(t, entities.SearchStatusIdle, session.View().Status)
	assert.NotEqual(t, session.ID(), stack.NewSession().ID())
}
