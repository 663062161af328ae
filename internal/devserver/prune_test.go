package devserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrmconsole/internal/domain/auth"
)

func TestPruneRevokedDropsOnlyExpiredTokens(t *testing.T) {
	s, err := New(Options{Secret: "s"})
	require.NoError(t, err)

	live, err := auth.GenerateToken("s", auth.Claims{UserID: "1"}, time.Hour)
	require.NoError(t, err)
	stale, err := auth.GenerateToken("s", auth.Claims{UserID: "2"}, -time.Hour)
	require.NoError(t, err)
	s.revoked[live] = time.Now()
	s.revoked[stale] = time.Now()

	assert.Equal(t, 1, s.PruneRevoked())
	assert.True(t, s.Revoked(live))
	assert.False(t, s.Revoked(stale))
}
