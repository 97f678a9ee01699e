package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsDeterministic(t *testing.T) {
	a := Key("personal", map[string]string{"days": "30", "scope": "team"}, 7)
	b := Key("personal", map[string]string{"scope": "team", "days": "30"}, 7)
	assert.Equal(t, a, b)
	assert.Equal(t, "dashboard:personal:u7:days=30:scope=team", a)
}

func TestKeySeparatesPrincipals(t *testing.T) {
	assert.NotEqual(t,
		Key("personal", nil, 1),
		Key("personal", nil, 2))
	// shared reports carry no principal suffix
	assert.Equal(t, "dashboard:admin", Key("admin", nil, 0))
}

func TestSetGetAndInvalidate(t *testing.T) {
	key := Key("personal", nil, 42)
	Set(key, "payload", time.Minute)

	got, ok := Get(key)
	require.True(t, ok)
	assert.Equal(t, "payload", got)

	InvalidateDashboards()
	_, ok = Get(key)
	assert.False(t, ok)
}
