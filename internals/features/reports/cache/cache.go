package cache

import (
	"fmt"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Response TTLs per principal class.
const (
	PersonalTTL = 5 * time.Minute
	AdminTTL    = 2 * time.Minute
)

const prefix = "dashboard:"

var store = gocache.New(PersonalTTL, 10*time.Minute)

// Key builds a cache key from the report id, the sorted query params
// and, for principal-scoped reports, the principal id.
func Key(report string, params map[string]string, principalID uint) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(report)
	if principalID > 0 {
		fmt.Fprintf(&b, ":u%d", principalID)
	}
	for _, k := range keys {
		fmt.Fprintf(&b, ":%s=%s", k, params[k])
	}
	return b.String()
}

func Get(key string) (interface{}, bool) {
	return store.Get(key)
}

func Set(key string, value interface{}, ttl time.Duration) {
	store.Set(key, value, ttl)
}

// InvalidateDashboards drops every dashboard entry. Write paths call
// this as a coarse signal after a successful mutation.
func InvalidateDashboards() {
	for key := range store.Items() {
		if strings.HasPrefix(key, prefix) {
			store.Delete(key)
		}
	}
}
