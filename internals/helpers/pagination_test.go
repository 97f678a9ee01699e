package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveFor(t *testing.T, target string, defaultPerPage, maxPerPage int) Paging {
	t.Helper()
	app := fiber.New()
	var got Paging
	app.Get("/", func(c *fiber.Ctx) error {
		got = ResolvePaging(c, defaultPerPage, maxPerPage)
		return c.SendString("ok")
	})
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return got
}

func TestResolvePaging(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		pg := resolveFor(t, "/", 50, 200)
		assert.Equal(t, 1, pg.Page)
		assert.Equal(t, 50, pg.PerPage)
		assert.Equal(t, 0, pg.Offset)
	})

	t.Run("explicit page and per_page", func(t *testing.T) {
		pg := resolveFor(t, "/?page=3&per_page=20", 50, 200)
		assert.Equal(t, 3, pg.Page)
		assert.Equal(t, 20, pg.PerPage)
		assert.Equal(t, 40, pg.Offset)
	})

	t.Run("limit alias", func(t *testing.T) {
		pg := resolveFor(t, "/?limit=25", 50, 200)
		assert.Equal(t, 25, pg.PerPage)
	})

	t.Run("caps at max", func(t *testing.T) {
		pg := resolveFor(t, "/?per_page=9999", 50, 200)
		assert.Equal(t, 200, pg.PerPage)
	})

	t.Run("garbage falls back", func(t *testing.T) {
		pg := resolveFor(t, "/?page=-5&per_page=abc", 50, 200)
		assert.Equal(t, 1, pg.Page)
		assert.Equal(t, 50, pg.PerPage)
	})
}

func TestBuildPagination(t *testing.T) {
	p := BuildPagination(101, 2, 50)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	empty := BuildPagination(0, 1, 50)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
