package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFullName(t *testing.T) {
	t.Run("single token doubles as family", func(t *testing.T) {
		p := ParseFullName("Ahmad")
		assert.Equal(t, "Ahmad", p.First)
		assert.Equal(t, "Ahmad", p.Family)
		assert.Empty(t, p.SubFamily)
	})

	t.Run("two tokens", func(t *testing.T) {
		p := ParseFullName("Ahmad Rashidi")
		assert.Equal(t, "Ahmad", p.First)
		assert.Equal(t, "Rashidi", p.Family)
		assert.Empty(t, p.SubFamily)
	})

	t.Run("long name fills middles and sub family", func(t *testing.T) {
		p := ParseFullName("Ahmad Khalid Yousef Salem Al Rashidi")
		assert.Equal(t, "Ahmad", p.First)
		assert.Equal(t, "Khalid", p.Second)
		assert.Equal(t, "Yousef", p.Third)
		assert.Equal(t, "Salem", p.Fourth)
		assert.Equal(t, "Al", p.SubFamily)
		assert.Equal(t, "Rashidi", p.Family)
	})

	t.Run("extra whitespace is ignored", func(t *testing.T) {
		p := ParseFullName("  Ahmad   Khalid  Rashidi ")
		assert.Equal(t, "Ahmad", p.First)
		assert.Equal(t, "Khalid", p.SubFamily)
		assert.Equal(t, "Rashidi", p.Family)
	})

	t.Run("empty input", func(t *testing.T) {
		p := ParseFullName("   ")
		assert.Empty(t, p.First)
		assert.Empty(t, p.Family)
	})
}

func TestJoinNameSkipsEmptySlots(t *testing.T) {
	p := NameParts{First: "Ahmad", Third: "Yousef"}
	assert.Equal(t, "Ahmad Yousef", p.JoinName())
}

func TestJoinNameRoundTrip(t *testing.T) {
	p := ParseFullName("Ahmad Khalid Yousef Al Rashidi")
	assert.Equal(t, "Ahmad Khalid Yousef", p.JoinName())
}
