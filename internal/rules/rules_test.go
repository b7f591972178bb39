package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmail(t *testing.T) {
	valid := []string{"ion@example.com", "a.b@c.ro", "x+tag@sub.domain.org"}
	invalid := []string{"", "not-an-email", "ion@example", "@example.com", "ion@@example.com", "ion @example.com", "ion@exa mple.com"}

	for _, s := range valid {
		assert.True(t, IsEmail(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsEmail(s), s)
	}
}

func TestIsPhone(t *testing.T) {
	assert.True(t, IsPhone("0712345678"))
	assert.True(t, IsPhone("+40 (712) 345-678"))
	assert.False(t, IsPhone("071234567"))
	assert.False(t, IsPhone("0712abc678"))
}

func TestHasMinLength(t *testing.T) {
	assert.True(t, HasMinLength("Ion", 3))
	assert.True(t, HasMinLength("Ană", 3))
	assert.False(t, HasMinLength("  Io  ", 3))
}

func TestGuestsInRange(t *testing.T) {
	for n := -2; n <= 12; n++ {
		assert.Equal(t, n >= 1 && n <= 8, GuestsInRange(n), "guests=%d", n)
	}
}

func TestIsPast(t *testing.T) {
	loc := time.FixedZone("EET", 2*60*60)
	now := time.Date(2026, 10, 15, 23, 30, 0, 0, loc)

	today, err := ParseDate("2026-10-15", loc)
	require.NoError(t, err)
	yesterday, err := ParseDate("2026-10-14", loc)
	require.NoError(t, err)

	assert.False(t, IsPast(today, now))
	assert.True(t, IsPast(yesterday, now))
}

func TestNights(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Bucharest")
	if err != nil {
		t.Skip("tzdata not available")
	}

	// Spans the end of daylight saving time
	in, err := ParseDate("2026-10-24", loc)
	require.NoError(t, err)
	out, err := ParseDate("2026-10-27", loc)
	require.NoError(t, err)

	assert.Equal(t, 3, Nights(in, out))
	assert.Equal(t, 0, Nights(in, in))

	// the 25-hour night of 2026-10-25
	dstIn, err := ParseDate("2026-10-25", loc)
	require.NoError(t, err)
	dstOut, err := ParseDate("2026-10-26", loc)
	require.NoError(t, err)
	assert.Equal(t, 1, Nights(dstIn, dstOut))
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("15/10/2026", time.UTC)
	assert.Error(t, err)
}
