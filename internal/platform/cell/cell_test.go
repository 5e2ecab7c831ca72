package cell

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()

	var nilText *string
	text := "£12.00"

	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{name: "currency with thousands", raw: "£1,234.50", want: 1234.50},
		{name: "dollar", raw: "$7", want: 7},
		{name: "negative currency", raw: "-£5.25", want: -5.25},
		{name: "padded", raw: "  3 ", want: 3},
		{name: "empty", raw: "", want: 0},
		{name: "nil", raw: nil, want: 0},
		{name: "nil pointer", raw: nilText, want: 0},
		{name: "pointer", raw: &text, want: 12},
		{name: "garbage", raw: "n/a", want: 0},
		{name: "trailing text", raw: "12abc", want: 0},
		{name: "int", raw: 4, want: 4},
		{name: "float", raw: 2.5, want: 2.5},
		{name: "decimal", raw: decimal.RequireFromString("9.75"), want: 9.75},
		{name: "unsupported type", raw: struct{}{}, want: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ParseNumber(tc.raw))
		})
	}
}

func TestNormalizeAndCleanName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "joe bloggs", NormalizeString("  Joe Bloggs "))
	assert.Equal(t, "", NormalizeString(""))
	assert.Equal(t, "Joe Bloggs", CleanName("  Joe Bloggs "))
	assert.Equal(t, "", CleanName(""))
	assert.Equal(t, KeyOf("JOE bloggs"), KeyOf(" joe Bloggs"))
	assert.True(t, KeyOf("   ").IsZero())
}

func TestParseDateDMY(t *testing.T) {
	t.Parallel()

	earlier := ParseDateDMY("05/03/2026")
	later := ParseDateDMY("06/03/2026")
	garbage := ParseDateDMY("garbage")

	assert.Equal(t, DateKey{Year: 2026, Month: 3, Day: 5}, earlier)
	assert.True(t, earlier.Before(later))
	assert.True(t, garbage.IsZero())
	assert.True(t, garbage.Before(earlier))
	assert.Equal(t, 0, earlier.Compare(ParseDateDMY(" 5/3/2026 ")))
	assert.True(t, ParseDateDMY("01/01/2027").Compare(ParseDateDMY("31/12/2026")) > 0)

	for _, raw := range []string{"", "2026-03-05", "05/03", "a/b/c", "-1/03/2026", "05/03/2026/01"} {
		assert.Truef(t, ParseDateDMY(raw).IsZero(), "expected zero key for %q", raw)
	}
}

func TestDateKeyValid(t *testing.T) {
	t.Parallel()

	assert.True(t, ParseDateDMY("29/02/2024").Valid())
	assert.False(t, ParseDateDMY("29/02/2025").Valid())
	assert.False(t, ParseDateDMY("01/13/2025").Valid())
	assert.False(t, DateKey{}.Valid())
	assert.Equal(t, "01/08/2025", ParseDateDMY("1/8/2025").String())
}
