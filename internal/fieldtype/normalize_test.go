package fieldtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeValue(t *testing.T) {
	cases := []struct {
		name string
		typ  Type
		in   string
		want string
	}{
		{"name collapses whitespace", TypeName, "  John   Q.  Smith ", "John Q. Smith"},
		{"id strips separators and uppercases", TypeID, "ab-12 34", "AB1234"},
		{"alphanumeric strips separators", TypeAlphanumeric, "frm-2023 001", "FRM2023001"},
		{"date renders ISO", TypeDate, "05/01/1990", "1990-05-01"},
		{"date two digit year", TypeDate, "5/1/90", "1990-05-01"},
		{"date spelled out", TypeDate, "21st June, 2023", "2023-06-21"},
		{"date pass-through on garbage", TypeDate, "N/A", "N/A"},
		{"phone keeps digits only", TypeContactNumber, "+1 (555) 010-0199", "15550100199"},
		{"email trims and lowercases", TypeEmail, "  A.Person@Example.ORG ", "a.person@example.org"},
		{"address tidies comma spacing", TypeAddress, "12  High St , Springfield", "12 High St, Springfield"},
		{"generic text", TypeGenericText, "Advanced\tWidgetry  Course", "Advanced Widgetry Course"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeValue(tc.in, tc.typ))
		})
	}
}

// Normalization must be idempotent for every registered type: running it
// twice yields the same value as running it once.
func TestNormalizeValue_Idempotent(t *testing.T) {
	samples := []string{
		"John   Smith",
		"AB-1234",
		"05/01/1990",
		"1990-05-01",
		"21st June, 2023",
		"+1 (555) 010-0199",
		" A.Person@Example.ORG ",
		"12  High St , Springfield",
		"N/A",
		"",
	}

	for _, typ := range Types() {
		for _, v := range samples {
			once := NormalizeValue(v, typ)
			twice := NormalizeValue(once, typ)
			assert.Equal(t, once, twice, "type %s input %q", typ, v)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Run("recognized formats agree on the calendar day", func(t *testing.T) {
		forms := []string{"1990-05-01", "05/01/1990", "5/1/1990", "05-01-1990", "05.01.1990", "May 1, 1990", "1st May 1990"}
		for _, f := range forms {
			parsed, ok := ParseDate(f)
			require.True(t, ok, "format %q", f)
			assert.Equal(t, "1990-05-01", parsed.Format("2006-01-02"), "format %q", f)
		}
	})

	t.Run("unparseable input reports failure", func(t *testing.T) {
		for _, f := range []string{"", "N/A", "tomorrow", "13/32/1990"} {
			_, ok := ParseDate(f)
			assert.False(t, ok, "input %q", f)
		}
	})
}
