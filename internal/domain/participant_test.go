package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "?"},
		{"single segment", "alice", "AL"},
		{"email", "alice.smith@example.com", "AS"},
		{"school email", "michael@mergington.edu", "MM"},
		{"one char segment", "a", "A"},
		{"only separators", "@@", "@"},
		{"leading separators", "__bob", "BO"},
		{"spaces", "  mary  jane  ", "MJ"},
		{"tab and newline", "mary\tjane\nwatson", "MJ"},
		{"mixed case", "dAnIeL", "DA"},
		{"multibyte", "émile.zola", "ÉZ"},
		{"digits", "42", "42"},
		{"no-break space", "ana\u00a0bob", "AB"},
		{"byte order mark", "ana\ufeffbob", "AB"},
		{"next line is not whitespace", "ana\u0085bob", "AN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Initials(tt.in))
		})
	}
}

func TestInitials_SeparatorIndependent(t *testing.T) {
	want := Initials("alice smith")
	for _, sep := range []string{"@", ".", "_", "-", " ", "@.", "-_ "} {
		got := Initials("alice" + sep + "smith")
		require.Equal(t, want, got, "separator %q", sep)
	}
}

func TestInitials_UppercaseNonEmptyDeterministic(t *testing.T) {
	inputs := []string{"", "x", "alice", "ALICE@EX.COM", "-", "a-b-c", "john.doe_99@school.org", "  "}
	for _, in := range inputs {
		got := Initials(in)
		require.NotEmpty(t, got, "input %q", in)
		require.Equal(t, strings.ToUpper(got), got, "input %q", in)
		require.Equal(t, got, Initials(in), "input %q", in)
		require.Equal(t, got, Initials(strings.ToLower(in)), "input %q", in)
	}
}
