package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCatalog_PreservesOrder(t *testing.T) {
	body := `{
		"Soccer Team": {"description": "Drills", "schedule": "Mon", "max_participants": 22, "participants": ["alex@mergington.edu"]},
		"Art Club": {"description": "Painting", "schedule": "Wed", "max_participants": 15, "participants": []},
		"Chess Club": {"description": "Strategy", "schedule": "Fri", "max_participants": 12, "participants": ["michael@mergington.edu", "daniel@mergington.edu"]}
	}`
	catalog, err := DecodeCatalog(strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, []string{"Soccer Team", "Art Club", "Chess Club"}, catalog.Names())

	chess, ok := catalog.Find("Chess Club")
	require.True(t, ok)
	assert.Equal(t, "Strategy", chess.Description)
	assert.Equal(t, "Fri", chess.Schedule)
	assert.Equal(t, 12, chess.MaxParticipants)
	assert.Equal(t, []string{"michael@mergington.edu", "daniel@mergington.edu"}, chess.Participants)
	assert.Equal(t, 10, chess.SpotsLeft())

	_, ok = catalog.Find("Drama Club")
	assert.False(t, ok)
}

func TestDecodeCatalog_AbsentParticipantsAreEmpty(t *testing.T) {
	body := `{"A": {"description": "d", "schedule": "s", "max_participants": 3},
	          "B": {"description": "d", "schedule": "s", "max_participants": 4, "participants": null}}`
	catalog, err := DecodeCatalog(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Equal(t, 3, catalog[0].SpotsLeft())
	assert.Equal(t, 4, catalog[1].SpotsLeft())
	assert.NotNil(t, catalog[0].Participants)
}

func TestDecodeCatalog_Empty(t *testing.T) {
	catalog, err := DecodeCatalog(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Empty(t, catalog)
}

func TestDecodeCatalog_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	body := `{"A": {"max_participants": 1}, "B": {"max_participants": 2}, "A": {"max_participants": 9}}`
	catalog, err := DecodeCatalog(strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, catalog.Names())
	assert.Equal(t, 9, catalog[0].MaxParticipants)
}

func TestDecodeCatalog_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"array", `[{"name": "A"}]`},
		{"null", `null`},
		{"null activity", `{"A": null}`},
		{"missing capacity", `{"A": {"description": "d", "schedule": "s"}}`},
		{"capacity as string", `{"A": {"max_participants": "ten"}}`},
		{"participants as string", `{"A": {"max_participants": 1, "participants": "x"}}`},
		{"null participant", `{"A": {"max_participants": 1, "participants": [null]}}`},
		{"numeric participant", `{"A": {"max_participants": 1, "participants": [7]}}`},
		{"truncated", `{"A": {"max_participants": 1}`},
		{"trailing data", `{} {}`},
		{"empty body", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCatalog(strings.NewReader(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestActivity_SpotsLeftCanBeNegative(t *testing.T) {
	a := Activity{MaxParticipants: 1, Participants: []string{"a@x.io", "b@x.io"}}
	assert.Equal(t, -1, a.SpotsLeft())
}
