package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceReadOptions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, SourceMatchDetails.ReadOptions().SkipRows)
	assert.False(t, SourceMatchDetails.ReadOptions().NamedHeaders)
	assert.Equal(t, 4, SourceFines.ReadOptions().SkipRows)
	assert.True(t, SourcePlayerData.ReadOptions().NamedHeaders)
	assert.True(t, SourceTeamSelection.ReadOptions().NamedHeaders)
	assert.Zero(t, SourceBankStatement.ReadOptions().SkipRows)
}

func TestParseSource(t *testing.T) {
	t.Parallel()

	s, err := ParseSource(" Fines ")
	require.NoError(t, err)
	assert.Equal(t, SourceFines, s)

	_, err = ParseSource("lineups")
	require.Error(t, err)
}

func TestColumnsFromMap(t *testing.T) {
	t.Parallel()

	cols, err := MatchColumnsFromMap(map[string]int{"player": 9, "total_points": 30})
	require.NoError(t, err)
	assert.Equal(t, 9, cols.Player)
	assert.Equal(t, 30, cols.TotalPoints)
	assert.Equal(t, DefaultMatchColumns().Date, cols.Date)

	_, err = MatchColumnsFromMap(map[string]int{"shoe_size": 1})
	require.Error(t, err)

	_, err = BankColumnsFromMap(map[string]int{"credit": -1})
	require.Error(t, err)

	fines, err := FineColumnsFromMap(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultFineColumns(), fines)
}
