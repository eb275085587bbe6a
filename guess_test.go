package swiftcsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuessDialectSemicolon(t *testing.T) {
	t.Parallel()

	sample := []byte("a;b;c\n1;2;3\n4;5;6\n")
	res, err := GuessDialect(sample, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, byte(';'), res.Delimiter)
	assert.Equal(t, 0, res.HeaderRow)
}

func TestGuessDialectPicksBestScoringCandidate(t *testing.T) {
	t.Parallel()

	// Splitting on ',' gives an inconsistent field count per row (some
	// rows have an embedded comma, some don't), while splitting on '|'
	// gives a clean 3 fields on every row, so '|' must win on score even
	// though ',' is tried first in the default candidate list.
	sample := []byte("a,x|b|c\n1,y|2|3\n4|5|6\n7|8|9\n")
	res, err := GuessDialect(sample, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, byte('|'), res.Delimiter)
}

func TestGuessDialectDefaultsToFirstCandidateOnNoSignal(t *testing.T) {
	t.Parallel()

	res, err := GuessDialect(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultDelimiterCandidates[0], res.Delimiter)
}

func TestModalFieldCountBreaksTiesBySmallestCount(t *testing.T) {
	t.Parallel()

	// 3 and 5 are tied at two occurrences each; the result must not depend
	// on map iteration order, so it should deterministically prefer 3.
	modal, occurrences := modalFieldCount([]int{3, 5, 5, 3})
	assert.Equal(t, 3, modal)
	assert.Equal(t, 2, occurrences)
}

func TestModalFieldCountSingleValue(t *testing.T) {
	t.Parallel()

	modal, occurrences := modalFieldCount([]int{4, 4, 4})
	assert.Equal(t, 4, modal)
	assert.Equal(t, 3, occurrences)
}
