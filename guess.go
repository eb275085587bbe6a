package swiftcsv

import (
	"context"

	"go.uber.org/zap"
)

const (
	guessMaxRows  = 100
	guessMaxBytes = 64 * 1024
)

var defaultDelimiterCandidates = []byte{',', '|', '\t', ';', '^'}

// GuessResult reports the dialect guesser's chosen delimiter and detected
// header row position.
type GuessResult struct {
	Delimiter byte
	HeaderRow int
}

// GuessDialect probes a byte-bounded prefix sample against candidates,
// scoring each by how consistently it produces the same field count across
// the sampled rows, and returns the best-scoring delimiter along with the
// index of the first row matching that modal field count. Ties in score go
// to the candidate with the larger modal field count, and remaining ties to
// the earlier candidate. sample is truncated to 64 KiB and at most 100 rows are
// sampled per candidate, matching the resource bounds a one-shot dialect
// probe should stay within.
func GuessDialect(sample []byte, candidates []byte, logger *zap.Logger) (GuessResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(candidates) == 0 {
		candidates = defaultDelimiterCandidates
	}
	if len(sample) > guessMaxBytes {
		sample = sample[:guessMaxBytes]
	}

	bestScore := -1.0
	bestModal := -1
	best := candidates[0]
	var bestCounts []int

	for _, c := range candidates {
		counts, err := sampleFieldCounts(sample, c)
		if err != nil || len(counts) == 0 {
			continue
		}
		modal, occurrences := modalFieldCount(counts)
		score := float64(occurrences) / float64(len(counts))
		logger.Debug("dialect candidate scored", zap.ByteString("delimiter", []byte{c}), zap.Float64("score", score), zap.Int("rows_sampled", len(counts)))
		if score > bestScore || (score == bestScore && modal > bestModal) {
			bestScore = score
			bestModal = modal
			best = c
			bestCounts = counts
		}
	}

	header := 0
	if bestCounts != nil {
		modal, _ := modalFieldCount(bestCounts)
		for i, c := range bestCounts {
			if c == modal {
				header = i
				break
			}
		}
	}

	logger.Info("dialect guessed", zap.ByteString("delimiter", []byte{best}), zap.Int("header_row", header), zap.Float64("score", bestScore))
	return GuessResult{Delimiter: best, HeaderRow: header}, nil
}

func sampleFieldCounts(sample []byte, comma byte) ([]int, error) {
	d := DefaultDialect()
	d.Comma = comma
	d.DetectBOM = false
	d.HeaderRow = NoHeader
	r, err := NewReader(NewSliceByteSource(sample), d)
	if err != nil {
		return nil, err
	}
	counts := make([]int, 0, guessMaxRows)
	ctx := context.Background()
	for len(counts) < guessMaxRows {
		row, err := r.NextRow(ctx)
		if err != nil {
			break
		}
		counts = append(counts, row.Len())
	}
	return counts, nil
}

// modalFieldCount returns the most frequent field count in counts. Ties are
// broken by preferring the smaller field count, so the result depends only
// on the multiset of counts, never on the order rows happened to arrive in.
func modalFieldCount(counts []int) (modal int, occurrences int) {
	freq := make(map[int]int, len(counts))
	for _, c := range counts {
		freq[c]++
	}
	occurrences = -1
	for _, c := range counts {
		n := freq[c]
		if n > occurrences || (n == occurrences && c < modal) {
			modal = c
			occurrences = n
		}
	}
	return modal, occurrences
}
