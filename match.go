package borelog

import (
	"math"
	"sort"
)

// ColumnPair is a depth column matched with its description region.
type ColumnPair struct {
	Column DepthColumn
	Region Rect
	Score  float64
}

// ScoreColumnMatch rates how well a description region fits a depth column.
// A tall, low-noise column sitting tightly next to its region scores highest:
// the score is (height - distance) decayed by the noise penalty base per
// stray word. Pass nil words to skip the noise penalty.
func ScoreColumnMatch(column DepthColumn, region Rect, words []Word, params MatchingParams) float64 {
	rect := column.Rect()
	distance := math.Abs(rect.Y0-region.Y0) +
		math.Abs(rect.Y1-region.Y1) +
		math.Abs(rect.X1-region.X0)
	height := rect.Y1 - rect.Y0

	noise := 0
	if len(words) > 0 {
		noise = column.NoiseCount(words)
	}
	return (height - distance) * math.Pow(params.NoisePenaltyBase, float64(noise))
}

// MatchColumnsToRegions pairs every depth column with its best description
// region and removes pairs whose regions conflict. Columns without a usable
// region are skipped, as are columns whose locator run fails; a broken
// candidate must not abort the rest of the page.
func MatchColumnsToRegions(columns []DepthColumn, lines []TextLine, words []Word, params MatchingParams) []ColumnPair {
	var pairs []ColumnPair
	for _, column := range columns {
		region, ok, err := FindDescriptionRegion(lines, column, params)
		if err != nil || !ok {
			continue
		}
		pairs = append(pairs, ColumnPair{
			Column: column,
			Region: region,
			Score:  ScoreColumnMatch(column, region, words, params),
		})
	}
	return FilterOverlappingPairs(pairs)
}

// FilterOverlappingPairs drops the lower-scoring member of every pair of
// column/region pairings whose regions intersect. Pairs are compared in
// ascending score order against all higher-scoring pairs; survivors keep
// that order. For three or more mutually overlapping regions the outcome is
// implementation-defined.
func FilterOverlappingPairs(pairs []ColumnPair) []ColumnPair {
	sorted := make([]ColumnPair, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score < sorted[j].Score
	})

	removed := make([]bool, len(sorted))
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[i].Region.Intersects(sorted[j].Region) {
				removed[i] = true
				break
			}
		}
	}

	var filtered []ColumnPair
	for i, pair := range sorted {
		if !removed[i] {
			filtered = append(filtered, pair)
		}
	}
	return filtered
}

// TransformGroups equalizes the number of description blocks with the number
// of depth intervals and zips them positionally into match results. With a
// single interval all blocks collapse into one; otherwise blocks are split
// or merged until the counts agree.
func TransformGroups(intervals []Interval, blocks []TextBlock) ([]MatchResult, error) {
	switch len(intervals) {
	case 0:
		return nil, nil
	case 1:
		// Block separation is irrelevant for a single interval.
		var lines []TextLine
		for _, block := range blocks {
			lines = append(lines, block.Lines...)
		}
		interval := intervals[0]
		return []MatchResult{{Interval: &interval, Block: TextBlock{Lines: lines}}}, nil
	}

	if len(blocks) < len(intervals) {
		blocks = SplitBlocksByLineLength(blocks, len(intervals)-len(blocks))
	}
	if len(blocks) > len(intervals) {
		merged, err := MergeBlocksByVerticalSpacing(blocks, len(blocks)-len(intervals))
		if err != nil {
			return nil, err
		}
		blocks = merged
	}

	// Even a maximal split can come up short when there are fewer lines than
	// intervals; the trailing intervals get empty blocks so the result always
	// has one entry per interval.
	results := make([]MatchResult, 0, len(intervals))
	for i := range intervals {
		interval := intervals[i]
		result := MatchResult{Interval: &interval}
		if i < len(blocks) {
			result.Block = blocks[i]
		}
		results = append(results, result)
	}
	return results, nil
}

// SplitBlocksByLineLength splits blocks at their shortest interior lines,
// producing targetSplitCount additional blocks. The right edge of every line
// except the last of each block is a split candidate; the targetSplitCount
// smallest values become cutoffs, consumed as a multiset while walking the
// lines in order. If there are not enough candidates every line becomes its
// own block. A source block's ruling-termination flag carries over to the
// last block produced from it.
func SplitBlocksByLineLength(blocks []TextBlock, targetSplitCount int) []TextBlock {
	var lineLengths []float64
	for _, block := range blocks {
		for i := 0; i < len(block.Lines)-1; i++ {
			lineLengths = append(lineLengths, block.Lines[i].Box.X1)
		}
	}
	sort.Float64s(lineLengths)

	if len(lineLengths) <= targetSplitCount {
		var split []TextBlock
		for _, block := range blocks {
			for i, line := range block.Lines {
				single := TextBlock{Lines: []TextLine{line}}
				if block.TerminatedByLine && i == len(block.Lines)-1 {
					single.TerminatedByLine = true
				}
				split = append(split, single)
			}
		}
		return split
	}

	cutoffs := make(map[float64]int, targetSplitCount)
	for _, length := range lineLengths[:targetSplitCount] {
		cutoffs[length]++
	}

	var split []TextBlock
	var current []TextLine
	for _, block := range blocks {
		emitted := 0
		for i, line := range block.Lines {
			current = append(current, line)
			if i < len(block.Lines)-1 && cutoffs[line.Box.X1] > 0 {
				cutoffs[line.Box.X1]--
				split = append(split, TextBlock{Lines: current})
				emitted++
				current = nil
			}
		}
		if len(current) > 0 {
			split = append(split, TextBlock{Lines: current})
			emitted++
			current = nil
		}
		if block.TerminatedByLine && emitted > 0 {
			split[len(split)-1].TerminatedByLine = true
		}
	}
	return split
}

// MergeBlocksByVerticalSpacing merges the most closely spaced consecutive
// blocks, aiming for targetMergeCount merges. The cutoff is the
// targetMergeCount-th smallest inter-block distance; ties at the cutoff can
// make additional early pairs qualify, which is accepted behavior.
func MergeBlocksByVerticalSpacing(blocks []TextBlock, targetMergeCount int) ([]TextBlock, error) {
	if targetMergeCount <= 0 {
		return blocks, nil
	}
	if len(blocks) < 2 {
		return nil, preconditionErrorf("merge requires at least two blocks, got %d", len(blocks))
	}
	distances := make([]float64, len(blocks)-1)
	for i := 0; i < len(blocks)-1; i++ {
		distances[i] = BlockDistance(blocks[i], blocks[i+1])
	}
	if targetMergeCount > len(distances) {
		return nil, preconditionErrorf("merge count %d exceeds %d block gaps", targetMergeCount, len(distances))
	}

	sorted := make([]float64, len(distances))
	copy(sorted, distances)
	sort.Float64s(sorted)
	cutoff := sorted[targetMergeCount-1]

	var merged []TextBlock
	current := blocks[0]
	mergedCount := 0
	for i := 0; i < len(blocks)-1; i++ {
		next := blocks[i+1]
		if mergedCount < targetMergeCount && distances[i] <= cutoff {
			current = current.Concatenate(next)
			mergedCount++
		} else {
			merged = append(merged, current)
			current = next
		}
	}
	if len(current.Lines) > 0 {
		merged = append(merged, current)
	}
	return merged, nil
}
