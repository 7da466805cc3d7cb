package borelog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	depthValuePattern = regexp.MustCompile(`^([0-9]+(?:[.,][0-9]+)?)m?$`)
	depthRangePattern = regexp.MustCompile(`^([0-9]+(?:[.,][0-9]+)?)-([0-9]+(?:[.,][0-9]+)?)m?$`)
)

// depthEntryCandidate ties a parsed entry to the index of the word it came
// from. Downstream "already used" checks compare word indices rather than
// rectangle values, so float comparisons never decide entry identity.
type depthEntryCandidate struct {
	entry DepthEntry
	word  int
}

func parseDepthValue(text string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSuffix(text, "m"), ",", "."), 64)
	return value, err == nil
}

// detectValueEntries finds words that are plain depth numbers.
func detectValueEntries(words []Word, page int) []depthEntryCandidate {
	var candidates []depthEntryCandidate
	for i, word := range words {
		if !depthValuePattern.MatchString(word.Text) {
			continue
		}
		value, ok := parseDepthValue(word.Text)
		if !ok {
			continue
		}
		candidates = append(candidates, depthEntryCandidate{
			entry: DepthEntry{Value: value, Box: word.Box, Page: page},
			word:  i,
		})
	}
	return candidates
}

// detectLayerEntries finds depth range markers: either a single "1.20-3.40"
// token, whose box is split at the hyphen, or two adjacent depth numbers on
// one line with the end value above the start value. Returns the layer
// entries and the word indices they consumed.
func detectLayerEntries(words []Word, page int) ([]LayerDepthEntry, map[int]bool) {
	var entries []LayerDepthEntry
	used := make(map[int]bool)

	for i, word := range words {
		m := depthRangePattern.FindStringSubmatch(word.Text)
		if m == nil {
			continue
		}
		start, okStart := parseDepthValue(m[1])
		end, okEnd := parseDepthValue(m[2])
		if !okStart || !okEnd || end <= start {
			continue
		}
		mid := (word.Box.X0 + word.Box.X1) / 2
		entry, err := NewLayerDepthEntry(
			DepthEntry{Value: start, Box: Rect{X0: word.Box.X0, Y0: word.Box.Y0, X1: mid, Y1: word.Box.Y1}, Page: page},
			DepthEntry{Value: end, Box: Rect{X0: mid, Y0: word.Box.Y0, X1: word.Box.X1, Y1: word.Box.Y1}, Page: page},
		)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
		used[i] = true
	}

	values := detectValueEntries(words, page)
	for i := 0; i < len(values)-1; i++ {
		a, b := values[i], values[i+1]
		if used[a.word] || used[b.word] {
			continue
		}
		sameLine := a.entry.Box.Y0 < b.entry.Box.Y1 && b.entry.Box.Y0 < a.entry.Box.Y1
		adjacent := b.entry.Box.X0 >= a.entry.Box.X1 &&
			b.entry.Box.X0-a.entry.Box.X1 < 2*a.entry.Box.Width()
		if !sameLine || !adjacent || b.entry.Value <= a.entry.Value {
			continue
		}
		entry, err := NewLayerDepthEntry(a.entry, b.entry)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
		used[a.word] = true
		used[b.word] = true
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Rect().Y0 < entries[j].Rect().Y0
	})
	return entries, used
}

// FindDepthColumns detects candidate depth columns among the page words.
// Layer columns are found first; the words they consume are excluded from
// boundary column detection so a range marker never doubles as a boundary.
func FindDepthColumns(words []Word, page int, config Config) []DepthColumn {
	var columns []DepthColumn

	layerEntries, used := detectLayerEntries(words, page)
	for _, cluster := range clusterLayerEntries(layerEntries, config.MinColumnEntries) {
		columns = append(columns, NewLayerDepthColumn(cluster))
	}

	var boundary []DepthEntry
	for _, candidate := range detectValueEntries(words, page) {
		if !used[candidate.word] {
			boundary = append(boundary, candidate.entry)
		}
	}
	for _, cluster := range clusterBoundaryEntries(boundary, config.MinColumnEntries) {
		columns = append(columns, NewBoundaryDepthColumn(cluster))
	}
	return columns
}

// clusterBoundaryEntries stacks depth entries into vertical columns: an
// entry joins the first open column whose last entry it significantly
// x-overlaps and whose depth values stay non-decreasing downward.
func clusterBoundaryEntries(entries []DepthEntry, minEntries int) [][]DepthEntry {
	sorted := make([]DepthEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Box.Y0 < sorted[j].Box.Y0
	})

	var open [][]DepthEntry
	for _, entry := range sorted {
		placed := false
		for i := range open {
			last := open[i][len(open[i])-1]
			if entry.Value >= last.Value && entry.Box.Y0 > last.Box.Y0 &&
				XOverlapSignificantSmallest(entry.Box, last.Box, 0.5) {
				open[i] = append(open[i], entry)
				placed = true
				break
			}
		}
		if !placed {
			open = append(open, []DepthEntry{entry})
		}
	}

	var clusters [][]DepthEntry
	for _, column := range open {
		if len(column) >= minEntries {
			clusters = append(clusters, column)
		}
	}
	return clusters
}

// clusterLayerEntries stacks layer entries into columns the same way,
// additionally requiring consecutive ranges to continue downward in depth.
func clusterLayerEntries(entries []LayerDepthEntry, minEntries int) [][]LayerDepthEntry {
	var open [][]LayerDepthEntry
	for _, entry := range entries {
		placed := false
		for i := range open {
			last := open[i][len(open[i])-1]
			if entry.Start.Value >= last.Start.Value && entry.Rect().Y0 > last.Rect().Y0 &&
				XOverlapSignificantSmallest(entry.Rect(), last.Rect(), 0.5) {
				open[i] = append(open[i], entry)
				placed = true
				break
			}
		}
		if !placed {
			open = append(open, []LayerDepthEntry{entry})
		}
	}

	var clusters [][]LayerDepthEntry
	for _, column := range open {
		if len(column) >= minEntries {
			clusters = append(clusters, column)
		}
	}
	return clusters
}
