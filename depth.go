package borelog

// DepthEntry is one parsed numeric depth marker, tied to its page location.
// Entries are created during tokenization and never mutated.
type DepthEntry struct {
	Value float64
	Box   Rect
	Page  int
}

// LayerDepthEntry is a depth range marker such as "12.0-14.5", made of a
// start and an end entry on the same page.
type LayerDepthEntry struct {
	Start DepthEntry
	End   DepthEntry
}

// NewLayerDepthEntry pairs a start and end depth entry. Entries on different
// pages indicate an upstream tokenization bug and fail with a ValidationError.
func NewLayerDepthEntry(start, end DepthEntry) (LayerDepthEntry, error) {
	if start.Page != end.Page {
		return LayerDepthEntry{}, validationErrorf(
			"layer depth entry %.2f-%.2f spans pages %d and %d",
			start.Value, end.Value, start.Page, end.Page)
	}
	return LayerDepthEntry{Start: start, End: end}, nil
}

// Rect returns the union of the start and end entry boxes.
func (e LayerDepthEntry) Rect() Rect {
	return e.Start.Box.Union(e.End.Box)
}

// IntervalBlockGroup is one run of depth intervals together with the
// description blocks found between the ruling lines bounding that run.
// The reconciler equalizes the two counts afterwards.
type IntervalBlockGroup struct {
	Intervals []Interval
	Blocks    []TextBlock
}

// DepthColumn is one vertical arrangement of depth markers on a page.
// Implementations are read-only once built.
type DepthColumn interface {
	// Rect returns the overall bounding box of the column.
	Rect() Rect

	// NoiseCount counts words intersecting the column's box that are not
	// part of its own entries. High counts indicate false-positive columns.
	NoiseCount(words []Word) int

	// Intervals derives the ordered depth intervals of the column.
	Intervals() []Interval

	// IdentifyGroups segments the description lines of a paired region into
	// blocks and associates runs of intervals with them, splitting on
	// geometric ruling lines.
	IdentifyGroups(lines []TextLine, rulings []GeometricLine, region Rect, params MatchingParams) []IntervalBlockGroup
}

// BoundaryDepthColumn is a column of single depth values, each marking the
// boundary between two layers.
type BoundaryDepthColumn struct {
	entries []DepthEntry
}

// NewBoundaryDepthColumn builds a boundary column from its ordered entries.
func NewBoundaryDepthColumn(entries []DepthEntry) *BoundaryDepthColumn {
	return &BoundaryDepthColumn{entries: entries}
}

// Entries returns the column's depth entries in top-to-bottom order.
func (c *BoundaryDepthColumn) Entries() []DepthEntry {
	return c.entries
}

// Rect returns the bounding box of all entries.
func (c *BoundaryDepthColumn) Rect() Rect {
	var r Rect
	for i, e := range c.entries {
		if i == 0 {
			r = e.Box
		} else {
			r = r.Union(e.Box)
		}
	}
	return r
}

// NoiseCount counts stray words overlapping the column.
func (c *BoundaryDepthColumn) NoiseCount(words []Word) int {
	rects := make([]Rect, len(c.entries))
	for i, e := range c.entries {
		rects[i] = e.Box
	}
	return countNoiseWords(c.Rect(), rects, words)
}

// Intervals returns one interval per pair of consecutive entries, plus an
// open-ended trailing interval below the last marker. The interval count
// therefore equals the entry count.
func (c *BoundaryDepthColumn) Intervals() []Interval {
	if len(c.entries) == 0 {
		return nil
	}
	intervals := make([]Interval, 0, len(c.entries))
	for i := 0; i < len(c.entries)-1; i++ {
		intervals = append(intervals, Interval{Start: &c.entries[i], End: &c.entries[i+1]})
	}
	intervals = append(intervals, Interval{Start: &c.entries[len(c.entries)-1]})
	return intervals
}

// IdentifyGroups implements DepthColumn.
func (c *BoundaryDepthColumn) IdentifyGroups(lines []TextLine, rulings []GeometricLine, region Rect, params MatchingParams) []IntervalBlockGroup {
	return groupIntervalsWithBlocks(c.Intervals(), lines, rulings, region, params)
}

// LayerDepthColumn is a column of start-end depth range markers.
type LayerDepthColumn struct {
	entries []LayerDepthEntry
}

// NewLayerDepthColumn builds a layer column from its ordered entries.
func NewLayerDepthColumn(entries []LayerDepthEntry) *LayerDepthColumn {
	return &LayerDepthColumn{entries: entries}
}

// Entries returns the column's layer entries in top-to-bottom order.
func (c *LayerDepthColumn) Entries() []LayerDepthEntry {
	return c.entries
}

// Rect returns the bounding box of all entries.
func (c *LayerDepthColumn) Rect() Rect {
	var r Rect
	for i, e := range c.entries {
		if i == 0 {
			r = e.Rect()
		} else {
			r = r.Union(e.Rect())
		}
	}
	return r
}

// NoiseCount counts stray words overlapping the column.
func (c *LayerDepthColumn) NoiseCount(words []Word) int {
	rects := make([]Rect, 0, 2*len(c.entries))
	for _, e := range c.entries {
		rects = append(rects, e.Start.Box, e.End.Box)
	}
	return countNoiseWords(c.Rect(), rects, words)
}

// Intervals returns one interval per layer entry.
func (c *LayerDepthColumn) Intervals() []Interval {
	intervals := make([]Interval, len(c.entries))
	for i := range c.entries {
		intervals[i] = Interval{Start: &c.entries[i].Start, End: &c.entries[i].End}
	}
	return intervals
}

// IdentifyGroups implements DepthColumn.
func (c *LayerDepthColumn) IdentifyGroups(lines []TextLine, rulings []GeometricLine, region Rect, params MatchingParams) []IntervalBlockGroup {
	return groupIntervalsWithBlocks(c.Intervals(), lines, rulings, region, params)
}

// countNoiseWords counts words intersecting the column box that intersect
// none of the entry boxes.
func countNoiseWords(column Rect, entryRects []Rect, words []Word) int {
	noise := 0
	for _, w := range words {
		if !w.Box.Intersects(column) {
			continue
		}
		partOfEntry := false
		for _, r := range entryRects {
			if w.Box.Intersects(r) {
				partOfEntry = true
				break
			}
		}
		if !partOfEntry {
			noise++
		}
	}
	return noise
}

// groupIntervalsWithBlocks segments the region's lines into blocks and
// assigns runs of intervals to them. A ruling-terminated block closes the
// current group: every interval anchored above the ruling belongs to it.
// Remaining intervals and blocks form one trailing group.
func groupIntervalsWithBlocks(intervals []Interval, lines []TextLine, rulings []GeometricLine, region Rect, params MatchingParams) []IntervalBlockGroup {
	blocks := GroupDescriptionBlocks(lines, rulings, region, params.BlockLineRatio, params.LeftLineLengthThreshold)
	if len(blocks) == 0 {
		return nil
	}

	var groups []IntervalBlockGroup
	var current IntervalBlockGroup
	next := 0
	for _, block := range blocks {
		current.Blocks = append(current.Blocks, block)
		if !block.TerminatedByLine {
			continue
		}
		bottom := block.Rect().Y1
		for next < len(intervals) && intervalAnchorY(intervals[next]) <= bottom {
			current.Intervals = append(current.Intervals, intervals[next])
			next++
		}
		if len(current.Intervals) > 0 {
			groups = append(groups, current)
			current = IntervalBlockGroup{}
		}
	}
	if len(current.Blocks) > 0 || next < len(intervals) {
		current.Intervals = append(current.Intervals, intervals[next:]...)
		groups = append(groups, current)
	}
	return groups
}

// intervalAnchorY is the vertical position an interval is matched at: the
// center of its marker box.
func intervalAnchorY(iv Interval) float64 {
	r := iv.Rect()
	return (r.Y0 + r.Y1) / 2
}
