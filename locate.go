package borelog

import "math"

// FindDescriptionRegion locates the material-description region associated
// with a depth column. Candidates are ranked by the column match score; the
// second return value is false when the page has no usable candidate.
func FindDescriptionRegion(lines []TextLine, column DepthColumn, params MatchingParams) (Rect, bool, error) {
	candidates, err := descriptionRegionCandidates(lines, column, params.Locator)
	if err != nil || len(candidates) == 0 {
		return Rect{}, false, err
	}
	best := candidates[0]
	bestScore := ScoreColumnMatch(column, best, nil, params)
	for _, rect := range candidates[1:] {
		if score := ScoreColumnMatch(column, rect, nil, params); score > bestScore {
			best, bestScore = rect, score
		}
	}
	return best, true, nil
}

// FindDescriptionRegions locates all candidate description regions on a page
// without a depth column. Used by the fallback path.
func FindDescriptionRegions(lines []TextLine, params LocatorParams) ([]Rect, error) {
	return descriptionRegionCandidates(lines, nil, params)
}

// descriptionRegionCandidates finds the bounding region of each description
// paragraph cluster among the page lines. With a depth column, only lines in
// the vertical band next to the column are considered.
func descriptionRegionCandidates(lines []TextLine, column DepthColumn, params LocatorParams) ([]Rect, error) {
	candidates := gateCandidateLines(lines, column)
	if len(candidates) == 0 {
		return nil, nil
	}

	var description []int
	for i, line := range candidates {
		if line.IsDescription() {
			description = append(description, i)
		}
	}

	clusters := clusterDescriptionLines(candidates, description, params)

	var rects []Rect
	for _, cluster := range clusters {
		rect, err := clusterRegionRect(candidates, cluster, params)
		if err != nil {
			return nil, err
		}
		rects = append(rects, rect)
	}
	return rects, nil
}

// gateCandidateLines restricts lines to the vertical band belonging to the
// depth column: below whatever text sits above the column, and above the
// column's bottom edge. Without a column every line is a candidate.
func gateCandidateLines(lines []TextLine, column DepthColumn) []TextLine {
	if column == nil {
		return lines
	}
	columnRect := column.Rect()
	minY0 := -1.0
	for _, line := range lines {
		if XOverlap(line.Box, columnRect) > 0 && line.Box.Y0 < columnRect.Y0 && line.Box.Y0 > minY0 {
			minY0 = line.Box.Y0
		}
	}
	var candidates []TextLine
	for _, line := range lines {
		if line.Box.Y0 > minY0 && line.Box.Y0 < columnRect.Y1 {
			candidates = append(candidates, line)
		}
	}
	return candidates
}

// clusterDescriptionLines partitions the description lines into paragraph
// clusters. Each round picks the line with the largest filtered coverage set
// (other description lines overlapping it by at least the coverage level)
// and removes that set from the pool.
func clusterDescriptionLines(candidates []TextLine, description []int, params LocatorParams) [][]int {
	remaining := make(map[int]bool, len(description))
	for _, i := range description {
		remaining[i] = true
	}

	var clusters [][]int
	for len(remaining) > 0 {
		var best []int
		for _, i := range description {
			if !remaining[i] {
				continue
			}
			var coverage []int
			for _, j := range description {
				if remaining[j] && XOverlapSignificantSmallest(candidates[i].Box, candidates[j].Box, params.CoverageOverlapLevel) {
					coverage = append(coverage, j)
				}
			}
			coverage = dropRightColumnLines(candidates, coverage, params.RightColumnCutoff)
			if len(coverage) > len(best) {
				best = coverage
			}
		}
		if len(best) == 0 {
			// Degenerate zero-width lines can produce empty coverage for
			// every generator; drop one line so the loop terminates.
			for _, i := range description {
				if remaining[i] {
					delete(remaining, i)
					break
				}
			}
			continue
		}
		clusters = append(clusters, best)
		for _, i := range best {
			delete(remaining, i)
		}
	}
	return clusters
}

// dropRightColumnLines removes coverage members whose left edge falls in the
// rightmost cutoff fraction of the coverage x-range. Those lines belong to a
// separate right-hand column, not to the paragraph.
func dropRightColumnLines(candidates []TextLine, coverage []int, cutoff float64) []int {
	if len(coverage) == 0 {
		return coverage
	}
	minX0 := math.Inf(1)
	maxX1 := math.Inf(-1)
	for _, i := range coverage {
		minX0 = math.Min(minX0, candidates[i].Box.X0)
		maxX1 = math.Max(maxX1, candidates[i].Box.X1)
	}
	threshold := maxX1 - cutoff*(maxX1-minX0)
	var kept []int
	for _, i := range coverage {
		if candidates[i].Box.X0 < threshold {
			kept = append(kept, i)
		}
	}
	return kept
}

// clusterRegionRect computes the bounding region of one paragraph cluster:
// admit candidate lines inside the cluster's vertical span and x0 window,
// then expand downward to recover continuation lines the clustering
// threshold excluded.
func clusterRegionRect(candidates []TextLine, cluster []int, params LocatorParams) (Rect, error) {
	if len(cluster) == 0 {
		return Rect{}, preconditionErrorf("empty description cluster")
	}

	bestY0 := math.Inf(1)
	bestY1 := math.Inf(-1)
	minX0 := math.Inf(1)
	maxX0 := math.Inf(-1)
	for _, i := range cluster {
		box := candidates[i].Box
		bestY0 = math.Min(bestY0, box.Y0)
		bestY1 = math.Max(bestY1, box.Y1)
		minX0 = math.Min(minX0, box.X0-params.LeftMarginFraction*box.Width())
		maxX0 = math.Max(maxX0, box.X0+params.RightMarginFraction*box.Width())
	}

	var good []TextLine
	for _, line := range candidates {
		if line.Box.Y0 >= bestY0 && line.Box.Y1 <= bestY1 &&
			line.Box.X0 > minX0 && line.Box.X0 < maxX0 {
			good = append(good, line)
		}
	}
	if len(good) == 0 {
		return Rect{}, preconditionErrorf("description cluster admitted no lines")
	}

	bestX0 := math.Inf(1)
	bestX1 := math.Inf(-1)
	for _, line := range good {
		bestX0 = math.Min(bestX0, line.Box.X0)
		bestX1 = math.Max(bestX1, line.Box.X1)
	}

	// Downward expansion: absorb lines hanging just below the cluster until
	// none qualify. Each absorbed line strictly raises bestY1, so the loop
	// terminates.
	for {
		found := false
		for _, line := range candidates {
			if line.Box.X0 > bestX0-params.ExpandXTolerance &&
				line.Box.X0 < (bestX0+bestX1)/2 &&
				line.Box.Y0 < bestY1+params.ExpandYTolerance &&
				line.Box.Y1 > bestY1 {
				bestX0 = math.Min(bestX0, line.Box.X0)
				bestX1 = math.Max(bestX1, line.Box.X1)
				bestY1 = line.Box.Y1
				found = true
				break
			}
		}
		if !found {
			break
		}
	}

	return Rect{X0: bestX0, Y0: bestY0, X1: bestX1, Y1: bestY1}, nil
}
