package borelog

import "log"

// PageInput carries the tokenized content of one page. All fields are
// immutable snapshots for the duration of the page's processing; pages can
// therefore be matched independently and in parallel.
type PageInput struct {
	Words   []Word
	Lines   []TextLine
	Columns []DepthColumn
	Rulings []GeometricLine
}

// MatchPage runs the full matching pipeline for one page: pair depth columns
// with description regions, segment each region into blocks along the
// detected rulings, and reconcile block counts with interval counts.
//
// When no column/region pair survives, the page falls back to locating a
// single description region and emitting its blocks without intervals.
// Failures in one pair are logged and skipped; the rest of the page is
// still processed.
func MatchPage(in PageInput, params MatchingParams) []MatchResult {
	pairs := MatchColumnsToRegions(in.Columns, in.Lines, in.Words, params)

	var results []MatchResult
	for _, pair := range pairs {
		descriptionLines := DescriptionLines(in.Lines, pair.Region)
		if len(descriptionLines) <= 1 {
			continue
		}
		groups := pair.Column.IdentifyGroups(descriptionLines, in.Rulings, pair.Region, params)
		for _, group := range groups {
			matched, err := TransformGroups(group.Intervals, group.Blocks)
			if err != nil {
				log.Printf("borelog: skipping group: %v", err)
				continue
			}
			results = append(results, matched...)
		}
	}
	if len(pairs) > 0 {
		return results
	}

	// Fallback when no depth column was usable.
	regions, err := FindDescriptionRegions(in.Lines, params.Locator)
	if err != nil {
		log.Printf("borelog: fallback region location failed: %v", err)
		return nil
	}
	if len(regions) == 0 {
		return nil
	}
	region := regions[0]
	descriptionLines := DescriptionLines(in.Lines, region)
	blocks := GroupDescriptionBlocks(descriptionLines, in.Rulings, region,
		params.BlockLineRatio, params.LeftLineLengthThreshold)
	for _, block := range blocks {
		results = append(results, MatchResult{Block: block})
	}
	return results
}
