// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse pulls the market-share percentage and the share change out of
// the raw text of a country report. Each field has an ordered list of
// patterns; the first one that matches wins.
package parse

import (
	"regexp"
	"strconv"

	"github.com/pdiddy/share-tracker/pkg/types"
)

// matcher extracts one numeric value from text, reporting whether it matched.
type matcher func(text string) (float64, bool)

// Share patterns, in priority order.
var (
	// marketShareRe matches "Market Share: 15.3%" and "Market Share 15.3".
	marketShareRe = regexp.MustCompile(`(?i)Market Share[:\s]+(\d+\.?\d*)%?`)

	// shareLabelRe matches "Share: 15.3%"; the percent sign is required.
	shareLabelRe = regexp.MustCompile(`(?i)Share[:\s]+(\d+\.?\d*)%`)

	// shareSuffixRe matches "15.3% share".
	shareSuffixRe = regexp.MustCompile(`(?i)(\d+\.?\d+)%\s+share`)
)

// Change patterns, in priority order.
var (
	// ppRe matches "+2.3pp" and "-0.4pp".
	ppRe = regexp.MustCompile(`(?i)([+-]?\d+\.?\d*)pp`)

	// changeLabelRe matches "Change: +2.3" and "Change -1.1%".
	changeLabelRe = regexp.MustCompile(`(?i)Change[:\s]+([+-]?\d+\.?\d*)%?`)

	// pointsRe matches "+2.3 points" and "-1.0 point"; the sign is required.
	pointsRe = regexp.MustCompile(`(?i)([+-]\d+\.?\d+)\s*points?`)
)

// unicodeSpaceRe matches separators outside ASCII, such as the no-break
// space PDF text layers put between a label and its value. RE2's \s is
// ASCII-only, so these are folded to a plain space before matching.
var unicodeSpaceRe = regexp.MustCompile(`[\p{Z}\x{85}]`)

var (
	shareMatchers  = []matcher{capture(marketShareRe), capture(shareLabelRe), capture(shareSuffixRe)}
	changeMatchers = []matcher{capture(ppRe), capture(changeLabelRe), capture(pointsRe)}
)

// capture builds a matcher that converts the first capture group of re.
func capture(re *regexp.Regexp) matcher {
	return func(text string) (float64, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return 0, false
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
}

// firstMatch applies matchers in order and returns the first success.
func firstMatch(text string, matchers []matcher) (float64, bool) {
	text = unicodeSpaceRe.ReplaceAllString(text, " ")
	for _, m := range matchers {
		if v, ok := m(text); ok {
			return v, true
		}
	}
	return 0, false
}

// Share returns the market-share percentage found in text.
func Share(text string) (float64, bool) {
	return firstMatch(text, shareMatchers)
}

// Change returns the share change, in percentage points, found in text.
func Change(text string) (float64, bool) {
	return firstMatch(text, changeMatchers)
}

// Fields parses both values. Absent fields are left nil; deciding what an
// absent value means is up to the caller.
func Fields(text string) types.ExtractionResult {
	var r types.ExtractionResult
	if v, ok := Share(text); ok {
		r.Share = &v
	}
	if v, ok := Change(text); ok {
		r.Change = &v
	}
	return r
}
