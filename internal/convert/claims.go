package convert

import (
	"regexp"
	"strings"
)

const claimMarker = "Claim Number:"

var (
	datePattern = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)

	dateLabels       = []string{"Accident Date", "Notice Date", "Close Date"}
	incidentKeywords = []string{"accident", "stole", "flood", "damage", "collision"}
)

// ParseClaims extracts claim records from text laid out as repeated
// "Claim Number: ..." blocks. Text before the first marker is ignored.
// Every marker yields exactly one record, in document order; a block with
// no content yields a record with an empty claim number.
func ParseClaims(text string) []ClaimRecord {
	blocks := strings.Split(text, claimMarker)
	if len(blocks) < 2 {
		return []ClaimRecord{}
	}
	claims := make([]ClaimRecord, 0, len(blocks)-1)
	for _, block := range blocks[1:] {
		claims = append(claims, parseClaimBlock(block))
	}
	return claims
}

func parseClaimBlock(block string) ClaimRecord {
	var claim ClaimRecord
	lines := splitLines(strings.TrimSpace(block))
	if len(lines) == 0 {
		return claim
	}
	if fields := strings.Fields(lines[0]); len(fields) > 0 {
		claim.ClaimNumber = fields[0]
	}

	var description []string
	for _, line := range lines {
		if containsAll(line, dateLabels...) {
			// The label line is structured data; a later qualifying line wins.
			if dates := datePattern.FindAllString(line, -1); len(dates) == 3 {
				claim.AccidentDate = dates[0]
				claim.NoticeDate = dates[1]
				claim.CloseDate = dates[2]
			}
			continue
		}
		if containsAny(strings.ToLower(line), incidentKeywords) {
			description = append(description, strings.TrimSpace(line))
		}
	}
	claim.IncidentDescription = strings.Join(description, " ")
	return claim
}
