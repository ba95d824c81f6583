package ai

import (
	"errors"
	"strings"
)

// Mode selects what the model is asked to extract.
type Mode string

const (
	// ModeClaims asks for a flat list of claim records.
	ModeClaims Mode = "claims"
	// ModeApplication asks for a child care insurance application grouped by form section.
	ModeApplication Mode = "application"
)

var ErrUnknownMode = errors.New("unknown extraction mode")

// ParseMode maps user input to a Mode. Empty input returns def.
func ParseMode(s string, def Mode) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return def, nil
	case ModeClaims:
		return ModeClaims, nil
	case ModeApplication:
		return ModeApplication, nil
	}
	return "", ErrUnknownMode
}

// ClaimFields are the keys requested for every claim, in output order.
var ClaimFields = []string{
	"Claim Number",
	"Accident Date",
	"Notice Date",
	"Close Date",
	"Incident Description",
}

// ApplicationSections are the top-level keys of an application extraction.
var ApplicationSections = []string{
	"Applicant Info",
	"Business Details",
	"Building Safety",
	"Staff & Children Info",
	"Health & Safety",
	"Sexual Abuse Policy",
	"Business Income",
	"Cybersecurity",
	"Signature Section",
}

// Prompt builds the extraction prompt for mode around the document text.
func Prompt(mode Mode, text string) string {
	var b strings.Builder
	switch mode {
	case ModeApplication:
		b.WriteString("You are a professional form processor.\n")
		b.WriteString("Extract structured information from this child care insurance application PDF content.\n")
		b.WriteString("Output valid JSON grouped under these keys:\n")
		writeList(&b, ApplicationSections)
		b.WriteString("ONLY return clean JSON. Do not include any extra text or markdown.\n")
	default:
		b.WriteString("You are an expert claims data processor. Extract structured data from the following insurance document.\n\n")
		b.WriteString("For each claim, return:\n")
		writeList(&b, ClaimFields)
		b.WriteString("\nReturn only a clean valid JSON array - no markdown, no comments, no backticks.\n")
	}
	b.WriteString("\nTEXT:\n")
	b.WriteString(text)
	b.WriteString("\n")
	return b.String()
}

func writeList(b *strings.Builder, items []string) {
	for _, it := range items {
		b.WriteString("- ")
		b.WriteString(it)
		b.WriteString("\n")
	}
}
