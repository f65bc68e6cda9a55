package model

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var gbp = message.NewPrinter(language.BritishEnglish)

// FormatPounds renders an amount as whole pounds with thousands separators, e.g. "£52,500".
func FormatPounds(v float64) string {
	return gbp.Sprintf("£%d", int64(math.Round(v)))
}

// FormatSalary renders a salary range for display. Zero and nil bounds count as missing.
func FormatSalary(minSalary, maxSalary *float64, predicted bool) string {
	lo := positive(minSalary)
	hi := positive(maxSalary)

	suffix := ""
	if predicted {
		suffix = " (estimated)"
	}

	switch {
	case lo != nil && hi != nil:
		return FormatPounds(*lo) + " - " + FormatPounds(*hi) + suffix
	case lo != nil:
		return FormatPounds(*lo) + "+" + suffix
	case hi != nil:
		return "Up to " + FormatPounds(*hi) + suffix
	default:
		return "Salary not specified"
	}
}

func positive(p *float64) *float64 {
	if p == nil || *p <= 0 {
		return nil
	}
	return p
}
