package analysis

import (
	"regexp"
	"strconv"
)

// DefaultScore is used when a report carries no recognizable score.
const DefaultScore = 50

// Tried in order; the first match wins.
var scorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Risk Score:?\s*(\d+)`),
	regexp.MustCompile(`(?i)Overall Score:?\s*(\d+)`),
	regexp.MustCompile(`(?i)Legitimacy Score:?\s*(\d+)`),
}

// ExtractScore pulls the numeric score out of a markdown report.
func ExtractScore(report string) int {
	for _, re := range scorePatterns {
		m := re.FindStringSubmatch(report)
		if len(m) < 2 {
			continue
		}
		score, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return score
	}
	return DefaultScore
}

// Rating is the presentation band of a score.
type Rating string

const (
	RatingHigh   Rating = "high"
	RatingMedium Rating = "medium"
	RatingLow    Rating = "low"
)

// RatingFor maps a score to its band.
func RatingFor(score int) Rating {
	switch {
	case score > 70:
		return RatingHigh
	case score > 40:
		return RatingMedium
	default:
		return RatingLow
	}
}

// Description returns the user-facing summary of a rating.
func (r Rating) Description() string {
	switch r {
	case RatingHigh:
		return "High legitimacy - This contract appears to be safe and well-maintained"
	case RatingMedium:
		return "Medium legitimacy - Exercise caution and do additional research"
	default:
		return "Low legitimacy - High risk, proceed with extreme caution"
	}
}
