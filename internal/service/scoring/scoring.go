package scoring

import (
	"github.com/tyrell35/Prospex/internal/entity"
)

const (
	categoryContact  = "contact_completeness"
	categoryAudit    = "website_audit_issues"
	categoryReviews  = "review_quality"
	categoryPresence = "presence_gaps"
)

const (
	maxScore = 100

	ratingWeak       = 4.0
	ratingAverage    = 4.5
	reviewCountLow   = 20
	reviewCountMid   = 50
	performanceFloor = 50
)

// Input captures the lead fields the score is derived from. Nil fields are
// unknown and contribute zero points.
type Input struct {
	Phone             *string
	Email             *string
	Website           *string
	GoogleRating      *float64
	GoogleReviewCount *int
	Audit             *entity.AuditData
}

// Result reports the aggregate score, its derived grade and priority tier,
// and the per-category breakdown before capping.
type Result struct {
	Score     int
	Grade     string
	Priority  string
	Breakdown map[string]int
}

// Compute evaluates the opportunity score for a lead. Higher scores mean a
// weaker web presence and therefore a better prospect: missing channels and
// poor review metrics add points. Deterministic, bounded to [0, 100].
func Compute(in Input) Result {
	breakdown := map[string]int{
		categoryContact:  scoreContact(in),
		categoryAudit:    scoreAuditIssues(in.Audit),
		categoryReviews:  scoreReviewQuality(in),
		categoryPresence: scorePresenceGaps(in.Audit),
	}

	total := 0
	for _, value := range breakdown {
		total += value
	}
	if total > maxScore {
		total = maxScore
	}

	return Result{
		Score:     total,
		Grade:     GradeFor(total),
		Priority:  PriorityFor(total),
		Breakdown: breakdown,
	}
}

// GradeFor maps a score to its letter grade.
func GradeFor(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

// PriorityFor maps a score to its triage tier.
func PriorityFor(score int) string {
	switch {
	case score >= 70:
		return "hot"
	case score >= 40:
		return "warm"
	default:
		return "cold"
	}
}

func scoreContact(in Input) int {
	score := 0
	if hasValue(in.Phone) {
		score += 5
	}
	if hasValue(in.Email) {
		score += 10
	}
	if hasValue(in.Website) {
		score += 5
	}
	return score
}

func scoreAuditIssues(audit *entity.AuditData) int {
	if audit == nil {
		return 0
	}
	score := 0
	if isFalse(audit.SSLCheck) {
		score += 3
	}
	if audit.MobileScore != nil && *audit.MobileScore < performanceFloor {
		score += 3
	}
	if audit.SpeedScore != nil && *audit.SpeedScore < performanceFloor {
		score += 3
	}
	if isFalse(audit.HasSocialMedia) {
		score += 3
	}
	if isFalse(audit.HasClickToCall) {
		score += 3
	}
	if isFalse(audit.HasVideo) {
		score += 2
	}
	if isFalse(audit.HasChatbot) {
		score += 3
	}
	if isFalse(audit.HasBooking) {
		score += 3
	}
	if isFalse(audit.HasMetaDescription) {
		score += 2
	}
	if isFalse(audit.HasH1) {
		score += 2
	}
	if isFalse(audit.HasAnalytics) {
		score += 2
	}
	if isFalse(audit.HasSchema) {
		score += 1
	}
	return score
}

func scoreReviewQuality(in Input) int {
	score := 0
	if in.GoogleRating != nil {
		switch {
		case *in.GoogleRating < ratingWeak:
			score += 10
		case *in.GoogleRating < ratingAverage:
			score += 5
		}
	}
	if in.GoogleReviewCount != nil {
		switch {
		case *in.GoogleReviewCount < reviewCountLow:
			score += 10
		case *in.GoogleReviewCount < reviewCountMid:
			score += 5
		}
	}
	return score
}

// Social media, chatbot and booking are counted here on top of the
// audit-issue section. The published score table depends on the overlap, so
// both sections keep their own points.
func scorePresenceGaps(audit *entity.AuditData) int {
	if audit == nil {
		return 0
	}
	score := 0
	if isFalse(audit.HasSocialMedia) {
		score += 5
	}
	if isFalse(audit.HasBooking) {
		score += 5
	}
	if isFalse(audit.HasChatbot) {
		score += 5
	}
	return score
}

func hasValue(value *string) bool {
	return value != nil && *value != ""
}

func isFalse(value *bool) bool {
	return value != nil && !*value
}
