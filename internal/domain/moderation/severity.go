package moderation

// Severity is the derived triage tier of a report
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityCritical Severity = "critical"
)

// rank orders severities for sorting, critical first
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// Valid reports whether s is a known tier
func (s Severity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityCritical
}

// Default confidence thresholds. Both are configurable through Classifier.
const (
	DefaultCriticalThreshold = 0.70
	DefaultMediumThreshold   = 0.40
)

var criticalReasons = map[ReportReason]bool{
	ReasonHateSpeech:     true,
	ReasonHarassment:     true,
	ReasonViolence:       true,
	ReasonIllegalContent: true,
	ReasonSpam:           true,
}

var mediumReasons = map[ReportReason]bool{
	ReasonMisinformation: true,
	ReasonPlagiarism:     true,
	ReasonInappropriate:  true,
	ReasonOffTopic:       true,
}

// Classifier maps a report to a severity tier. It holds no state besides
// its thresholds, so the same input always yields the same tier.
type Classifier struct {
	CriticalThreshold float64
	MediumThreshold   float64
}

// DefaultClassifier uses the 0.70 / 0.40 thresholds
func DefaultClassifier() Classifier {
	return Classifier{
		CriticalThreshold: DefaultCriticalThreshold,
		MediumThreshold:   DefaultMediumThreshold,
	}
}

// NewClassifier builds a classifier, falling back to defaults for thresholds
// outside [0,1] or when medium is not below critical.
func NewClassifier(critical, medium float64) Classifier {
	if critical <= 0 || critical > 1 || medium < 0 || medium >= critical {
		return DefaultClassifier()
	}
	return Classifier{CriticalThreshold: critical, MediumThreshold: medium}
}

// Classify returns the severity for a reason and optional confidence score.
// A present score always wins over the reason table. Unknown reasons are low.
func (c Classifier) Classify(reason ReportReason, confidence *float64) Severity {
	if confidence != nil {
		score := *confidence
		switch {
		case score >= c.CriticalThreshold:
			return SeverityCritical
		case score >= c.MediumThreshold:
			return SeverityMedium
		default:
			return SeverityLow
		}
	}

	switch {
	case criticalReasons[reason]:
		return SeverityCritical
	case mediumReasons[reason]:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// ClassifyReport is Classify applied to a stored report
func (c Classifier) ClassifyReport(r *Report) Severity {
	return c.Classify(r.Reason, r.Confidence())
}
