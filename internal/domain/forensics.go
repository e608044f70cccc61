package domain

type Verdict string

const (
	VerdictAuthentic    Verdict = "authentic"
	VerdictManipulated  Verdict = "manipulated"
	VerdictInconclusive Verdict = "inconclusive"
)

func ValidVerdict(v string) bool {
	switch Verdict(v) {
	case VerdictAuthentic, VerdictManipulated, VerdictInconclusive:
		return true
	}
	return false
}

// Direction says which way a finding pushes the verdict.
type Direction string

const (
	DirectionSupportsAuthenticity  Direction = "supports_authenticity"
	DirectionIndicatesManipulation Direction = "indicates_manipulation"
	DirectionNeutral               Direction = "neutral"
)

func ValidDirection(d string) bool {
	switch Direction(d) {
	case DirectionSupportsAuthenticity, DirectionIndicatesManipulation, DirectionNeutral:
		return true
	}
	return false
}

type EvidenceStrength string

const (
	StrengthLow    EvidenceStrength = "low"
	StrengthMedium EvidenceStrength = "medium"
	StrengthHigh   EvidenceStrength = "high"
)

func ValidEvidenceStrength(s string) bool {
	switch EvidenceStrength(s) {
	case StrengthLow, StrengthMedium, StrengthHigh:
		return true
	}
	return false
}

// Finding categories emitted by the analyzer.
const (
	CategoryMetadata = "metadata"
	CategoryVisual   = "visual"
	CategoryAudio    = "audio"
)

// KeyFinding is one piece of forensic evidence. Treat as immutable once built.
type KeyFinding struct {
	Category         string           `json:"category"`
	Signal           string           `json:"signal"`
	Direction        Direction        `json:"direction"`
	EvidenceStrength EvidenceStrength `json:"evidence_strength"`
}

// ForensicReport is the response body of a single analysis. It is never stored.
type ForensicReport struct {
	ClaimID              string       `json:"claim_id"`
	Verdict              Verdict      `json:"verdict"`
	Confidence           float64      `json:"confidence"`
	KeyFindings          []KeyFinding `json:"key_findings"`
	Limitations          []string     `json:"limitations"`
	RecommendedFollowups []string     `json:"recommended_followups"`
	ReproducibilityNotes []string     `json:"reproducibility_notes"`
}

// DefaultClaimID is used when the caller does not supply a claim id.
const DefaultClaimID = "CLM-UNKNOWN"

// CountManipulation returns how many findings indicate manipulation.
func CountManipulation(findings []KeyFinding) int {
	n := 0
	for _, f := range findings {
		if f.Direction == DirectionIndicatesManipulation {
			n++
		}
	}
	return n
}

// ConfidenceBand is the confidence range attached to a verdict.
// Confidence is Base + jitter*Spread with jitter in [0,1).
type ConfidenceBand struct {
	Base   float64
	Spread float64
}

var confidenceBands = map[Verdict]ConfidenceBand{
	VerdictManipulated:  {Base: 0.85, Spread: 0.10},
	VerdictAuthentic:    {Base: 0.88, Spread: 0.05},
	VerdictInconclusive: {Base: 0.60, Spread: 0},
}

// VerdictFor maps the number of manipulation findings to a verdict.
func VerdictFor(manipulationCount int) Verdict {
	switch {
	case manipulationCount >= 2:
		return VerdictManipulated
	case manipulationCount == 0:
		return VerdictAuthentic
	default:
		return VerdictInconclusive
	}
}

// GetConfidenceBand returns the band for a verdict.
func GetConfidenceBand(v Verdict) ConfidenceBand {
	return confidenceBands[v]
}
