package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/Harshitk-cp/deepfake-api/internal/buildconfig"
	"github.com/Harshitk-cp/deepfake-api/internal/domain"
	"go.uber.org/zap"
)

// Files whose size mod 10 exceeds this are flagged as suspicious.
const suspiciousRemainder = 6

var (
	containerFinding = domain.KeyFinding{
		Category:         domain.CategoryMetadata,
		Signal:           "Container format ISO/IEC 14496-14 (MP4) consistent with Google Pixel 7 signature.",
		Direction:        domain.DirectionSupportsAuthenticity,
		EvidenceStrength: domain.StrengthMedium,
	}
	facialNoiseFinding = domain.KeyFinding{
		Category:         domain.CategoryVisual,
		Signal:           "High-frequency noise anomalies detected in facial region (FaceForensics++ signature).",
		Direction:        domain.DirectionIndicatesManipulation,
		EvidenceStrength: domain.StrengthHigh,
	}
	parallaxJitterFinding = domain.KeyFinding{
		Category:         domain.CategoryVisual,
		Signal:           "Temporal jitter in background parallax around subject wireframe.",
		Direction:        domain.DirectionIndicatesManipulation,
		EvidenceStrength: domain.StrengthMedium,
	}
	sensorNoiseFinding = domain.KeyFinding{
		Category:         domain.CategoryVisual,
		Signal:           "Sensor pattern noise (PRNU) consistent across frames.",
		Direction:        domain.DirectionSupportsAuthenticity,
		EvidenceStrength: domain.StrengthHigh,
	}
	lipSyncFinding = domain.KeyFinding{
		Category:         domain.CategoryAudio,
		Signal:           "Lip-sync delay < 40ms (within tolerance).",
		Direction:        domain.DirectionSupportsAuthenticity,
		EvidenceStrength: domain.StrengthLow,
	}
)

// ForensicsService builds simulated forensic reports. The findings are keyed
// off the file size only; no decoding of the video takes place.
type ForensicsService struct {
	logger *zap.Logger
	jitter func() float64
}

func NewForensicsService(logger *zap.Logger) *ForensicsService {
	return &ForensicsService{
		logger: logger,
		jitter: rand.Float64,
	}
}

// SetJitterSource replaces the [0,1) source used to spread confidence.
func (s *ForensicsService) SetJitterSource(fn func() float64) {
	s.jitter = fn
}

// IsSuspicious reports whether a file of the given size gets manipulation findings.
func IsSuspicious(size int64) bool {
	return size%10 > suspiciousRemainder
}

// Findings returns the ordered finding set for a file of the given size.
func Findings(size int64) []domain.KeyFinding {
	findings := []domain.KeyFinding{containerFinding}
	if IsSuspicious(size) {
		findings = append(findings, facialNoiseFinding, parallaxJitterFinding)
	} else {
		findings = append(findings, sensorNoiseFinding)
	}
	return append(findings, lipSyncFinding)
}

// Analyze reports on the file at path. claimID is copied into the report as is.
func (s *ForensicsService) Analyze(ctx context.Context, path string, claimID string) (*domain.ForensicReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}
	size := info.Size()

	findings := Findings(size)
	verdict := domain.VerdictFor(domain.CountManipulation(findings))

	report := &domain.ForensicReport{
		ClaimID:     claimID,
		Verdict:     verdict,
		Confidence:  s.confidence(verdict),
		KeyFindings: findings,
		Limitations: []string{
			"No separate audio track provided for spectral analysis.",
			"Device reference PRNU not available for absolute confirmation.",
		},
		RecommendedFollowups: []string{
			"Request raw camera original.",
			"Manual review of frame 154-160 for blending artifacts.",
		},
		ReproducibilityNotes: []string{
			"Analysis Engine v" + buildconfig.EngineVersion,
			"Threshold set to Strict (0.8)",
		},
	}

	s.logger.Info("forensic analysis complete",
		zap.String("claim_id", claimID),
		zap.Int64("size", size),
		zap.Bool("suspicious", IsSuspicious(size)),
		zap.String("verdict", string(verdict)),
		zap.Float64("confidence", report.Confidence))

	return report, nil
}

func (s *ForensicsService) confidence(v domain.Verdict) float64 {
	band := domain.GetConfidenceBand(v)
	c := band.Base
	if band.Spread > 0 {
		c += s.jitter() * band.Spread
	}
	return roundConfidence(c)
}

// roundConfidence clamps to [0,1] and rounds to two decimals.
func roundConfidence(c float64) float64 {
	c = math.Max(0, math.Min(1, c))
	return math.Round(c*100) / 100
}
