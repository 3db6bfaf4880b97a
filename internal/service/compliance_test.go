package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbwlsddd/Safety/internal/domain"
	"github.com/dbwlsddd/Safety/internal/provider"
)

type stubDetector struct {
	detections []provider.RawDetection
	err        error
	floorSeen  float64
}

func (s *stubDetector) Detect(ctx context.Context, image []byte, confidenceFloor float64) ([]provider.RawDetection, error) {
	s.floorSeen = confidenceFloor
	if s.err != nil {
		return nil, s.err
	}
	return s.detections, nil
}

func testLogger() *slog.Logger {
	return slog.Default()
}

func TestComplianceService_Check_AllRequiredPresent(t *testing.T) {
	detector := &stubDetector{
		detections: []provider.RawDetection{
			{Box: [4]float64{10, 10, 100, 100}, Label: "hardhat", ClassID: 0, Confidence: 0.9},
			{Box: [4]float64{10, 120, 100, 300}, Label: "safety vest", ClassID: 4, Confidence: 0.85},
			{Box: [4]float64{0, 0, 50, 50}, Label: "person", ClassID: 7, Confidence: 0.99},
		},
	}
	svc := NewComplianceService(detector, 0.5, testLogger())

	verdict, err := svc.Check(context.Background(), []byte("frame"), CanonicalSet([]string{"helmet", "vest"}))
	require.NoError(t, err)

	assert.True(t, verdict.IsSafe)
	assert.Empty(t, verdict.Missing)
	require.Len(t, verdict.Detections, 3)

	// Labels are canonicalized, raw names preserved.
	assert.Equal(t, "helmet", verdict.Detections[0].Label)
	assert.Equal(t, "hardhat", verdict.Detections[0].RawLabel)
	assert.Equal(t, "vest", verdict.Detections[1].Label)
	assert.Equal(t, "person", verdict.Detections[2].Label)

	assert.Equal(t, 0.5, detector.floorSeen)
}

func TestComplianceService_Check_MissingIsExactSetDifference(t *testing.T) {
	detector := &stubDetector{
		detections: []provider.RawDetection{
			{Label: "hardhat", Confidence: 0.9},
		},
	}
	svc := NewComplianceService(detector, 0.5, testLogger())

	verdict, err := svc.Check(context.Background(), []byte("frame"), CanonicalSet([]string{"vest", "helmet", "gloves"}))
	require.NoError(t, err)

	assert.False(t, verdict.IsSafe)
	// Sorted, and exactly required minus detected.
	assert.Equal(t, []string{"gloves", "vest"}, verdict.Missing)
}

func TestComplianceService_Check_ExtraDetectionsNeverHurt(t *testing.T) {
	detector := &stubDetector{
		detections: []provider.RawDetection{
			{Label: "hardhat", Confidence: 0.9},
			{Label: "machinery", Confidence: 0.7},
			{Label: "cone", Confidence: 0.6},
		},
	}
	svc := NewComplianceService(detector, 0.5, testLogger())

	verdict, err := svc.Check(context.Background(), []byte("frame"), CanonicalSet([]string{"helmet"}))
	require.NoError(t, err)

	assert.True(t, verdict.IsSafe)
	assert.Empty(t, verdict.Missing)
}

func TestComplianceService_Check_EmptyRequiredIsTriviallySafe(t *testing.T) {
	detector := &stubDetector{}
	svc := NewComplianceService(detector, 0.5, testLogger())

	verdict, err := svc.Check(context.Background(), []byte("frame"), map[string]struct{}{})
	require.NoError(t, err)

	assert.True(t, verdict.IsSafe)
	assert.Empty(t, verdict.Missing)
}

func TestComplianceService_Check_DetectorErrorFailsClosed(t *testing.T) {
	detector := &stubDetector{err: errors.New("inference timeout")}
	svc := NewComplianceService(detector, 0.5, testLogger())

	required := CanonicalSet([]string{"helmet", "vest"})
	verdict, err := svc.Check(context.Background(), []byte("frame"), required)

	require.Error(t, err)
	require.NotNil(t, verdict)
	assert.False(t, verdict.IsSafe)
	assert.Empty(t, verdict.Detections)
	assert.Equal(t, []string{"helmet", "vest"}, verdict.Missing)
}

func TestComplianceService_Check_NilDetectorFailsClosed(t *testing.T) {
	svc := NewComplianceService(nil, 0.5, testLogger())

	verdict, err := svc.Check(context.Background(), []byte("frame"), CanonicalSet([]string{"helmet"}))
	require.NoError(t, err)

	assert.False(t, svc.Available())
	assert.False(t, verdict.IsSafe)
	assert.Equal(t, []string{"helmet"}, verdict.Missing)
}

func TestComplianceService_Detections(t *testing.T) {
	detector := &stubDetector{
		detections: []provider.RawDetection{
			{Box: [4]float64{1, 2, 3, 4}, Label: "Safety Vest", ClassID: 4, Confidence: 0.77},
		},
	}
	svc := NewComplianceService(detector, 0.5, testLogger())

	detections, err := svc.Detections(context.Background(), []byte("frame"))
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Equal(t, "vest", detections[0].Label)
	assert.Equal(t, "Safety Vest", detections[0].RawLabel)
}

func TestComplianceService_Detections_Unavailable(t *testing.T) {
	svc := NewComplianceService(nil, 0.5, testLogger())

	_, err := svc.Detections(context.Background(), []byte("frame"))
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestComplianceService_Detections_DetectorError(t *testing.T) {
	detector := &stubDetector{err: errors.New("inference timeout")}
	svc := NewComplianceService(detector, 0.5, testLogger())

	_, err := svc.Detections(context.Background(), []byte("frame"))
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}
