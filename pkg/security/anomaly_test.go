package security_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Majorsoln/BOS-sub001/pkg/security"
)

func TestAnomalyDetector_HighVelocityWarns(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	cfg := security.DefaultAnomalyConfig()
	cfg.HighVelocityCount = 3
	detector := security.NewAnomalyDetector(func() time.Time { return now }, cfg)

	var last security.Severity
	for i := 0; i < 3; i++ {
		last = detector.Record("actor-1", "tenant-1", "", "inventory.adjust.request", false)
	}
	require.Equal(t, security.SeverityWarn, last)
}

func TestAnomalyDetector_RapidBranchSwitchingBlocks(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	cfg := security.DefaultAnomalyConfig()
	detector := security.NewAnomalyDetector(func() time.Time { return now }, cfg)

	detector.Record("actor-1", "tenant-1", "branch-1", "intent.a", false)
	detector.Record("actor-1", "tenant-1", "branch-2", "intent.a", false)
	detector.Record("actor-1", "tenant-1", "branch-3", "intent.a", false)
	severity := detector.Record("actor-1", "tenant-1", "branch-4", "intent.a", false)

	require.Equal(t, security.SeverityBlock, severity)
}

func TestAnomalyDetector_BranchSwitchingOutsideWindowDoesNotBlock(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	var now time.Time
	detector := security.NewAnomalyDetector(func() time.Time { return now }, security.DefaultAnomalyConfig())

	now = start
	detector.Record("actor-1", "tenant-1", "branch-1", "intent.a", false)
	now = start.Add(10 * time.Second)
	detector.Record("actor-1", "tenant-1", "branch-2", "intent.a", false)
	now = start.Add(20 * time.Second)
	detector.Record("actor-1", "tenant-1", "branch-3", "intent.a", false)

	// At 45s the 30s BranchSwitchWindow starts at 15s: branch-1 and branch-2
	// have aged out of the switch check (though still within the 60s
	// activity Window), leaving branch-3 and branch-4, two distinct branches.
	now = start.Add(45 * time.Second)
	severity := detector.Record("actor-1", "tenant-1", "branch-4", "intent.a", false)
	require.NotEqual(t, security.SeverityBlock, severity)
}

// TestAnomalyDetector_RepeatedRejectionsWarn exercises the rule the
// dispatcher's rejection-recording fix makes reachable: repeated rejections
// of the same command type accumulate to a WARN.
func TestAnomalyDetector_RepeatedRejectionsWarn(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	cfg := security.DefaultAnomalyConfig()
	cfg.RepeatedRejections = 3
	cfg.HighVelocityCount = 1000 // isolate the rejection rule from velocity
	detector := security.NewAnomalyDetector(func() time.Time { return now }, cfg)

	var last security.Severity
	for i := 0; i < 3; i++ {
		last = detector.Record("actor-1", "tenant-1", "", "cash.session.payment.request", true)
	}
	require.Equal(t, security.SeverityWarn, last)
}

func TestAnomalyDetector_RejectionsOfDifferentTypesDoNotAccumulate(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	cfg := security.DefaultAnomalyConfig()
	cfg.RepeatedRejections = 3
	cfg.HighVelocityCount = 1000
	detector := security.NewAnomalyDetector(func() time.Time { return now }, cfg)

	last := detector.Record("actor-1", "tenant-1", "", "cash.session.payment.request", true)
	last = detector.Record("actor-1", "tenant-1", "", "inventory.adjust.request", true)
	last = detector.Record("actor-1", "tenant-1", "", "accounting.post.request", true)
	require.Equal(t, security.SeverityInfo, last)
}

func TestAnomalyDetector_OldActivityAgesOutOfWindow(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	var now time.Time
	cfg := security.DefaultAnomalyConfig()
	cfg.HighVelocityCount = 2
	detector := security.NewAnomalyDetector(func() time.Time { return now }, cfg)

	now = start
	detector.Record("actor-1", "tenant-1", "", "intent.a", false)

	now = start.Add(90 * time.Second)
	severity := detector.Record("actor-1", "tenant-1", "", "intent.a", false)
	require.Equal(t, security.SeverityInfo, severity)
}
