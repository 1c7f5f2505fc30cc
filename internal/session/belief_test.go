package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeliefs_InitialState(t *testing.T) {
	b := NewBeliefs()

	assert.Equal(t, ConnOffline, b.Connectivity())
	assert.Equal(t, StatusUnknown, b.Operating())
	assert.False(t, b.StartPending())
	assert.Equal(t, UIOffline, b.DerivedUIStatus())
}

func TestBeliefs_StatusUpdateImpliesReachability(t *testing.T) {
	b := NewBeliefs()

	tr := b.ApplyStatusUpdate(StatusStandby)

	assert.Equal(t, ConnOnline, b.Connectivity())
	assert.Equal(t, StatusStandby, b.Operating())
	assert.Equal(t, UIStandby, b.DerivedUIStatus())
	assert.Equal(t, Transition{From: StatusUnknown, To: StatusStandby}, tr)
}

func TestBeliefs_OfflineBeatsStatus(t *testing.T) {
	// Status first, offline second: offline wins no matter what was cached.
	b := NewBeliefs()
	b.ApplyStatusUpdate(StatusRecording)
	b.ApplyOffline()

	assert.Equal(t, UIOffline, b.DerivedUIStatus())
	assert.Equal(t, StatusUnknown, b.Operating(), "a disconnected device's last status cannot be trusted")
}

func TestBeliefs_StatusAfterOfflineResurrects(t *testing.T) {
	// Offline first, status second: a status report implies reachability,
	// so the device legitimately comes back online.
	b := NewBeliefs()
	b.ApplyOffline()
	b.ApplyStatusUpdate(StatusStandby)

	assert.Equal(t, ConnOnline, b.Connectivity())
	assert.Equal(t, UIStandby, b.DerivedUIStatus())
}

func TestBeliefs_OnlineAloneLeavesStatusUnknown(t *testing.T) {
	b := NewBeliefs()
	b.ApplyOnline()

	assert.Equal(t, ConnOnline, b.Connectivity())
	assert.Equal(t, StatusUnknown, b.Operating())
	assert.Equal(t, UIUnknown, b.DerivedUIStatus(), "reachability says nothing about device state")
}

func TestBeliefs_AnyStatusUpdateClearsOptimism(t *testing.T) {
	for _, status := range []OperatingStatus{StatusRecording, StatusStandby, StatusOff, StatusUploading, StatusUnknown} {
		t.Run(string(status), func(t *testing.T) {
			b := NewBeliefs()
			b.ApplyStatusUpdate(StatusStandby)
			b.BeginOptimisticStart()
			require.True(t, b.StartPending())

			b.ApplyStatusUpdate(status)

			assert.False(t, b.StartPending(), "the device's own report wins over optimism")
		})
	}
}

func TestBeliefs_OfflineClearsOptimism(t *testing.T) {
	b := NewBeliefs()
	b.ApplyStatusUpdate(StatusStandby)
	b.BeginOptimisticStart()

	b.ApplyOffline()

	assert.False(t, b.StartPending())
}

func TestBeliefs_NeverOfflineWithKnownStatus(t *testing.T) {
	// Exercise every mutation path and check the invariant after each.
	b := NewBeliefs()
	steps := []func(){
		func() { b.ApplyStatusUpdate(StatusRecording) },
		func() { b.ApplyOffline() },
		func() { b.ApplyOnline() },
		func() { b.ApplyStatusUpdate(StatusUploading) },
		func() { b.ApplyOffline() },
		func() { b.BeginOptimisticStart() },
	}
	for i, step := range steps {
		step()
		if b.Connectivity() == ConnOffline {
			assert.Equal(t, StatusUnknown, b.Operating(), "step %d broke the invariant", i)
		}
	}
}

func TestDeriveUIStatus(t *testing.T) {
	tests := []struct {
		name   string
		conn   Connectivity
		status OperatingStatus
		want   UIStatus
	}{
		{"offline masks standby", ConnOffline, StatusStandby, UIOffline},
		{"offline masks unknown", ConnOffline, StatusUnknown, UIOffline},
		{"online unknown", ConnOnline, StatusUnknown, UIUnknown},
		{"online off", ConnOnline, StatusOff, UIOff},
		{"online standby", ConnOnline, StatusStandby, UIStandby},
		{"online recording", ConnOnline, StatusRecording, UIRecording},
		{"online uploading", ConnOnline, StatusUploading, UIUploading},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveUIStatus(tt.conn, tt.status))
		})
	}
}

func TestTransition_Entered(t *testing.T) {
	assert.True(t, Transition{From: StatusRecording, To: StatusStandby}.Entered(StatusStandby))
	assert.False(t, Transition{From: StatusStandby, To: StatusStandby}.Entered(StatusStandby))
	assert.False(t, Transition{From: StatusRecording, To: StatusUploading}.Entered(StatusStandby))
}

func TestOperatingStatus_IsValid(t *testing.T) {
	for _, status := range []OperatingStatus{StatusUnknown, StatusOff, StatusStandby, StatusRecording, StatusUploading} {
		assert.True(t, status.IsValid(), status)
	}
	assert.False(t, OperatingStatus("REBOOTING").IsValid())
	assert.False(t, OperatingStatus("").IsValid())
}
