package constants

import (
	"encoding/json"
	"testing"
)

func TestWorkerStatusString(t *testing.T) {
	tests := []struct {
		name     string
		status   WorkerStatus
		expected string
	}{
		{name: "idle status", status: WorkerStatusIdle, expected: "idle"},
		{name: "busy status", status: WorkerStatusBusy, expected: "busy"},
		{name: "unknown status", status: WorkerStatus(999), expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.String(); got != tt.expected {
				t.Errorf("WorkerStatus.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWorkerStatusMarshalJSON(t *testing.T) {
	got, err := json.Marshal(map[string]WorkerStatus{"w": WorkerStatusBusy})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(got) != `{"w":"busy"}` {
		t.Errorf("json.Marshal() = %v, want %v", string(got), `{"w":"busy"}`)
	}
}

func TestGradingPolicyConstants(t *testing.T) {
	if SampleCaseLimit != 2 {
		t.Fatalf("sample cut-off must stay at 2, got %d", SampleCaseLimit)
	}
	if NumericTolerance >= 1e-3 || NumericTolerance <= 0 {
		t.Fatalf("unexpected numeric tolerance %v", NumericTolerance)
	}
}
