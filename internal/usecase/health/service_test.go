package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func TestCheck_Healthy(t *testing.T) {
	svc := New(&mockPinger{})
	report := svc.Check(context.Background())

	if report.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, report.Status)
	}
	if report.Checks["database"] != CheckOK {
		t.Errorf("expected database ok, got %q", report.Checks["database"])
	}
}

func TestCheck_DatabaseDown(t *testing.T) {
	svc := New(&mockPinger{
		pingFn: func(context.Context) error { return errors.New("connection refused") },
	})
	report := svc.Check(context.Background())

	if report.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, report.Status)
	}
	if report.Checks["database"] != CheckError {
		t.Errorf("expected database error, got %q", report.Checks["database"])
	}
}
