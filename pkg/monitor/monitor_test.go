package monitor

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCountersSnapshot(t *testing.T) {
	c := New()
	c.TransferOpened("/help")
	c.TransferOpened("/fpga.0.4")
	c.TransferFailed("/dev/nope", errors.New("not found"))
	c.BytesRead(16)
	c.BytesWritten(4)

	snap := c.Snapshot()
	if snap.TransfersOpened != 2 {
		t.Errorf("TransfersOpened = %d, want 2", snap.TransfersOpened)
	}
	if snap.TransfersFailed != 1 {
		t.Errorf("TransfersFailed = %d, want 1", snap.TransfersFailed)
	}
	if snap.BytesRead != 16 || snap.BytesWritten != 4 {
		t.Errorf("bytes = %d/%d, want 16/4", snap.BytesRead, snap.BytesWritten)
	}
	if snap.LastResource != "/dev/nope" {
		t.Errorf("LastResource = %q, want /dev/nope", snap.LastResource)
	}
	if snap.LastError != "not found" {
		t.Errorf("LastError = %q, want %q", snap.LastError, "not found")
	}
}

func TestPrometheusHandler(t *testing.T) {
	c := New()
	c.TransferOpened("/help")
	c.BytesRead(100)

	rec := httptest.NewRecorder()
	c.PrometheusHandler()(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "tapcpd_transfers_opened_total 1") {
		t.Errorf("missing transfers_opened counter in body:\n%s", body)
	}
	if !strings.Contains(body, "tapcpd_bytes_read_total 100") {
		t.Errorf("missing bytes_read counter in body:\n%s", body)
	}
}
