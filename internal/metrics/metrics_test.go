package metrics

import (
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

var testRegistry *prometheus.Registry

func TestMain(m *testing.M) {
	// Initialize metrics once before all tests run so parallel tests
	// share the same collectors.
	testRegistry = prometheus.NewRegistry()
	if err := Init(testRegistry, "test"); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

// TestInitRegistersCollectors verifies that Init registers all metric families.
func TestInitRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Init(reg, "1.2.3"); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	// Restore the shared registry's collectors for the other tests.
	defer func() {
		testRegistry = prometheus.NewRegistry()
		_ = Init(testRegistry, "test")
	}()

	RecordRequest("GET", "/blogs/", "OK")
	RecordRequestDuration("GET", "/blogs/", "OK", 0.05)
	RecordGatewayCall("blogs", "GET", "200", 0.01)
	RecordAuthFailure("login_rejected")
	RecordNotification("blog", "success")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}

	for _, want := range []string{
		"staff_console_server_requests_total",
		"staff_console_server_request_duration_seconds",
		"staff_console_gateway_calls_total",
		"staff_console_gateway_call_duration_seconds",
		"staff_console_session_auth_failures_total",
		"staff_console_console_notifications_total",
		"staff_console_info",
	} {
		if !names[want] {
			t.Errorf("metric %s not registered; found %v", want, names)
		}
	}
}

// TestInitTwiceOnSameRegistryFails verifies duplicate registration is reported.
func TestInitTwiceOnSameRegistryFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Init(reg, "a"); err != nil {
		t.Fatalf("first Init() failed: %v", err)
	}
	defer func() {
		testRegistry = prometheus.NewRegistry()
		_ = Init(testRegistry, "test")
	}()

	if err := Init(reg, "a"); err == nil {
		t.Error("second Init() on the same registry should fail")
	}
}

// TestGetMetricsText verifies text exposition includes recorded series.
func TestGetMetricsText(t *testing.T) {
	RecordAuthFailure("credential_rejected")

	text, err := GetMetricsText(testRegistry)
	if err != nil {
		t.Fatalf("GetMetricsText() failed: %v", err)
	}

	if !strings.Contains(text, `staff_console_session_auth_failures_total{reason="credential_rejected"}`) {
		t.Errorf("expected auth failure series in output:\n%s", text)
	}
	if !strings.Contains(text, `staff_console_info{version="test"} 1`) {
		t.Errorf("expected info gauge in output:\n%s", text)
	}
}
