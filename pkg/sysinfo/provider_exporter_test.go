package sysinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

const sampleExposition = `# HELP node_uname_info Labeled system information as provided by the uname system call.
# TYPE node_uname_info gauge
node_uname_info{domainname="(none)",machine="x86_64",nodename="bench-01",release="6.8.0-45-generic",sysname="Linux",version="#45-Ubuntu SMP"} 1
# HELP node_os_info A metric with a constant '1' value labeled by build_id, id, image_id, image_version, name, pretty_name, variant, variant_id, version, version_codename, version_id.
# TYPE node_os_info gauge
node_os_info{id="ubuntu",name="Ubuntu",pretty_name="Ubuntu 24.04 LTS",version="24.04 LTS (Noble Numbat)",version_codename="noble",version_id="24.04"} 1
# HELP node_dmi_info A metric with a constant '1' value labeled by bios_date, bios_vendor, board_name, board_vendor, chassis_vendor, product_name, system_vendor.
# TYPE node_dmi_info gauge
node_dmi_info{board_name="21CB",board_vendor="LENOVO",chassis_vendor="LENOVO",product_name="ThinkPad X1 Carbon Gen 10",system_vendor="LENOVO"} 1
# HELP node_memory_MemTotal_bytes Memory information field MemTotal_bytes.
# TYPE node_memory_MemTotal_bytes gauge
node_memory_MemTotal_bytes 8.589934592e+09
# HELP node_cpu_seconds_total Seconds the CPUs spent in each mode.
# TYPE node_cpu_seconds_total counter
node_cpu_seconds_total{cpu="0",mode="idle"} 100.5
node_cpu_seconds_total{cpu="0",mode="user"} 10.2
node_cpu_seconds_total{cpu="1",mode="idle"} 99.1
node_cpu_seconds_total{cpu="1",mode="user"} 11.7
`

func newExporterFixture(t *testing.T) (*ExporterProvider, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.Write([]byte(sampleExposition))
	}))
	t.Cleanup(server.Close)
	return NewExporterProvider(server.URL, zap.NewNop(), server.Client()), server
}

// TestExporterProvider_HostFacts tests uname/os info mapping
func TestExporterProvider_HostFacts(t *testing.T) {
	provider, _ := newExporterFixture(t)

	facts, err := provider.HostFacts(context.Background())
	if err != nil {
		t.Fatalf("HostFacts() error: %v", err)
	}

	if facts.Hostname != "bench-01" {
		t.Errorf("Hostname = %q, want bench-01", facts.Hostname)
	}
	if facts.OSName != "Ubuntu" {
		t.Errorf("OSName = %q, want Ubuntu (node_os_info overrides sysname)", facts.OSName)
	}
	if facts.OSVersion != "24.04" {
		t.Errorf("OSVersion = %q, want 24.04", facts.OSVersion)
	}
	if facts.BuildID != "6.8.0-45-generic" {
		t.Errorf("BuildID = %q, want kernel release", facts.BuildID)
	}
	if facts.IsVirtual {
		t.Error("IsVirtual = true for LENOVO system vendor")
	}
}

// TestExporterProvider_TotalMemory tests the memory gauge mapping
func TestExporterProvider_TotalMemory(t *testing.T) {
	provider, _ := newExporterFixture(t)

	total, err := provider.TotalMemory(context.Background())
	if err != nil {
		t.Fatalf("TotalMemory() error: %v", err)
	}
	if total != 8589934592 {
		t.Errorf("TotalMemory = %d, want 8589934592", total)
	}
}

// TestExporterProvider_CPUCount tests distinct cpu label counting
func TestExporterProvider_CPUCount(t *testing.T) {
	provider, _ := newExporterFixture(t)

	count, err := provider.CPUCount(context.Background())
	if err != nil {
		t.Fatalf("CPUCount() error: %v", err)
	}
	if count != 2 {
		t.Errorf("CPUCount = %d, want 2", count)
	}
}

// TestExporterProvider_Hardware tests DMI label mapping
func TestExporterProvider_Hardware(t *testing.T) {
	provider, _ := newExporterFixture(t)

	hw, err := provider.Hardware(context.Background())
	if err != nil {
		t.Fatalf("Hardware() error: %v", err)
	}

	if hw.Manufacturer != "LENOVO" {
		t.Errorf("Manufacturer = %q, want LENOVO", hw.Manufacturer)
	}
	if hw.ModelName != "ThinkPad X1 Carbon Gen 10" {
		t.Errorf("ModelName = %q, want product_name", hw.ModelName)
	}
	if hw.ModelID != "21CB" {
		t.Errorf("ModelID = %q, want board_name", hw.ModelID)
	}
}

// TestExporterProvider_ScrapeFailure tests that HTTP errors surface as errors
func TestExporterProvider_ScrapeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "exporter down", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewExporterProvider(server.URL, zap.NewNop(), server.Client())

	if _, err := provider.HostFacts(context.Background()); err == nil {
		t.Error("HostFacts() error = nil, want error on HTTP 500")
	}
	if _, err := provider.TotalMemory(context.Background()); err == nil {
		t.Error("TotalMemory() error = nil, want error on HTTP 500")
	}
}

// TestExporterProvider_DegradesThroughBuilder tests the end-to-end degrade path
func TestExporterProvider_DegradesThroughBuilder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "exporter down", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newWithProvider(NewExporterProvider(server.URL, zap.NewNop(), server.Client()), nil)
	snap := svc.GetDeviceInfo(context.Background())

	if snap.Platform != CurrentPlatform() {
		t.Errorf("Platform = %q, want %q", snap.Platform, CurrentPlatform())
	}
	if snap.TotalMemory != nil || snap.ModelName != nil {
		t.Error("failed scrape should degrade provider fields to nil")
	}
}

// TestIsVirtualVendor tests hypervisor vendor matching
func TestIsVirtualVendor(t *testing.T) {
	virtual := []string{"QEMU", "VMware, Inc.", "innotek GmbH", "Xen", "Parallels International"}
	for _, v := range virtual {
		if !isVirtualVendor(v) {
			t.Errorf("isVirtualVendor(%q) = false, want true", v)
		}
	}
	physical := []string{"LENOVO", "Dell Inc.", "Apple Inc.", ""}
	for _, v := range physical {
		if isVirtualVendor(v) {
			t.Errorf("isVirtualVendor(%q) = true, want false", v)
		}
	}
}
