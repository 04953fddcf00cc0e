package sysinfo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
	"go.uber.org/zap"
)

// ExporterProvider reads device metadata by scraping a Prometheus
// node_exporter endpoint. Useful when the agent runs next to, rather than
// on, the machine being described.
type ExporterProvider struct {
	exporterURL string
	logger      *zap.Logger
	httpClient  *http.Client
}

// NewExporterProvider creates a provider that scrapes node_exporter info
// metrics (node_uname_info, node_os_info, node_dmi_info,
// node_memory_MemTotal_bytes, node_cpu_seconds_total).
func NewExporterProvider(url string, logger *zap.Logger, httpClient *http.Client) *ExporterProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ExporterProvider{
		exporterURL: url,
		logger:      logger,
		httpClient:  httpClient,
	}
}

func (p *ExporterProvider) Name() string {
	return fmt.Sprintf("exporter (%s)", p.exporterURL)
}

func (p *ExporterProvider) HostFacts(ctx context.Context) (*HostFacts, error) {
	families, err := p.scrape(ctx)
	if err != nil {
		return nil, err
	}

	facts := &HostFacts{}
	if uname := firstMetric(families, "node_uname_info"); uname != nil {
		facts.Hostname = labelValue(uname, "nodename")
		facts.OSName = labelValue(uname, "sysname")
		facts.BuildID = labelValue(uname, "release")
	}
	if osInfo := firstMetric(families, "node_os_info"); osInfo != nil {
		if name := labelValue(osInfo, "name"); name != "" {
			facts.OSName = name
		}
		facts.OSVersion = labelValue(osInfo, "version_id")
	}
	if dmi := firstMetric(families, "node_dmi_info"); dmi != nil {
		facts.IsVirtual = isVirtualVendor(labelValue(dmi, "system_vendor"))
	}

	if facts.Hostname == "" && facts.OSName == "" {
		return nil, fmt.Errorf("exporter exposed no host info metrics")
	}
	return facts, nil
}

func (p *ExporterProvider) TotalMemory(ctx context.Context) (uint64, error) {
	families, err := p.scrape(ctx)
	if err != nil {
		return 0, err
	}

	m := firstMetric(families, "node_memory_MemTotal_bytes")
	if m == nil {
		return 0, fmt.Errorf("node_memory_MemTotal_bytes not exposed")
	}
	return uint64(metricValue(m)), nil
}

func (p *ExporterProvider) CPUCount(ctx context.Context) (int, error) {
	families, err := p.scrape(ctx)
	if err != nil {
		return 0, err
	}

	family, ok := families["node_cpu_seconds_total"]
	if !ok {
		return 0, fmt.Errorf("node_cpu_seconds_total not exposed")
	}

	cpus := make(map[string]struct{})
	for _, m := range family.GetMetric() {
		if cpu := labelValue(m, "cpu"); cpu != "" {
			cpus[cpu] = struct{}{}
		}
	}
	if len(cpus) == 0 {
		return 0, fmt.Errorf("no cpu series found")
	}
	return len(cpus), nil
}

func (p *ExporterProvider) Hardware(ctx context.Context) (*HardwareIdentity, error) {
	families, err := p.scrape(ctx)
	if err != nil {
		return nil, err
	}

	dmi := firstMetric(families, "node_dmi_info")
	if dmi == nil {
		return nil, fmt.Errorf("node_dmi_info not exposed")
	}

	hw := &HardwareIdentity{
		Brand:        labelValue(dmi, "board_vendor"),
		Manufacturer: labelValue(dmi, "system_vendor"),
		ModelName:    labelValue(dmi, "product_name"),
		ModelID:      labelValue(dmi, "board_name"),
		DeviceType:   DeviceTypeUnknown,
	}
	if hw.Manufacturer == "" && hw.ModelName == "" {
		return nil, fmt.Errorf("node_dmi_info exposed no identity labels")
	}
	return hw, nil
}

// scrape fetches and parses the exporter's metric families. Each provider
// call scrapes fresh; the snapshot builders already bound and degrade the
// call, so no caching happens here.
func (p *ExporterProvider) scrape(ctx context.Context) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", p.exporterURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "deviceinfo-agent/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metrics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// Size limit guards against a misbehaving endpoint streaming forever.
	limitedReader := io.LimitReader(resp.Body, 10*1024*1024)

	parser := expfmt.NewTextParser(model.LegacyValidation)
	families, err := parser.TextToMetricFamilies(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse metrics: %w", err)
	}
	return families, nil
}

// firstMetric returns the first sample of the named family, or nil.
func firstMetric(families map[string]*dto.MetricFamily, name string) *dto.Metric {
	family, ok := families[name]
	if !ok || len(family.GetMetric()) == 0 {
		return nil
	}
	return family.GetMetric()[0]
}

// labelValue returns the value of the named label, or "".
func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

// metricValue extracts the sample value regardless of metric type.
func metricValue(m *dto.Metric) float64 {
	if g := m.GetGauge(); g != nil {
		return g.GetValue()
	}
	if c := m.GetCounter(); c != nil {
		return c.GetValue()
	}
	if u := m.GetUntyped(); u != nil {
		return u.GetValue()
	}
	return 0
}

// isVirtualVendor matches DMI vendor strings of common hypervisors.
func isVirtualVendor(vendor string) bool {
	vendor = strings.ToLower(vendor)
	for _, v := range []string{"qemu", "kvm", "vmware", "virtualbox", "innotek", "xen", "microsoft corporation hyper-v", "parallels"} {
		if strings.Contains(vendor, v) {
			return true
		}
	}
	return false
}
