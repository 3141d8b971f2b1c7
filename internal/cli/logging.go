package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"marketproxy/internal/config"
	"marketproxy/pkg/confkit"
	"marketproxy/pkg/upstream"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
// Secrets never appear; only their presence does.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	lines := []string{
		fmt.Sprintf("Listen: %s:%d", cfg.Host, cfg.Port),
		fmt.Sprintf("Cache: ttl=%ds, max_entries=%d", cfg.Cache.TTLSeconds, cfg.Cache.MaxEntries),
		fmt.Sprintf("Dashboard coins: %s", listOrDefault(cfg.Dashboard.CryptoIDs)),
		fmt.Sprintf("Dashboard symbols: %s", listOrDefault(cfg.Dashboard.InstrumentSymbols)),
		sectionLine("Upstreams config", cfg.Upstreams),
	}

	if up := cfg.Upstreams.Value; up != nil {
		lines = append(lines,
			providerLine("CoinGecko", up.Coingecko),
			providerLine("Finnhub", up.Finnhub),
			providerLine("Yahoo chart", up.YahooChart),
		)
	}

	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func providerLine(name string, p upstream.ProviderConf) string {
	base := p.BaseURL
	if base == "" {
		base = "default"
	}
	return fmt.Sprintf("%s: base=%s, key=%s", name, base, presence(p.APIKey != ""))
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func listOrDefault(items []string) string {
	if len(items) == 0 {
		return "defaults"
	}
	return strings.Join(items, ", ")
}

func sectionLine[T any](name string, section confkit.Section[T]) string {
	switch {
	case strings.TrimSpace(section.File) != "":
		return fmt.Sprintf("%s: %s", name, section.File)
	case section.Value != nil:
		return fmt.Sprintf("%s: inline", name)
	default:
		return fmt.Sprintf("%s: not configured", name)
	}
}
