package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"marketproxy/internal/cli"
	"marketproxy/internal/config"
)

const (
	quoteInterval     = 2 * time.Minute  // Quote endpoint probing interval
	dashboardInterval = 10 * time.Minute // Aggregate endpoint probing interval
	probeTimeout      = 5 * time.Second  // Timeout for individual probes
	shutdownTimeout   = 10 * time.Second // Grace period for shutdown
)

var (
	monitoredCoinIDs = "bitcoin,ethereum,solana"
	monitoredSymbols = []string{"AAPL", "^GSPC", "GC=F"}
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("[main] Starting endpoint monitor...")

	configPath := flag.String("f", "etc/marketproxy.yaml", "the config file")
	addr := flag.String("addr", "", "base URL of the proxy, overrides the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("[main] Warning: failed to load config: %v", err)
		cfg = nil
	}

	// Log configuration information
	log.Printf("[main] Configuration loaded:")
	for _, line := range cli.ConfigSummaryLines(cfg) {
		log.Printf("  - %s", line)
	}

	base := *addr
	if base == "" {
		base = "http://127.0.0.1:8888"
		if cfg != nil {
			host := cfg.Host
			if host == "" || host == "0.0.0.0" {
				host = "127.0.0.1"
			}
			base = fmt.Sprintf("http://%s:%d", host, cfg.Port)
		}
	}

	log.Printf("[main] Probing %s", base)
	log.Printf("[main] Monitored coins: %s", monitoredCoinIDs)
	log.Printf("[main] Monitored symbols: %v", monitoredSymbols)
	log.Printf("[main] Intervals: quotes=%s, dashboard=%s", quoteInterval, dashboardInterval)

	client := &http.Client{Timeout: probeTimeout}

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		runQuoteMonitor(ctx, client, base)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runDashboardMonitor(ctx, client, base)
	}()

	log.Println("[main] Monitor started. Press Ctrl+C to stop.")

	<-ctx.Done()
	log.Println("[main] Shutdown signal received, stopping tasks...")

	// Give tasks time to complete current work
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[main] All tasks stopped cleanly")
	case <-shutdownCtx.Done():
		log.Println("[main] Shutdown timeout exceeded, forcing exit")
	}

	log.Println("[main] Monitor stopped")
}

// runQuoteMonitor probes the per-asset endpoints on a schedule
func runQuoteMonitor(ctx context.Context, client *http.Client, base string) {
	ticker := time.NewTicker(quoteInterval)
	defer ticker.Stop()

	// Run once immediately on startup
	monitorQuotes(ctx, client, base)

	for {
		select {
		case <-ctx.Done():
			log.Println("[quotes] Stopping quote monitor")
			return
		case <-ticker.C:
			monitorQuotes(ctx, client, base)
		}
	}
}

func monitorQuotes(ctx context.Context, client *http.Client, base string) {
	probe(ctx, client, "health", base+"/healthz")
	probe(ctx, client, "crypto.prices", base+"/api/crypto/prices?ids="+url.QueryEscape(monitoredCoinIDs)+"&vs_currencies=usd")
	for _, symbol := range monitoredSymbols {
		probe(ctx, client, "stocks.quote."+symbol, base+"/api/stocks/quote?symbol="+url.QueryEscape(symbol))
	}
	probe(ctx, client, "markets.chart", base+"/api/markets/chart?symbol="+url.QueryEscape("^GSPC"))
}

// runDashboardMonitor probes the aggregate endpoints on a slower schedule
// since each probe fans out to every upstream.
func runDashboardMonitor(ctx context.Context, client *http.Client, base string) {
	ticker := time.NewTicker(dashboardInterval)
	defer ticker.Stop()

	// Run once immediately on startup
	monitorDashboard(ctx, client, base)

	for {
		select {
		case <-ctx.Done():
			log.Println("[dashboard] Stopping dashboard monitor")
			return
		case <-ticker.C:
			monitorDashboard(ctx, client, base)
		}
	}
}

func monitorDashboard(ctx context.Context, client *http.Client, base string) {
	probe(ctx, client, "crypto.markets", base+"/api/crypto/markets?vs_currency=usd")
	probe(ctx, client, "dashboard", base+"/api/dashboard?vs_currency=usd")
}

// probe fetches one endpoint and logs status, cache marker and latency
func probe(parentCtx context.Context, client *http.Client, name, rawURL string) {
	if parentCtx.Err() != nil {
		return
	}

	ctx, cancel := context.WithTimeout(parentCtx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		log.Printf("[%s] [ERROR] %v", name, err)
		return
	}

	start := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		log.Printf("[%s] [ERROR] %v, took %dms", name, err, elapsed.Milliseconds())
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[%s] [ERROR] read body: %v, took %dms", name, err, elapsed.Milliseconds())
		return
	}

	cacheStatus := resp.Header.Get("X-Cache-Status")
	if cacheStatus == "" {
		cacheStatus = "-"
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[%s] [WARN] status=%d cache=%s body=%s, took %dms",
			name, resp.StatusCode, cacheStatus, truncate(string(body), 120), elapsed.Milliseconds())
		return
	}

	log.Printf("[%s] [OK] status=%d cache=%s bytes=%d, took %dms",
		name, resp.StatusCode, cacheStatus, len(body), elapsed.Milliseconds())
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
