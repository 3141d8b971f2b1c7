package yahoochart

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"
)

// This test uses go-vcr to record/replay a real chart call.
// It skips by default if cassette is absent and RECORD_CASSETTES != 1.
func TestClient_Summarize_Recorded(t *testing.T) {
	cassette := filepath.Join("testdata", "cassettes", "yahoo_chart_aapl.yaml")
	if _, err := os.Stat(cassette); os.IsNotExist(err) {
		if os.Getenv("RECORD_CASSETTES") != "1" {
			t.Skipf("cassette missing; set RECORD_CASSETTES=1 to record: %s", cassette)
		}
		// Ensure parent directory exists for recording
		err := os.MkdirAll(filepath.Dir(cassette), 0o755)
		assert.NoError(t, err, "mkdir cassettes dir should succeed")
	}

	r, err := recorder.New(cassette)
	assert.NoError(t, err, "recorder.New should not error")
	assert.NotNil(t, r, "recorder should not be nil")
	defer func() { _ = r.Stop() }()

	httpClient := &http.Client{Transport: r}
	client := NewClient(WithHTTPClient(httpClient))
	summary, err := client.Summarize(context.Background(), "AAPL")
	assert.NoError(t, err, "Summarize should not error")
	assert.NotNil(t, summary, "summary should not be nil")
	assert.Equal(t, "AAPL", summary.Symbol, "symbol should round-trip")
	assert.Greater(t, summary.Price, 0.0, "price should be positive")
}
