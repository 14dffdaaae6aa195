//go:build e2e

package integration

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Runs against a live API started with PROVIDER=fake and a historical file
// covering bitcoin, e.g.
//
//	STORAGE=memory PROVIDER=fake go run ./cmd/api
//	E2E_BASE_URL=http://localhost:8080 go test -tags e2e ./internal/integration/...
const (
	readyTimeout       = 30 * time.Second
	readyPollInterval  = 250 * time.Millisecond
	statusPollTimeout  = time.Minute
	statusPollInterval = 250 * time.Millisecond
	idempotencyHeader  = "X-Idempotency-Key"
)

type requestReportResponse struct {
	RunID string `json:"run_id"`
}

type reportRun struct {
	RunID     string  `json:"run_id"`
	Status    string  `json:"status"`
	Error     *string `json:"error"`
	Artifacts *struct {
		Report string `json:"report"`
	} `json:"artifacts"`
}

type comparison struct {
	RunID string `json:"run_id"`
	Rows  []struct {
		Coin           string   `json:"coin"`
		CurrentPrice   float64  `json:"current_price"`
		PriceChangePct *float64 `json:"price_change_pct"`
	} `json:"rows"`
}

func baseURL(t *testing.T) string {
	t.Helper()
	u := os.Getenv("E2E_BASE_URL")
	if u == "" {
		t.Skip("set E2E_BASE_URL to run end-to-end tests")
	}
	return u
}

func TestE2E_ReportRun(t *testing.T) {
	base := baseURL(t)
	client := &http.Client{Timeout: 5 * time.Second}

	waitForReady(t, client, base)
	key := "e2e-" + uuid.NewString()
	runID := postReport(t, client, base, key)

	resp, err := doPost(client, base, key)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	run := waitForDone(t, client, base, runID)
	require.NotNil(t, run.Artifacts)
	require.NotEmpty(t, run.Artifacts.Report)

	var cmp comparison
	getJSON(t, client, base+"/comparisons/latest", &cmp)
	require.Equal(t, runID, cmp.RunID)
	require.NotEmpty(t, cmp.Rows)

	var sheets map[string][][]string
	getJSON(t, client, base+"/reports/"+runID+"/workbook", &sheets)
	require.Contains(t, sheets, "Historical Data")
	require.Contains(t, sheets, "Live Prices")
	require.Contains(t, sheets, "Comparison")
}

func waitForReady(t *testing.T, client *http.Client, base string) {
	t.Helper()
	deadline := time.Now().Add(readyTimeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(base + "/readyz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(readyPollInterval)
	}
	t.Fatalf("API did not become ready within %s", readyTimeout)
}

func doPost(client *http.Client, base, key string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, base+"/reports", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(idempotencyHeader, key)
	return client.Do(req)
}

func postReport(t *testing.T, client *http.Client, base, key string) string {
	t.Helper()
	resp, err := doPost(client, base, key)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var out requestReportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.RunID)
	return out.RunID
}

func waitForDone(t *testing.T, client *http.Client, base, runID string) reportRun {
	t.Helper()
	deadline := time.Now().Add(statusPollTimeout)
	for time.Now().Before(deadline) {
		var run reportRun
		getJSON(t, client, base+"/reports/"+runID, &run)
		switch run.Status {
		case "done":
			return run
		case "failed":
			msg := ""
			if run.Error != nil {
				msg = *run.Error
			}
			t.Fatalf("run %s failed: %s", runID, msg)
		}
		time.Sleep(statusPollInterval)
	}
	t.Fatalf("run %s did not reach done within %s", runID, statusPollTimeout)
	return reportRun{}
}

func getJSON(t *testing.T, client *http.Client, url string, out any) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, url)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
