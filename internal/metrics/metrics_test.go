package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// scrape returns the text exposition served by m.
func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	return rec.Body.String()
}

func assertLine(t *testing.T, body, line string) {
	t.Helper()
	for _, l := range strings.Split(body, "\n") {
		if l == line {
			return
		}
	}
	t.Errorf("metrics output missing line %q", line)
}

func TestObserveRun_Success(t *testing.T) {
	m := New()
	m.ObserveRun("weekly", "critique", false, 12, 2*time.Second, nil)
	m.ObserveRun("weekly", "praise", true, 5, time.Second, nil)

	body := scrape(t, m)
	assertLine(t, body, `hawk_reports_generated_total{kind="weekly",mode="critique"} 1`)
	assertLine(t, body, `hawk_reports_generated_total{kind="weekly",mode="praise"} 1`)
	assertLine(t, body, `hawk_narrative_placeholders_total{kind="weekly"} 1`)
	assertLine(t, body, `hawk_report_period_events{kind="weekly"} 5`)
	assertLine(t, body, `hawk_report_run_duration_seconds_count{kind="weekly"} 2`)

	if !strings.Contains(body, `hawk_report_last_success_timestamp_seconds{kind="weekly"}`) {
		t.Error("last success gauge missing")
	}
	if strings.Contains(body, "hawk_report_failures_total{") {
		t.Error("failure series should not exist")
	}
}

func TestObserveRun_Failure(t *testing.T) {
	m := New()
	m.ObserveRun("monthly", "critique", false, 0, time.Second, errors.New("boom"))

	body := scrape(t, m)
	assertLine(t, body, `hawk_report_failures_total{kind="monthly"} 1`)
	assertLine(t, body, `hawk_report_run_duration_seconds_count{kind="monthly"} 1`)
	if strings.Contains(body, "hawk_reports_generated_total{") {
		t.Error("failed run counted as generated")
	}
}

func TestObserveReload(t *testing.T) {
	m := New()
	m.ObserveReload(nil)
	m.ObserveReload(errors.New("bad toml"))
	m.ObserveReload(nil)

	body := scrape(t, m)
	assertLine(t, body, `hawk_config_reloads_total{result="ok"} 2`)
	assertLine(t, body, `hawk_config_reloads_total{result="error"} 1`)
}

func TestServer(t *testing.T) {
	m := New()
	m.ObserveRun("weekly", "critique", false, 3, time.Second, nil)

	srv := httptest.NewServer(m.Server("").Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "hawk_report_run_duration_seconds_bucket") {
		t.Error("histogram buckets missing")
	}

	resp2, err := http.Get(srv.URL + "/other")
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("/other status = %d, want 404", resp2.StatusCode)
	}
}
