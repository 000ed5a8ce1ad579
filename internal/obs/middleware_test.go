package obs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStatusRecorderCapturesStatusAndBytes(t *testing.T) {
	rr := httptest.NewRecorder()
	recorder := NewStatusRecorder(rr)
	recorder.WriteHeader(http.StatusNotFound)
	_, _ = recorder.Write([]byte(`{"success":false}`))

	if recorder.Status() != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Status())
	}
	if recorder.BytesWritten() != int64(len(`{"success":false}`)) {
		t.Fatalf("unexpected byte count %d", recorder.BytesWritten())
	}
}

func TestHTTPObsRecordsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics("test_sim", nil, reg)

	handler := HTTPObs{Metrics: metrics}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/stcpay/payment", nil))

	count := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/api/v1/stcpay/payment", "200"))
	if count != 1 {
		t.Fatalf("expected one recorded request, got %v", count)
	}
}

func TestHTTPObsWithoutMetricsPassesThrough(t *testing.T) {
	called := false
	handler := HTTPObs{}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Fatal("expected wrapped handler to run")
	}
}

func TestParseBucketsCSV(t *testing.T) {
	buckets := ParseBucketsCSV("5, 10,25")
	if len(buckets) != 3 || buckets[0] != 5 || buckets[2] != 25 {
		t.Fatalf("unexpected buckets %v", buckets)
	}
	if ParseBucketsCSV("") != nil {
		t.Fatal("empty csv should yield nil buckets")
	}
	if got := ParseBucketsCSV("bad,values"); len(got) != 0 {
		t.Fatalf("unparseable csv should yield no buckets, got %v", got)
	}
}
