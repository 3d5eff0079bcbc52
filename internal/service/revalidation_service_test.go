package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/easyq-blog/internal/config"
	"github.com/easyq-blog/internal/queue"
)

type revalidateTarget struct {
	mu      sync.Mutex
	queries []string
	status  int
}

func newRevalidateTarget(t *testing.T, status int) (*revalidateTarget, *httptest.Server) {
	t.Helper()
	target := &revalidateTarget{status: status}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target.mu.Lock()
		target.queries = append(target.queries, r.URL.Path+"?"+r.URL.RawQuery)
		target.mu.Unlock()
		w.WriteHeader(target.status)
	}))
	t.Cleanup(srv.Close)
	return target, srv
}

func (r *revalidateTarget) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

func TestRevalidationExecuteCallsHomeThenPost(t *testing.T) {
	target, srv := newRevalidateTarget(t, http.StatusOK)
	svc := NewRevalidationService(config.RevalidateConfig{Secret: "s3cret", BaseURL: srv.URL + "/"}, nil)

	if err := svc.Execute(context.Background(), "hello-world"); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	got := target.snapshot()
	want := []string{"/revalidate?secret=s3cret", "/revalidate?secret=s3cret&slug=hello-world"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("want %v got %v", want, got)
	}

	if err := svc.Execute(context.Background(), ""); err != nil {
		t.Fatalf("execute without slug failed: %v", err)
	}
	if got := target.snapshot(); len(got) != 3 {
		t.Fatalf("without slug only home/index should be refreshed, got %v", got)
	}
}

func TestRevalidationExecuteReportsNon2xx(t *testing.T) {
	_, srv := newRevalidateTarget(t, http.StatusUnauthorized)
	svc := NewRevalidationService(config.RevalidateConfig{Secret: "s3cret", BaseURL: srv.URL}, nil)
	if err := svc.Execute(context.Background(), "a"); err == nil {
		t.Fatalf("non-2xx should be reported to the job runner")
	}
}

func TestRevalidationSkippedWithoutSecret(t *testing.T) {
	target, srv := newRevalidateTarget(t, http.StatusOK)
	svc := NewRevalidationService(config.RevalidateConfig{BaseURL: srv.URL}, nil)
	if svc.Enabled() {
		t.Fatalf("service without secret should be disabled")
	}
	svc.Notify("a")
	if err := svc.Execute(context.Background(), "a"); err != nil {
		t.Fatalf("disabled execute should be noop: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if got := target.snapshot(); len(got) != 0 {
		t.Fatalf("no request expected, got %v", got)
	}
}

func TestRevalidationNotifyFallsBackToGoroutine(t *testing.T) {
	target, srv := newRevalidateTarget(t, http.StatusOK)
	disabledQueue, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	svc := NewRevalidationService(config.RevalidateConfig{Secret: "s3cret", BaseURL: srv.URL, TimeoutMS: 1000}, disabledQueue)
	svc.Notify("post-a")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(target.snapshot()) == 2 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("notify should eventually call revalidate twice, got %v", target.snapshot())
}

func TestResolveRevalidateTimeout(t *testing.T) {
	if got := resolveRevalidateTimeout(0); got != defaultRevalidateTimeout {
		t.Fatalf("zero should fall back to default, got %v", got)
	}
	if got := resolveRevalidateTimeout(250); got != 250*time.Millisecond {
		t.Fatalf("unexpected timeout %v", got)
	}
}
