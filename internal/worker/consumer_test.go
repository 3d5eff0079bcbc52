package worker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/easyq-blog/internal/config"
	"github.com/easyq-blog/internal/provider"
	"github.com/easyq-blog/internal/queue"
	"github.com/easyq-blog/internal/service"

	"github.com/hibiken/asynq"
)

type revalidateRecorder struct {
	mu    sync.Mutex
	slugs []string
}

func (r *revalidateRecorder) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		r.slugs = append(r.slugs, req.URL.Query().Get("slug"))
		r.mu.Unlock()
		w.WriteHeader(status)
	}
}

func newTestConsumer(baseURL, secret string) (*Consumer, *asynq.ServeMux) {
	container := &provider.Container{
		RevalidationService: service.NewRevalidationService(config.RevalidateConfig{
			Secret:    secret,
			BaseURL:   baseURL,
			TimeoutMS: 1000,
		}, nil),
	}
	consumer := NewConsumer(container)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return consumer, mux
}

func TestHandleRevalidatePagesCallsEndpoint(t *testing.T) {
	recorder := &revalidateRecorder{}
	srv := httptest.NewServer(recorder.handler(http.StatusOK))
	defer srv.Close()

	_, mux := newTestConsumer(srv.URL, "s3cret")
	task, err := queue.NewRevalidatePagesTask(queue.RevalidatePagesPayload{Slug: "hello"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if err := mux.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process task failed: %v", err)
	}
	if len(recorder.slugs) != 2 || recorder.slugs[0] != "" || recorder.slugs[1] != "hello" {
		t.Fatalf("unexpected revalidate calls: %v", recorder.slugs)
	}
}

func TestHandleRevalidatePagesReturnsErrorOnFailure(t *testing.T) {
	recorder := &revalidateRecorder{}
	srv := httptest.NewServer(recorder.handler(http.StatusInternalServerError))
	defer srv.Close()

	_, mux := newTestConsumer(srv.URL, "s3cret")
	task, _ := queue.NewRevalidatePagesTask(queue.RevalidatePagesPayload{})
	if err := mux.ProcessTask(context.Background(), task); err == nil {
		t.Fatalf("expected error so asynq retries")
	}
}

func TestHandleRevalidatePagesSkipsWithoutSecret(t *testing.T) {
	recorder := &revalidateRecorder{}
	srv := httptest.NewServer(recorder.handler(http.StatusOK))
	defer srv.Close()

	_, mux := newTestConsumer(srv.URL, "")
	task, _ := queue.NewRevalidatePagesTask(queue.RevalidatePagesPayload{Slug: "a"})
	if err := mux.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("disabled revalidation should be skipped: %v", err)
	}
	if len(recorder.slugs) != 0 {
		t.Fatalf("no request expected, got %v", recorder.slugs)
	}
}

func TestHandleRevalidatePagesMalformedPayload(t *testing.T) {
	_, mux := newTestConsumer("http://127.0.0.1:1", "s3cret")
	err := mux.ProcessTask(context.Background(), asynq.NewTask(queue.TaskRevalidatePages, []byte("{bad")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed payload should skip retry, got %v", err)
	}
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{Enabled: false}, NewConsumer(&provider.Container{})); err == nil {
		t.Fatalf("expected error when queue disabled")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, nil); err == nil {
		t.Fatalf("expected error when consumer nil")
	}
}
