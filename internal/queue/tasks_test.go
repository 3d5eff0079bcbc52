package queue

import (
	"testing"

	"github.com/easyq-blog/internal/config"

	"github.com/hibiken/asynq"
)

func TestRevalidatePagesTaskPayload(t *testing.T) {
	task, err := NewRevalidatePagesTask(RevalidatePagesPayload{Slug: "  hello-world "})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskRevalidatePages {
		t.Fatalf("unexpected task type %q", task.Type())
	}
	payload, err := ParseRevalidatePagesPayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.Slug != "hello-world" {
		t.Fatalf("unexpected slug %q", payload.Slug)
	}
}

func TestRevalidatePagesTaskWithoutSlug(t *testing.T) {
	task, err := NewRevalidatePagesTask(RevalidatePagesPayload{})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if string(task.Payload()) != "{}" {
		t.Fatalf("empty slug should be omitted, got %s", task.Payload())
	}
	payload, err := ParseRevalidatePagesPayload(asynq.NewTask(TaskRevalidatePages, nil))
	if err != nil || payload.Slug != "" {
		t.Fatalf("empty payload should parse, slug=%q err=%v", payload.Slug, err)
	}
}

func TestParseRevalidatePagesPayloadInvalid(t *testing.T) {
	if _, err := ParseRevalidatePagesPayload(asynq.NewTask(TaskRevalidatePages, []byte("{"))); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueRevalidatePages(RevalidatePagesPayload{Slug: "a"}); err != nil {
		t.Fatalf("disabled enqueue should be noop: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestBuildServerConfig(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: "redis", Port: 6380, DB: 2, Concurrency: 8, Queues: map[string]int{"default": 3}})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt %+v", opt)
	}
	if cfg.Concurrency != 8 || cfg.Queues["default"] != 3 {
		t.Fatalf("unexpected server config %+v", cfg)
	}
	_, fallback := BuildServerConfig(nil)
	if fallback.Concurrency != 4 || fallback.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected fallback config %+v", fallback)
	}
}

func TestNewClientUnreachableRedis(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: true, Host: "127.0.0.1", Port: 1})
	if err == nil {
		t.Fatalf("unreachable redis should fail")
	}
	if client != nil {
		t.Fatalf("client should be nil on failure")
	}
}
