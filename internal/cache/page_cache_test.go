package cache

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	UseClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	t.Cleanup(func() {
		_ = Close()
		mr.Close()
	})
	return mr
}

func TestRevalidatePaths(t *testing.T) {
	if got := RevalidatePaths(""); !reflect.DeepEqual(got, []string{"/", "/blog"}) {
		t.Fatalf("unexpected paths without slug: %v", got)
	}
	if got := RevalidatePaths("hello"); !reflect.DeepEqual(got, []string{"/", "/blog", "/blog/hello"}) {
		t.Fatalf("unexpected paths with slug: %v", got)
	}
}

func TestPageCacheRoundTripAndInvalidate(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	if err := SetPage(ctx, "/blog", []string{"a", "b"}, time.Minute); err != nil {
		t.Fatalf("set page failed: %v", err)
	}
	if err := SetPage(ctx, "/blog/a", map[string]string{"slug": "a"}, time.Minute); err != nil {
		t.Fatalf("set post page failed: %v", err)
	}
	if !mr.Exists("test:page:/blog") {
		t.Fatalf("page key should use prefix")
	}

	var list []string
	hit, err := GetPage(ctx, "/blog", &list)
	if err != nil || !hit {
		t.Fatalf("expected cache hit, hit=%v err=%v", hit, err)
	}
	if len(list) != 2 {
		t.Fatalf("unexpected cached value %v", list)
	}

	if err := InvalidatePages(ctx, RevalidatePaths("a")...); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	if mr.Exists("test:page:/blog") || mr.Exists("test:page:/blog/a") {
		t.Fatalf("pages should be invalidated")
	}
	hit, err = GetPage(ctx, "/blog", &list)
	if err != nil || hit {
		t.Fatalf("expected cache miss after invalidate, hit=%v err=%v", hit, err)
	}
}

func TestPageCacheTTL(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()
	if err := SetPage(ctx, "/", []int{1}, 30*time.Second); err != nil {
		t.Fatalf("set page failed: %v", err)
	}
	if ttl := mr.TTL("test:page:/"); ttl != 30*time.Second {
		t.Fatalf("unexpected ttl %v", ttl)
	}
	mr.FastForward(31 * time.Second)
	var out []int
	if hit, _ := GetPage(ctx, "/", &out); hit {
		t.Fatalf("page should expire")
	}
}

func TestSetPageZeroTTLSkipsWrite(t *testing.T) {
	mr := setupMiniredis(t)
	if err := SetPage(context.Background(), "/", []int{1}, 0); err != nil {
		t.Fatalf("set page failed: %v", err)
	}
	if mr.Exists("test:page:/") {
		t.Fatalf("zero ttl should disable caching")
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	_ = Close()
	var out []string
	hit, err := GetPage(context.Background(), "/blog", &out)
	if hit || err != nil {
		t.Fatalf("disabled cache should miss silently, hit=%v err=%v", hit, err)
	}
	if err := InvalidatePages(context.Background(), "/blog"); err != nil {
		t.Fatalf("disabled invalidate should be noop: %v", err)
	}
}
