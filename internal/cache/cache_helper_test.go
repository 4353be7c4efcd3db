package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedDocente struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "docente:"), mr
}

func TestCacheHelperRoundTrip(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	want := cachedDocente{ID: "d1", Nome: "Maria Santos"}
	if err := helper.Set(ctx, "id:d1", want, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got cachedDocente
	if err := helper.Get(ctx, "id:d1", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCacheHelperMiss(t *testing.T) {
	helper, _ := newTestHelper(t)

	var got cachedDocente
	err := helper.Get(context.Background(), "id:absent", &got)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelperExpiry(t *testing.T) {
	helper, mr := newTestHelper(t)
	ctx := context.Background()

	if err := helper.Set(ctx, "id:d1", cachedDocente{ID: "d1"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	var got cachedDocente
	if err := helper.Get(ctx, "id:d1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("expected expiry miss, got %v", err)
	}
}

func TestCacheHelperNilClientDegrades(t *testing.T) {
	helper := NewCacheHelper(nil, "docente:")
	ctx := context.Background()

	if err := helper.Set(ctx, "id:d1", cachedDocente{}, time.Minute); err != nil {
		t.Errorf("set with nil client: %v", err)
	}
	if err := helper.Delete(ctx, "id:d1"); err != nil {
		t.Errorf("delete with nil client: %v", err)
	}
	var got cachedDocente
	if err := helper.Get(ctx, "id:d1", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
}

func TestInvalidatePropostaDropsListings(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cm := NewCacheManager(client)
	ctx := context.Background()

	if err := cm.Proposta.Set(ctx, "id:p1", cachedDocente{ID: "p1"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cm.Proposta.Set(ctx, "list:page:1", []string{"p1"}, time.Minute); err != nil {
		t.Fatalf("set list: %v", err)
	}

	cm.InvalidateProposta(ctx, "p1")

	var got cachedDocente
	if err := cm.Proposta.Get(ctx, "id:p1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected proposal entry dropped, got %v", err)
	}
	var list []string
	if err := cm.Proposta.Get(ctx, "list:page:1", &list); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected listing dropped, got %v", err)
	}
}
