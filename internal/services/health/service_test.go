package health

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

type fakeCounter struct {
	err error
}

func (f *fakeCounter) DocCount() (uint64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return 3, nil
}

type fakeBlobs struct {
	err error
	// block makes Ping wait for context cancellation, simulating an
	// unresponsive backend.
	block bool
}

func (f *fakeBlobs) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	return 0, nil
}

func (f *fakeBlobs) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, nil
}

func (f *fakeBlobs) Ping(ctx context.Context) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func TestCheckAllBackendsHealthy(t *testing.T) {
	svc := NewService(nil, &fakeCounter{}, &fakeBlobs{}, time.Second)

	status := svc.Check(context.Background())
	if !status.Healthy {
		t.Fatalf("status = %+v, want healthy", status)
	}
	for _, name := range []string{"database", "search", "storage"} {
		if status.Services[name] != "ok" {
			t.Fatalf("service %s = %q, want ok", name, status.Services[name])
		}
	}
}

func TestCheckSingleFailureIsUnhealthy(t *testing.T) {
	svc := NewService(nil, &fakeCounter{err: errors.New("index closed")}, &fakeBlobs{}, time.Second)

	status := svc.Check(context.Background())
	if status.Healthy {
		t.Fatalf("status = %+v, want unhealthy", status)
	}
	if status.Services["search"] == "ok" {
		t.Fatalf("search = %q, want error detail", status.Services["search"])
	}
	// Other backends still report their own state.
	if status.Services["storage"] != "ok" {
		t.Fatalf("storage = %q, want ok", status.Services["storage"])
	}
}

func TestCheckReturnsWithinTimeout(t *testing.T) {
	svc := NewService(nil, &fakeCounter{}, &fakeBlobs{block: true}, 200*time.Millisecond)

	start := time.Now()
	status := svc.Check(context.Background())
	elapsed := time.Since(start)

	if status.Healthy {
		t.Fatalf("status = %+v, want unhealthy when a probe hangs", status)
	}
	if status.Services["storage"] == "ok" {
		t.Fatalf("storage = %q, want error detail", status.Services["storage"])
	}
	if elapsed > 2*time.Second {
		t.Fatalf("Check took %s, want bounded by the configured timeout", elapsed)
	}
}

func TestCheckNilDependenciesAreSkipped(t *testing.T) {
	svc := NewService(nil, nil, nil, time.Second)

	status := svc.Check(context.Background())
	if !status.Healthy {
		t.Fatalf("status = %+v, want healthy with nil deps", status)
	}
}
