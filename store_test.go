package reqheaders

import (
	"context"
	"errors"
	"testing"
)

func TestHeaders_NoContext(t *testing.T) {
	_, err := Headers(context.Background())

	if !errors.Is(err, ErrNoRequestContext) {
		t.Fatalf("Headers() error = %v, want ErrNoRequestContext", err)
	}
}

func TestHeaders_PublishedPayload(t *testing.T) {
	ctx := Publish(context.Background(), []byte(`{"host":"localhost:3000"}`))

	bag, err := Headers(ctx)
	if err != nil {
		t.Fatalf("Headers() error = %v, want nil", err)
	}

	if host, ok := bag.Get("host"); !ok || host != "localhost:3000" {
		t.Errorf("Get(host) = (%q, %v), want (localhost:3000, true)", host, ok)
	}
}

func TestHeaders_MalformedPayload(t *testing.T) {
	ctx := Publish(context.Background(), []byte(`not json`))

	bag, err := Headers(ctx)

	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("Headers() error = %v, want ErrMalformedPayload", err)
	}
	if errors.Is(err, ErrNoRequestContext) {
		t.Error("malformed payload must be distinguishable from missing context")
	}
	if bag.Len() != 0 {
		t.Errorf("bag has %d entries after parse failure, want 0", bag.Len())
	}
}

func TestHeaders_PublishedBag(t *testing.T) {
	original := NewHeaderBag(map[string]string{"x-request-id": "abc"})
	ctx := PublishBag(context.Background(), original)

	bag, err := Headers(ctx)
	if err != nil {
		t.Fatalf("Headers() error = %v, want nil", err)
	}

	if id, ok := bag.Get("x-request-id"); !ok || id != "abc" {
		t.Errorf("Get(x-request-id) = (%q, %v), want (abc, true)", id, ok)
	}
}

func TestHeaders_LatestPublishWins(t *testing.T) {
	ctx := PublishBag(context.Background(), NewHeaderBag(map[string]string{"host": "first"}))
	ctx = PublishBag(ctx, NewHeaderBag(map[string]string{"host": "second"}))

	bag, err := Headers(ctx)
	if err != nil {
		t.Fatalf("Headers() error = %v, want nil", err)
	}

	if host, _ := bag.Get("host"); host != "second" {
		t.Errorf("Get(host) = %q, want %q", host, "second")
	}
}
