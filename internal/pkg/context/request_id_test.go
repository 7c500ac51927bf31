package context

import (
	"context"
	"testing"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "rid-1")
	if got := GetRequestID(ctx); got != "rid-1" {
		t.Fatalf("got %q", got)
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	//nolint:staticcheck
	if got := GetRequestID(nil); got != "" {
		t.Fatalf("expected empty for nil ctx, got %q", got)
	}
}
