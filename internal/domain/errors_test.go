package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRemoteErrorMatching(t *testing.T) {
	notFound := fmt.Errorf("fetch product: %w", &RemoteError{StatusCode: 404, Path: "/products/7"})
	if !errors.Is(notFound, ErrRemote) {
		t.Fatal("404 should match ErrRemote")
	}
	if !errors.Is(notFound, ErrProductNotFound) {
		t.Fatal("404 should match ErrProductNotFound")
	}

	unavailable := &RemoteError{StatusCode: 503, Path: "/products"}
	if errors.Is(unavailable, ErrProductNotFound) {
		t.Fatal("503 should not match ErrProductNotFound")
	}
	if errors.Is(unavailable, ErrOffline) {
		t.Fatal("remote rejection is not a connectivity failure")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"offline", fmt.Errorf("list: %w", ErrOffline), "No internet connection"},
		{"server", &RemoteError{StatusCode: 502}, "Server error (502)"},
		{"client", &RemoteError{StatusCode: 400}, "Request failed (400)"},
		{"not found", &RemoteError{StatusCode: 404}, "no longer available"},
		{"bad response", fmt.Errorf("%w: unexpected EOF", ErrBadResponse), "unexpected response"},
		{"timeout", context.DeadlineExceeded, "timed out"},
		{"other", errors.New("disk full"), "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserMessage(tt.err)
			if tt.err == nil {
				if got != "" {
					t.Fatalf("want empty message, got %q", got)
				}
				return
			}
			if got == "" || !strings.Contains(got, tt.want) {
				t.Fatalf("UserMessage() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
