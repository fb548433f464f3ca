package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func quickRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     4 * time.Millisecond,
	}
}

func TestIsStaleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"estale", syscall.ESTALE, true},
		{"wrapped estale", &os.PathError{Op: "stat", Path: "/x", Err: syscall.ESTALE}, true},
		{"enoent", syscall.ENOENT, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isStaleError(tt.err); got != tt.want {
				t.Errorf("isStaleError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithRetryRecoversFromStale(t *testing.T) {
	calls := 0
	err := withRetry("stat", "/x", quickRetryConfig(), func() error {
		calls++
		if calls < 3 {
			return syscall.ESTALE
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withRetry failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestWithRetryDoesNotRetryOtherErrors(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := withRetry("stat", "/x", quickRetryConfig(), func() error {
		calls++
		return boom
	})
	if err != boom {
		t.Errorf("err = %v, want boom", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestWithRetryGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	err := withRetry("stat", "/x", quickRetryConfig(), func() error {
		calls++
		return syscall.ESTALE
	})
	if !isStaleError(err) {
		t.Errorf("err = %v, want ESTALE", err)
	}
	if calls != 4 {
		t.Errorf("fn called %d times, want 4 (initial + 3 retries)", calls)
	}
}

func TestStatWithRetry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	info, err := StatWithRetry(path, DefaultRetryConfig())
	if err != nil {
		t.Fatalf("StatWithRetry failed: %v", err)
	}
	if info.Size() != 1 {
		t.Errorf("Size = %d, want 1", info.Size())
	}

	if _, err := StatWithRetry(path+"-absent", DefaultRetryConfig()); !os.IsNotExist(err) {
		t.Errorf("missing file err = %v, want IsNotExist", err)
	}
}

func TestRemoveWithRetryTolerableMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if err := RemoveWithRetry(path, DefaultRetryConfig()); err != nil {
		t.Fatalf("RemoveWithRetry failed: %v", err)
	}
	// Second removal of the same path is not an error.
	if err := RemoveWithRetry(path, DefaultRetryConfig()); err != nil {
		t.Errorf("RemoveWithRetry of missing file: %v", err)
	}
}
