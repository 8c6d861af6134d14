package progress

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestBatch_Lifecycle(t *testing.T) {
	b := NewBatch([]FileInfo{
		{Name: "a.bin", Size: 4},
		{Name: "b.bin", Size: 6},
	})

	if got := b.State(); got != BatchIdle {
		t.Fatalf("initial state = %v, want BatchIdle", got)
	}
	if err := b.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := b.Start(); err == nil {
		t.Error("second Start() succeeded, want error")
	}

	for i, content := range []string{"aaaa", "bbbbbb"} {
		b.StartFile(i)
		if got := b.FileState(i); got != FileUploading {
			t.Errorf("file %d state = %v, want FileUploading", i, got)
		}
		if _, err := io.Copy(io.Discard, b.Reader(i, strings.NewReader(content))); err != nil {
			t.Fatalf("draining reader %d: %v", i, err)
		}
		b.CompleteFile(i)
	}

	if err := b.Complete(); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	snap := b.Progress()
	if snap.State != BatchCompleted {
		t.Errorf("state = %v, want BatchCompleted", snap.State)
	}
	if snap.UploadedBytes != 10 || snap.TotalBytes != 10 {
		t.Errorf("bytes = %d/%d, want 10/10", snap.UploadedBytes, snap.TotalBytes)
	}
	if snap.Percent != 100 {
		t.Errorf("percent = %v, want 100", snap.Percent)
	}
}

func TestBatch_ByteWeightedAggregate(t *testing.T) {
	// 90-byte file plus 10-byte file: finishing only the small one must
	// report 10%, not 50%.
	b := NewBatch([]FileInfo{
		{Name: "large.bin", Size: 90},
		{Name: "small.bin", Size: 10},
	})
	if err := b.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	b.StartFile(1)
	if _, err := io.Copy(io.Discard, b.Reader(1, strings.NewReader(strings.Repeat("s", 10)))); err != nil {
		t.Fatalf("draining reader: %v", err)
	}
	b.CompleteFile(1)

	snap := b.Progress()
	if snap.Percent != 10 {
		t.Errorf("percent = %v, want 10 (byte-weighted)", snap.Percent)
	}

	// Half of the large file pushes the aggregate to 55%.
	b.StartFile(0)
	if _, err := io.Copy(io.Discard, b.Reader(0, strings.NewReader(strings.Repeat("l", 45)))); err != nil {
		t.Fatalf("draining reader: %v", err)
	}
	if snap := b.Progress(); snap.Percent != 55 {
		t.Errorf("percent = %v, want 55", snap.Percent)
	}
}

func TestBatch_Cancel(t *testing.T) {
	b := NewBatch([]FileInfo{{Name: "a.bin", Size: 100}})
	if err := b.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	b.Cancel()

	if got := b.State(); got != BatchCancelled {
		t.Errorf("state = %v, want BatchCancelled", got)
	}
	if !errors.Is(b.Err(), ErrCancelled) {
		t.Errorf("Err() = %v, want ErrCancelled", b.Err())
	}
	select {
	case <-b.Context().Done():
	default:
		t.Error("batch context not cancelled")
	}

	// A cancelled batch can never complete.
	if err := b.Complete(); err == nil {
		t.Error("Complete() after Cancel() succeeded, want error")
	}

	// Cancelling again stays a no-op.
	b.Cancel()
	if got := b.State(); got != BatchCancelled {
		t.Errorf("state after second Cancel() = %v, want BatchCancelled", got)
	}
}

func TestBatch_FileFailureFailsBatch(t *testing.T) {
	b := NewBatch([]FileInfo{
		{Name: "ok.bin", Size: 1},
		{Name: "broken.bin", Size: 1},
	})
	if err := b.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	b.StartFile(0)
	b.CompleteFile(0)

	cause := errors.New("connection reset")
	b.StartFile(1)
	b.FailFile(1, cause)

	if got := b.State(); got != BatchError {
		t.Errorf("state = %v, want BatchError", got)
	}
	if !errors.Is(b.Err(), cause) {
		t.Errorf("Err() = %v, want %v", b.Err(), cause)
	}
	if got := b.FileState(1); got != FileError {
		t.Errorf("file state = %v, want FileError", got)
	}
	if err := b.Complete(); err == nil {
		t.Error("Complete() after failure succeeded, want error")
	}
}

func TestBatch_EmptyFilesComplete(t *testing.T) {
	b := NewBatch([]FileInfo{{Name: "empty.txt", Size: 0}})
	if err := b.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	b.StartFile(0)
	b.CompleteFile(0)
	if err := b.Complete(); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if snap := b.Progress(); snap.Percent != 100 {
		t.Errorf("percent = %v, want 100 for an all-empty completed batch", snap.Percent)
	}
}
