// Package progress tracks per-file and aggregate byte progress of a
// multi-file upload on the client side. It has no server dependency: the
// server only ever sees the multipart request the tracker happens to be
// wrapped around.
package progress

import (
	"context"
	"errors"
	"io"
	"sync"
)

type BatchState int

const (
	BatchIdle BatchState = iota
	BatchUploading
	BatchCompleted
	BatchError
	BatchCancelled
)

func (s BatchState) String() string {
	switch s {
	case BatchIdle:
		return "idle"
	case BatchUploading:
		return "uploading"
	case BatchCompleted:
		return "completed"
	case BatchError:
		return "error"
	case BatchCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

type FileState int

const (
	FilePending FileState = iota
	FileUploading
	FileCompleted
	FileError
)

// ErrCancelled is reported after Cancel; the batch can never complete.
var ErrCancelled = errors.New("upload cancelled")

// FileInfo describes one file queued for upload.
type FileInfo struct {
	Name string
	Size int64
}

// Snapshot is a point-in-time view of the batch.
type Snapshot struct {
	State         BatchState
	UploadedBytes int64
	TotalBytes    int64
	Percent       float64
}

type fileProgress struct {
	info     FileInfo
	uploaded int64
	state    FileState
	err      error
}

// Batch tracks one multi-file upload. The aggregate percentage is weighted
// by bytes, not by file count, so a large file cannot under-report. Safe for
// concurrent use; per-file uploads may run in parallel.
type Batch struct {
	mu     sync.Mutex
	files  []fileProgress
	state  BatchState
	total  int64
	done   int64
	err    error
	ctx    context.Context
	cancel context.CancelFunc
}

// NewBatch builds an idle batch for the given files.
func NewBatch(files []FileInfo) *Batch {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Batch{
		files:  make([]fileProgress, len(files)),
		ctx:    ctx,
		cancel: cancel,
	}
	for i, f := range files {
		b.files[i] = fileProgress{info: f}
		b.total += f.Size
	}
	return b
}

// Context is cancelled when the batch is; wire it into the upload request so
// Cancel aborts the connection.
func (b *Batch) Context() context.Context {
	return b.ctx
}

// Start moves the batch from idle to uploading.
func (b *Batch) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != BatchIdle {
		return errors.New("batch already started")
	}
	b.state = BatchUploading
	return nil
}

// StartFile marks one file as actively uploading.
func (b *Batch) StartFile(i int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.files[i].state == FilePending {
		b.files[i].state = FileUploading
	}
}

// Reader wraps a file's content reader so bytes flowing through it feed the
// progress counters.
func (b *Batch) Reader(i int, r io.Reader) io.Reader {
	return &countingReader{batch: b, index: i, r: r}
}

type countingReader struct {
	batch *Batch
	index int
	r     io.Reader
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.batch.add(c.index, int64(n))
	}
	return n, err
}

func (b *Batch) add(i int, n int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.files[i].uploaded += n
	b.done += n
}

// CompleteFile marks one file as finished.
func (b *Batch) CompleteFile(i int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.files[i].state = FileCompleted
}

// FailFile marks one file as failed and moves the whole batch to its error
// terminal state; the create is all-or-nothing server-side, so one failed
// file fails the batch.
func (b *Batch) FailFile(i int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.files[i].state = FileError
	b.files[i].err = err
	if b.state == BatchUploading || b.state == BatchIdle {
		b.state = BatchError
		b.err = err
	}
}

// Complete moves the batch to completed once every file finished.
func (b *Batch) Complete() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != BatchUploading {
		return errors.New("batch is not uploading")
	}
	for _, f := range b.files {
		if f.state != FileCompleted {
			return errors.New("not every file has completed")
		}
	}
	b.state = BatchCompleted
	return nil
}

// Cancel aborts an in-flight upload: the batch context is cancelled (which
// tears down the HTTP request) and the batch lands in its cancelled terminal
// state. Cancelling a finished batch is a no-op.
func (b *Batch) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case BatchCompleted, BatchError, BatchCancelled:
		return
	}
	b.state = BatchCancelled
	b.err = ErrCancelled
	b.cancel()
}

// State returns the batch state.
func (b *Batch) State() BatchState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// FileState returns one file's state.
func (b *Batch) FileState(i int) FileState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.files[i].state
}

// Err returns the terminal error, if any.
func (b *Batch) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Progress returns the byte-weighted aggregate snapshot.
func (b *Batch) Progress() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	snap := Snapshot{
		State:         b.state,
		UploadedBytes: b.done,
		TotalBytes:    b.total,
	}
	if b.total > 0 {
		snap.Percent = float64(b.done) / float64(b.total) * 100
	} else if b.state == BatchCompleted {
		snap.Percent = 100
	}
	return snap
}
