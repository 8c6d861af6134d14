package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sendry-io/sendry-server/internal/models"
	"github.com/sendry-io/sendry-server/internal/policy"
	"github.com/sendry-io/sendry-server/internal/repositories"
	"github.com/sendry-io/sendry-server/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(t.TempDir(), "test.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Transfer{}, &models.TransferFile{}, &models.AccessEvent{}); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func newTestService(t *testing.T, blobs storage.BlobStore) (*Service, *repositories.TransferRepository) {
	t.Helper()
	repo := repositories.NewTransferRepository(newTestDB(t))
	signer := NewURLSigner("test-secret", 15*time.Minute)
	return New(repo, blobs, signer, "http://localhost:8080"), repo
}

func upload(name, relativePath, content string) FileUpload {
	return FileUpload{
		Name:         name,
		RelativePath: relativePath,
		MimeType:     "application/octet-stream",
		Size:         int64(len(content)),
		Content:      strings.NewReader(content),
	}
}

// faultStore fails the nth Put call (1-based), counting across goroutines.
type faultStore struct {
	*storage.MemoryStore
	failOn int32
	puts   int32
}

func (f *faultStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if atomic.AddInt32(&f.puts, 1) == f.failOn {
		return errors.New("injected blob failure")
	}
	return f.MemoryStore.Put(ctx, key, r, size, contentType)
}

func TestCreate(t *testing.T) {
	blobs := storage.NewMemoryStore()
	svc, repo := newTestService(t, blobs)
	owner := uuid.New()

	transfer, shareURL, err := svc.Create(context.Background(), CreateInput{
		OwnerID: owner,
		Title:   "Quarterly reports",
		Files: []FileUpload{
			upload("q1.pdf", "", "q1 body"),
			upload("q2.pdf", "", "q2 body"),
		},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if len(transfer.ShortCode) != shortCodeLength {
		t.Errorf("ShortCode length = %d, want %d", len(transfer.ShortCode), shortCodeLength)
	}
	if want := "http://localhost:8080/t/" + transfer.ShortCode; shareURL != want {
		t.Errorf("shareURL = %q, want %q", shareURL, want)
	}
	if blobs.Len() != 2 {
		t.Errorf("blob count = %d, want 2", blobs.Len())
	}

	stored, err := repo.FindByShortCode(context.Background(), transfer.ShortCode)
	if err != nil {
		t.Fatalf("FindByShortCode() error: %v", err)
	}
	if len(stored.Files) != 2 {
		t.Fatalf("stored file count = %d, want 2", len(stored.Files))
	}
	for _, f := range stored.Files {
		rc, err := blobs.Get(context.Background(), f.StorageKey)
		if err != nil {
			t.Errorf("blob for %s unreachable: %v", f.Name, err)
			continue
		}
		rc.Close()
	}
}

func TestCreate_FolderGrouping(t *testing.T) {
	svc, repo := newTestService(t, storage.NewMemoryStore())

	transfer, _, err := svc.Create(context.Background(), CreateInput{
		OwnerID: uuid.New(),
		Title:   "Vacation",
		Files: []FileUpload{
			upload("a.jpg", "photos/a.jpg", "aaa"),
			upload("b.jpg", "photos/b.jpg", "bbb"),
			upload("notes.txt", "", "standalone"),
		},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	stored, err := repo.FindByShortCode(context.Background(), transfer.ShortCode)
	if err != nil {
		t.Fatalf("FindByShortCode() error: %v", err)
	}

	var grouped, standalone int
	for _, f := range stored.Files {
		if strings.HasPrefix(f.RelativePath, "photos/") {
			grouped++
		} else if f.RelativePath == "" {
			standalone++
		}
	}
	if grouped != 2 || standalone != 1 {
		t.Errorf("grouped = %d, standalone = %d, want 2 and 1", grouped, standalone)
	}
}

func TestCreate_Validation(t *testing.T) {
	blobs := storage.NewMemoryStore()
	svc, _ := newTestService(t, blobs)
	owner := uuid.New()
	past := time.Now().Add(-time.Hour)
	zero := 0

	tests := []struct {
		name  string
		input CreateInput
	}{
		{
			name:  "missing title",
			input: CreateInput{OwnerID: owner, Files: []FileUpload{upload("a.txt", "", "x")}},
		},
		{
			name:  "blank title",
			input: CreateInput{OwnerID: owner, Title: "  ", Files: []FileUpload{upload("a.txt", "", "x")}},
		},
		{
			name:  "no files",
			input: CreateInput{OwnerID: owner, Title: "t"},
		},
		{
			name:  "expiry in the past",
			input: CreateInput{OwnerID: owner, Title: "t", ExpiresAt: &past, Files: []FileUpload{upload("a.txt", "", "x")}},
		},
		{
			name:  "zero max downloads",
			input: CreateInput{OwnerID: owner, Title: "t", MaxDownloads: &zero, Files: []FileUpload{upload("a.txt", "", "x")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Create(context.Background(), tt.input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Create() error = %v, want ValidationError", err)
			}
		})
	}

	// Rejected before any storage I/O.
	if blobs.Len() != 0 {
		t.Errorf("blob count after validation failures = %d, want 0", blobs.Len())
	}
}

func TestCreate_AtomicOnBlobFailure(t *testing.T) {
	blobs := &faultStore{MemoryStore: storage.NewMemoryStore(), failOn: 2}
	svc, repo := newTestService(t, blobs)
	owner := uuid.New()

	_, _, err := svc.Create(context.Background(), CreateInput{
		OwnerID: owner,
		Title:   "doomed",
		Files: []FileUpload{
			upload("one.bin", "", strings.Repeat("1", 64)),
			upload("two.bin", "", strings.Repeat("2", 64)),
			upload("three.bin", "", strings.Repeat("3", 64)),
		},
	})
	if err == nil {
		t.Fatal("Create() expected error from failing blob store, got nil")
	}

	// No orphaned bytes and no metadata rows after the rollback.
	if blobs.Len() != 0 {
		t.Errorf("blob count after failed create = %d, want 0", blobs.Len())
	}
	mine, err := repo.FindByOwner(context.Background(), owner)
	if err != nil {
		t.Fatalf("FindByOwner() error: %v", err)
	}
	if len(mine) != 0 {
		t.Errorf("transfer count after failed create = %d, want 0", len(mine))
	}
}

func TestResolve_NonGating(t *testing.T) {
	svc, repo := newTestService(t, storage.NewMemoryStore())
	one := 1

	transfer, _, err := svc.Create(context.Background(), CreateInput{
		OwnerID:      uuid.New(),
		Title:        "Gated",
		Description:  "with password and limit",
		Password:     "secret",
		MaxDownloads: &one,
		Files:        []FileUpload{upload("doc.pdf", "", "pdf bytes")},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Resolving repeatedly needs no password and never consumes the budget.
	for i := 0; i < 3; i++ {
		meta, err := svc.Resolve(context.Background(), transfer.ShortCode)
		if err != nil {
			t.Fatalf("Resolve() iteration %d error: %v", i+1, err)
		}
		if !meta.NeedsPassword {
			t.Error("Resolve() NeedsPassword = false, want true")
		}
		if meta.Expired {
			t.Error("Resolve() Expired = true, want false")
		}
		if len(meta.Files) != 1 || meta.Files[0].Name != "doc.pdf" {
			t.Errorf("Resolve() files = %+v, want one doc.pdf", meta.Files)
		}
	}

	stored, err := repo.FindByShortCode(context.Background(), transfer.ShortCode)
	if err != nil {
		t.Fatalf("FindByShortCode() error: %v", err)
	}
	if stored.DownloadCount != 0 {
		t.Errorf("DownloadCount after resolves = %d, want 0", stored.DownloadCount)
	}
}

func TestResolve_NotFound(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemoryStore())

	_, err := svc.Resolve(context.Background(), "nosuchcode")
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
}

func denyReason(t *testing.T, err error) policy.Decision {
	t.Helper()
	var denied *DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("error = %v, want DeniedError", err)
	}
	return denied.Reason
}

func TestRequestAccess_DownloadLimit(t *testing.T) {
	svc, repo := newTestService(t, storage.NewMemoryStore())
	one := 1

	transfer, _, err := svc.Create(context.Background(), CreateInput{
		OwnerID:      uuid.New(),
		Title:        "One shot",
		MaxDownloads: &one,
		Files: []FileUpload{
			upload("big.bin", "", strings.Repeat("a", 5<<10)),
			upload("small.bin", "", strings.Repeat("b", 2<<10)),
		},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	grant, err := svc.RequestAccess(context.Background(), transfer.ShortCode, "", RequestMeta{IP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("first RequestAccess() error: %v", err)
	}
	if len(grant.Files) != 2 {
		t.Errorf("grant file count = %d, want 2", len(grant.Files))
	}
	if grant.BundleURL == "" {
		t.Error("grant BundleURL empty, want a bundle URL for multi-file transfers")
	}
	for _, f := range grant.Files {
		if f.URL == "" {
			t.Errorf("file %s has no download URL", f.Name)
		}
	}

	stored, err := repo.FindByShortCode(context.Background(), transfer.ShortCode)
	if err != nil {
		t.Fatalf("FindByShortCode() error: %v", err)
	}
	if stored.DownloadCount != 1 {
		t.Errorf("DownloadCount = %d, want 1", stored.DownloadCount)
	}

	_, err = svc.RequestAccess(context.Background(), transfer.ShortCode, "", RequestMeta{})
	if got := denyReason(t, err); got != policy.DenyLimitReached {
		t.Errorf("second RequestAccess() reason = %v, want DenyLimitReached", got)
	}
}

func TestRequestAccess_PasswordFlow(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemoryStore())
	expires := time.Now().Add(time.Hour)

	transfer, _, err := svc.Create(context.Background(), CreateInput{
		OwnerID:   uuid.New(),
		Title:     "Protected",
		Password:  "secret",
		ExpiresAt: &expires,
		Files:     []FileUpload{upload("f.txt", "", "contents")},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	code := transfer.ShortCode

	_, err = svc.RequestAccess(context.Background(), code, "", RequestMeta{})
	if got := denyReason(t, err); got != policy.DenyPasswordRequired {
		t.Errorf("no password: reason = %v, want DenyPasswordRequired", got)
	}

	_, err = svc.RequestAccess(context.Background(), code, "wrong", RequestMeta{})
	if got := denyReason(t, err); got != policy.DenyBadPassword {
		t.Errorf("wrong password: reason = %v, want DenyBadPassword", got)
	}

	grant, err := svc.RequestAccess(context.Background(), code, "secret", RequestMeta{})
	if err != nil {
		t.Fatalf("correct password: RequestAccess() error: %v", err)
	}
	if len(grant.Files) != 1 {
		t.Errorf("grant file count = %d, want 1", len(grant.Files))
	}
	// Single-file transfers get no bundle URL.
	if grant.BundleURL != "" {
		t.Errorf("BundleURL = %q, want empty for a single file", grant.BundleURL)
	}
}

func TestRequestAccess_ExpiryWinsOverPassword(t *testing.T) {
	svc, repo := newTestService(t, storage.NewMemoryStore())

	// Build the expired transfer directly; Create refuses past expiries.
	hash, err := policy.HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	transfer := &models.Transfer{
		ID:           uuid.New(),
		ShortCode:    "expiredcod",
		OwnerID:      uuid.New(),
		Title:        "stale",
		PasswordHash: &hash,
		ExpiresAt:    &past,
		Files:        []models.TransferFile{{Name: "f.txt", StorageKey: "k", SizeBytes: 1}},
	}
	if err := repo.Create(context.Background(), transfer); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Even a wrong password must surface expiry, not password validity.
	_, err = svc.RequestAccess(context.Background(), "expiredcod", "wrong", RequestMeta{})
	if got := denyReason(t, err); got != policy.DenyExpired {
		t.Errorf("reason = %v, want DenyExpired", got)
	}
}

func TestRequestAccess_RecordsAccessEvent(t *testing.T) {
	svc, repo := newTestService(t, storage.NewMemoryStore())

	transfer, _, err := svc.Create(context.Background(), CreateInput{
		OwnerID: uuid.New(),
		Title:   "audited",
		Files:   []FileUpload{upload("f.txt", "", "x")},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	_, err = svc.RequestAccess(context.Background(), transfer.ShortCode, "", RequestMeta{
		IP:        "203.0.113.7",
		UserAgent: "curl/8.0",
	})
	if err != nil {
		t.Fatalf("RequestAccess() error: %v", err)
	}

	events, err := repo.AccessEvents(context.Background(), transfer.ID)
	if err != nil {
		t.Fatalf("AccessEvents() error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("event count = %d, want 1", len(events))
	}
	if events[0].IP != "203.0.113.7" || events[0].UserAgent != "curl/8.0" {
		t.Errorf("event = %+v, want recorded IP and user agent", events[0])
	}
}

func TestRequestAccess_ConcurrentNeverExceedsLimit(t *testing.T) {
	svc, repo := newTestService(t, storage.NewMemoryStore())
	limit := 3

	transfer, _, err := svc.Create(context.Background(), CreateInput{
		OwnerID:      uuid.New(),
		Title:        "contended",
		MaxDownloads: &limit,
		Files:        []FileUpload{upload("f.txt", "", "x")},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	const callers = 10
	var wg sync.WaitGroup
	var allowed int32
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RequestAccess(context.Background(), transfer.ShortCode, "", RequestMeta{})
			if err == nil {
				atomic.AddInt32(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	stored, err := repo.FindByShortCode(context.Background(), transfer.ShortCode)
	if err != nil {
		t.Fatalf("FindByShortCode() error: %v", err)
	}
	if int(allowed) > limit {
		t.Errorf("allowed grants = %d, exceeds limit %d", allowed, limit)
	}
	if stored.DownloadCount > limit {
		t.Errorf("DownloadCount = %d, exceeds limit %d", stored.DownloadCount, limit)
	}
	if stored.DownloadCount != int(allowed) {
		t.Errorf("DownloadCount = %d, want %d (one increment per grant)", stored.DownloadCount, allowed)
	}
	if allowed == 0 {
		t.Error("no caller was granted access")
	}
}

func TestRequestAccess_SequentialExhaustsExactly(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemoryStore())
	limit := 3

	transfer, _, err := svc.Create(context.Background(), CreateInput{
		OwnerID:      uuid.New(),
		Title:        "budgeted",
		MaxDownloads: &limit,
		Files:        []FileUpload{upload("f.txt", "", "x")},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	for i := 0; i < limit; i++ {
		if _, err := svc.RequestAccess(context.Background(), transfer.ShortCode, "", RequestMeta{}); err != nil {
			t.Fatalf("RequestAccess() call %d error: %v", i+1, err)
		}
	}
	for i := 0; i < 2; i++ {
		_, err := svc.RequestAccess(context.Background(), transfer.ShortCode, "", RequestMeta{})
		if got := denyReason(t, err); got != policy.DenyLimitReached {
			t.Errorf("post-budget call %d: reason = %v, want DenyLimitReached", i+1, got)
		}
	}
}

func TestDelete(t *testing.T) {
	blobs := storage.NewMemoryStore()
	svc, repo := newTestService(t, blobs)
	owner := uuid.New()
	stranger := uuid.New()

	transfer, _, err := svc.Create(context.Background(), CreateInput{
		OwnerID: owner,
		Title:   "mine",
		Files: []FileUpload{
			upload("a.txt", "", "a"),
			upload("b.txt", "", "b"),
		},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := svc.RequestAccess(context.Background(), transfer.ShortCode, "", RequestMeta{}); err != nil {
		t.Fatalf("RequestAccess() error: %v", err)
	}

	// A non-owner is rejected and nothing changes.
	if err := svc.Delete(context.Background(), stranger, transfer.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete() by stranger error = %v, want ErrForbidden", err)
	}
	if _, err := svc.Resolve(context.Background(), transfer.ShortCode); err != nil {
		t.Errorf("Resolve() after forbidden delete error = %v, want nil", err)
	}

	// The owner's delete cascades: rows, events and blobs all go.
	if err := svc.Delete(context.Background(), owner, transfer.ID); err != nil {
		t.Fatalf("Delete() by owner error: %v", err)
	}
	if _, err := repo.FindByShortCode(context.Background(), transfer.ShortCode); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("FindByShortCode() after delete error = %v, want ErrNotFound", err)
	}
	if blobs.Len() != 0 {
		t.Errorf("blob count after delete = %d, want 0", blobs.Len())
	}
	events, err := repo.AccessEvents(context.Background(), transfer.ID)
	if err != nil {
		t.Fatalf("AccessEvents() error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("event count after delete = %d, want 0", len(events))
	}
}

func TestListMine(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemoryStore())
	alice := uuid.New()
	bob := uuid.New()

	for _, title := range []string{"first", "second"} {
		if _, _, err := svc.Create(context.Background(), CreateInput{
			OwnerID: alice,
			Title:   title,
			Files:   []FileUpload{upload("f.txt", "", "x")},
		}); err != nil {
			t.Fatalf("Create(%q) error: %v", title, err)
		}
	}
	if _, _, err := svc.Create(context.Background(), CreateInput{
		OwnerID: bob,
		Title:   "bobs",
		Files:   []FileUpload{upload("g.txt", "", "y")},
	}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	mine, err := svc.ListMine(context.Background(), alice)
	if err != nil {
		t.Fatalf("ListMine() error: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("ListMine() count = %d, want 2", len(mine))
	}
	for _, tr := range mine {
		if tr.OwnerID != alice {
			t.Errorf("ListMine() returned a transfer owned by %s", tr.OwnerID)
		}
		if len(tr.Files) == 0 {
			t.Errorf("ListMine() transfer %q has no files preloaded", tr.Title)
		}
	}
}

func TestOpenFile(t *testing.T) {
	svc, repo := newTestService(t, storage.NewMemoryStore())

	transfer, _, err := svc.Create(context.Background(), CreateInput{
		OwnerID: uuid.New(),
		Title:   "stream me",
		Files:   []FileUpload{upload("data.bin", "", "payload bytes")},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	stored, err := repo.FindByShortCode(context.Background(), transfer.ShortCode)
	if err != nil {
		t.Fatalf("FindByShortCode() error: %v", err)
	}

	file, rc, err := svc.OpenFile(context.Background(), stored.Files[0].ID)
	if err != nil {
		t.Fatalf("OpenFile() error: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if string(data) != "payload bytes" {
		t.Errorf("OpenFile() content = %q, want %q", data, "payload bytes")
	}
	if file.Name != "data.bin" {
		t.Errorf("OpenFile() name = %q, want data.bin", file.Name)
	}

	if _, _, err := svc.OpenFile(context.Background(), uuid.New()); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("OpenFile() unknown ID error = %v, want ErrNotFound", err)
	}
}

func TestStreamBundle(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemoryStore())

	transfer, _, err := svc.Create(context.Background(), CreateInput{
		OwnerID: uuid.New(),
		Title:   "bundle",
		Files: []FileUpload{
			upload("a.jpg", "photos/a.jpg", "aaa"),
			upload("notes.txt", "", "nnn"),
		},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.StreamBundle(context.Background(), transfer.ShortCode, &buf); err != nil {
		t.Fatalf("StreamBundle() error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("reading bundle zip: %v", err)
	}
	want := map[string]string{
		"photos/a.jpg": "aaa",
		"notes.txt":    "nnn",
	}
	if len(zr.File) != len(want) {
		t.Fatalf("bundle entry count = %d, want %d", len(zr.File), len(want))
	}
	for _, f := range zr.File {
		content, ok := want[f.Name]
		if !ok {
			t.Errorf("unexpected bundle entry %q", f.Name)
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening entry %q: %v", f.Name, err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		if string(data) != content {
			t.Errorf("entry %q = %q, want %q", f.Name, data, content)
		}
	}
}

func TestSweepExpired(t *testing.T) {
	blobs := storage.NewMemoryStore()
	svc, repo := newTestService(t, blobs)

	// One live transfer and one already expired (inserted directly since
	// Create refuses past expiries).
	if _, _, err := svc.Create(context.Background(), CreateInput{
		OwnerID: uuid.New(),
		Title:   "live",
		Files:   []FileUpload{upload("keep.txt", "", "keep")},
	}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	key := storage.NewKey()
	if err := blobs.Put(context.Background(), key, strings.NewReader("old"), 3, ""); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	past := time.Now().Add(-time.Minute)
	stale := &models.Transfer{
		ID:        uuid.New(),
		ShortCode: "staleshort",
		OwnerID:   uuid.New(),
		Title:     "stale",
		ExpiresAt: &past,
		Files:     []models.TransferFile{{Name: "old.txt", StorageKey: key, SizeBytes: 3}},
	}
	if err := repo.Create(context.Background(), stale); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	n, err := svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("SweepExpired() error: %v", err)
	}
	if n != 1 {
		t.Errorf("SweepExpired() removed = %d, want 1", n)
	}
	if _, err := repo.FindByShortCode(context.Background(), "staleshort"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("stale transfer still resolvable, error = %v", err)
	}
	if _, err := blobs.Get(context.Background(), key); !errors.Is(err, storage.ErrBlobNotFound) {
		t.Errorf("stale blob still present, error = %v", err)
	}
	// The live transfer survives.
	if blobs.Len() != 1 {
		t.Errorf("blob count after sweep = %d, want 1", blobs.Len())
	}
}
