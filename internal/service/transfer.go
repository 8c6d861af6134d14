// Package service orchestrates the transfer lifecycle: creation, public
// resolution, gated access grants and deletion. It is the only component
// that talks to both the repository and the blob store.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sendry-io/sendry-server/internal/models"
	"github.com/sendry-io/sendry-server/internal/policy"
	"github.com/sendry-io/sendry-server/internal/repositories"
	"github.com/sendry-io/sendry-server/internal/storage"
	"github.com/sendry-io/sendry-server/internal/utils"
	"golang.org/x/sync/errgroup"
)

const (
	shortCodeLength   = 10
	shortCodeAttempts = 5
	casAttempts       = 3
	putAttempts       = 3
)

var (
	// ErrForbidden means the requester does not own the transfer.
	ErrForbidden = errors.New("not the transfer owner")

	// ErrConflictRetryExhausted means the download-count increment kept
	// losing races; the client may simply retry.
	ErrConflictRetryExhausted = errors.New("transfer is busy, try again")
)

// ValidationError rejects bad input before any storage I/O happens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// DeniedError is the normal, expected outcome of failed gating. It carries
// the policy reason so the HTTP boundary can pick a status and message.
type DeniedError struct {
	Reason policy.Decision
}

func (e *DeniedError) Error() string {
	return "access denied: " + e.Reason.String()
}

// Service wires the repository, blob store and URL signer together.
type Service struct {
	repo    *repositories.TransferRepository
	blobs   storage.BlobStore
	signer  *URLSigner
	baseURL string
}

func New(repo *repositories.TransferRepository, blobs storage.BlobStore, signer *URLSigner, baseURL string) *Service {
	return &Service{
		repo:    repo,
		blobs:   blobs,
		signer:  signer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// FileUpload is one incoming file. Content is read exactly once unless it
// also implements io.Seeker, in which case transient blob failures are
// retried.
type FileUpload struct {
	Name         string
	RelativePath string
	MimeType     string
	Size         int64
	Content      io.Reader
}

type CreateInput struct {
	OwnerID      uuid.UUID
	Title        string
	Description  string
	Password     string
	ExpiresAt    *time.Time
	MaxDownloads *int
	Files        []FileUpload
}

func (in *CreateInput) validate(now time.Time) error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Reason: "title is required"}
	}
	if len(in.Files) == 0 {
		return &ValidationError{Reason: "at least one file is required"}
	}
	for _, f := range in.Files {
		if strings.TrimSpace(f.Name) == "" {
			return &ValidationError{Reason: "every file needs a name"}
		}
	}
	if in.MaxDownloads != nil && *in.MaxDownloads < 1 {
		return &ValidationError{Reason: "maxDownloads must be at least 1"}
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return &ValidationError{Reason: "expiresAt must be in the future"}
	}
	return nil
}

// Create stores all blobs, then persists the transfer with its files in one
// transaction. All-or-nothing: any failure (including a client abort, which
// cancels ctx) deletes every blob written during this attempt, so a
// successful return always means a fully formed transfer.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Transfer, string, error) {
	if err := in.validate(time.Now()); err != nil {
		return nil, "", err
	}

	var passwordHash *string
	if in.Password != "" {
		hash, err := policy.HashPassword(in.Password)
		if err != nil {
			return nil, "", fmt.Errorf("hashing password: %w", err)
		}
		passwordHash = &hash
	}

	code, err := s.mintShortCode(ctx)
	if err != nil {
		return nil, "", err
	}

	// Blob writes are independent per file; run them concurrently.
	keys := make([]string, len(in.Files))
	for i := range in.Files {
		keys[i] = storage.NewKey()
	}
	g, gctx := errgroup.WithContext(ctx)
	for i := range in.Files {
		g.Go(func() error {
			return s.putBlob(gctx, keys[i], &in.Files[i])
		})
	}
	if err := g.Wait(); err != nil {
		s.cleanupBlobs(keys)
		return nil, "", fmt.Errorf("storing files: %w", err)
	}

	transfer := &models.Transfer{
		ID:           uuid.New(),
		ShortCode:    code,
		OwnerID:      in.OwnerID,
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		PasswordHash: passwordHash,
		ExpiresAt:    in.ExpiresAt,
		MaxDownloads: in.MaxDownloads,
	}
	for i, f := range in.Files {
		transfer.Files = append(transfer.Files, models.TransferFile{
			TransferID:   transfer.ID,
			Name:         f.Name,
			RelativePath: f.RelativePath,
			StorageKey:   keys[i],
			SizeBytes:    f.Size,
			MimeType:     f.MimeType,
		})
	}

	if err := s.repo.Create(ctx, transfer); err != nil {
		s.cleanupBlobs(keys)
		return nil, "", fmt.Errorf("persisting transfer: %w", err)
	}

	return transfer, s.baseURL + "/t/" + code, nil
}

func (s *Service) mintShortCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < shortCodeAttempts; attempt++ {
		code, err := utils.GenerateShortCode(shortCodeLength)
		if err != nil {
			return "", fmt.Errorf("generating short code: %w", err)
		}
		taken, err := s.repo.ShortCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not mint a unique short code after %d attempts", shortCodeAttempts)
}

func (s *Service) putBlob(ctx context.Context, key string, f *FileUpload) error {
	var lastErr error
	for attempt := 0; attempt < putAttempts; attempt++ {
		if attempt > 0 {
			seeker, ok := f.Content.(io.Seeker)
			if !ok {
				break
			}
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				break
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = s.blobs.Put(ctx, key, f.Content, f.Size, f.MimeType)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}

// cleanupBlobs deletes every blob written during a failed attempt. It runs
// on a detached context: the usual trigger is a cancelled request, and the
// cleanup must outlive it.
func (s *Service) cleanupBlobs(keys []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			log.Printf("Failed to clean up blob %s: %v", key, err)
		}
	}
}

// PublicFile is the display-safe view of a transfer file. No storage key,
// no download URL.
type PublicFile struct {
	Name         string `json:"name"`
	RelativePath string `json:"relativePath"`
	SizeBytes    int64  `json:"sizeBytes"`
	MimeType     string `json:"mimeType"`
}

// PublicMeta is what anyone holding the link may see without passing the
// gate. Resolving it never consumes the download budget.
type PublicMeta struct {
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	NeedsPassword bool         `json:"needsPassword"`
	Expired       bool         `json:"expired"`
	CreatedAt     time.Time    `json:"createdAt"`
	Files         []PublicFile `json:"files"`
}

// Resolve returns display-safe metadata for a short code. It never gates
// and never touches the download count.
func (s *Service) Resolve(ctx context.Context, code string) (*PublicMeta, error) {
	t, err := s.repo.FindByShortCode(ctx, code)
	if err != nil {
		return nil, err
	}

	meta := &PublicMeta{
		Title:         t.Title,
		Description:   t.Description,
		NeedsPassword: t.HasPassword(),
		Expired:       t.ExpiredAt(time.Now()),
		CreatedAt:     t.CreatedAt,
		Files:         make([]PublicFile, 0, len(t.Files)),
	}
	for _, f := range t.Files {
		meta.Files = append(meta.Files, PublicFile{
			Name:         f.Name,
			RelativePath: f.RelativePath,
			SizeBytes:    f.SizeBytes,
			MimeType:     f.MimeType,
		})
	}
	return meta, nil
}

// RequestMeta is observational requester metadata for the audit trail.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// FileGrant is one ephemeral download URL handed out by a granted access.
type FileGrant struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	RelativePath string    `json:"relativePath"`
	SizeBytes    int64     `json:"sizeBytes"`
	MimeType     string    `json:"mimeType"`
	URL          string    `json:"url"`
}

// AccessGrant is the result of a successful gate pass.
type AccessGrant struct {
	Files     []FileGrant `json:"files"`
	BundleURL string      `json:"bundleUrl,omitempty"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// RequestAccess applies the gating policy and, on allow, performs the atomic
// download-count increment before minting URLs. The compare-and-swap re-reads
// and re-evaluates on conflict so concurrent grants can never collectively
// exceed maxDownloads.
func (s *Service) RequestAccess(ctx context.Context, code, password string, meta RequestMeta) (*AccessGrant, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		t, err := s.repo.FindByShortCode(ctx, code)
		if err != nil {
			return nil, err
		}

		if d := policy.Evaluate(t, password, time.Now()); d != policy.Allow {
			return nil, &DeniedError{Reason: d}
		}

		err = s.repo.IncrementDownloadCount(ctx, t.ID, t.DownloadCount)
		if errors.Is(err, repositories.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		event := &models.AccessEvent{TransferID: t.ID, IP: meta.IP, UserAgent: meta.UserAgent}
		if err := s.repo.RecordAccess(ctx, event); err != nil {
			// Audit is observational; never fail a granted access over it.
			log.Printf("Failed to record access event for %s: %v", t.ShortCode, err)
		}

		return s.buildGrant(ctx, t)
	}
	return nil, ErrConflictRetryExhausted
}

func (s *Service) buildGrant(ctx context.Context, t *models.Transfer) (*AccessGrant, error) {
	now := time.Now()
	grant := &AccessGrant{
		Files:     make([]FileGrant, 0, len(t.Files)),
		ExpiresAt: now.Add(s.signer.TTL()),
	}

	presigner, canPresign := s.blobs.(storage.Presigner)
	for _, f := range t.Files {
		var downloadURL string
		if canPresign {
			var err error
			downloadURL, err = presigner.PresignGet(ctx, f.StorageKey, s.signer.TTL())
			if err != nil {
				return nil, fmt.Errorf("presigning download for %s: %w", f.ID, err)
			}
		} else {
			exp, sig := s.signer.Sign(scopeFile, f.ID.String(), now)
			downloadURL = fmt.Sprintf("%s/api/v1/download/%s?exp=%d&sig=%s", s.baseURL, f.ID, exp, sig)
		}
		grant.Files = append(grant.Files, FileGrant{
			ID:           f.ID,
			Name:         f.Name,
			RelativePath: f.RelativePath,
			SizeBytes:    f.SizeBytes,
			MimeType:     f.MimeType,
			URL:          downloadURL,
		})
	}

	// The bundle is always assembled server-side, so it is always a signed
	// local URL even when per-file downloads are presigned.
	if len(t.Files) > 1 {
		exp, sig := s.signer.Sign(scopeBundle, t.ShortCode, now)
		grant.BundleURL = fmt.Sprintf("%s/api/v1/t/%s/bundle?exp=%d&sig=%s", s.baseURL, t.ShortCode, exp, sig)
	}
	return grant, nil
}

// VerifyFileToken checks the signature on an ephemeral file download URL.
func (s *Service) VerifyFileToken(fileID string, exp int64, sig string) bool {
	return s.signer.Verify(scopeFile, fileID, exp, sig, time.Now())
}

// VerifyBundleToken checks the signature on a bundle URL.
func (s *Service) VerifyBundleToken(code string, exp int64, sig string) bool {
	return s.signer.Verify(scopeBundle, code, exp, sig, time.Now())
}

// OpenFile returns a transfer file's metadata and a stream of its bytes.
// Gating already happened when the signed URL was minted.
func (s *Service) OpenFile(ctx context.Context, fileID uuid.UUID) (*models.TransferFile, io.ReadCloser, error) {
	file, err := s.repo.FindFileByID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("opening blob for %s: %w", fileID, err)
	}
	return file, rc, nil
}

// Delete removes a transfer and everything it owns. Only the owner may
// delete. Metadata rows go first inside one transaction, so the short code
// stops resolving immediately; blob deletes are idempotent, so a retried
// delete converges.
func (s *Service) Delete(ctx context.Context, requesterID, transferID uuid.UUID) error {
	t, err := s.repo.FindByID(ctx, transferID)
	if err != nil {
		return err
	}
	if t.OwnerID != requesterID {
		return ErrForbidden
	}

	keys := make([]string, 0, len(t.Files))
	for _, f := range t.Files {
		keys = append(keys, f.StorageKey)
	}

	if err := s.repo.Delete(ctx, t.ID); err != nil {
		return err
	}
	s.cleanupBlobs(keys)
	return nil
}

// ListMine returns the caller's own transfers, files included, ungated.
// Owners always see their transfers, expired or exhausted ones included.
func (s *Service) ListMine(ctx context.Context, ownerID uuid.UUID) ([]models.Transfer, error) {
	return s.repo.FindByOwner(ctx, ownerID)
}
