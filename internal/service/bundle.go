package service

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
)

// StreamBundle writes a zip of every file in the transfer to w, preserving
// uploaded folder structure through each file's relative path. The archive
// is assembled on the fly; nothing is buffered server-side.
func (s *Service) StreamBundle(ctx context.Context, code string, w io.Writer) error {
	t, err := s.repo.FindByShortCode(ctx, code)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, f := range t.Files {
		name := f.Name
		if f.RelativePath != "" {
			name = f.RelativePath
		}
		entry, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("creating zip entry %s: %w", name, err)
		}

		rc, err := s.blobs.Get(ctx, f.StorageKey)
		if err != nil {
			return fmt.Errorf("opening blob for %s: %w", f.Name, err)
		}
		if _, err := io.Copy(entry, rc); err != nil {
			rc.Close()
			return fmt.Errorf("writing %s to bundle: %w", f.Name, err)
		}
		rc.Close()
	}
	return zw.Close()
}
