package service

import (
	"context"
	"log"
	"time"
)

// SweepExpired garbage-collects transfers past their expiry: rows first,
// blobs after. This is purely an optimization; the gating policy already
// rejects expired transfers whether or not their blobs still exist.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	expired, err := s.repo.FindExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, t := range expired {
		keys := make([]string, 0, len(t.Files))
		for _, f := range t.Files {
			keys = append(keys, f.StorageKey)
		}
		if err := s.repo.Delete(ctx, t.ID); err != nil {
			log.Printf("Expiry sweep could not delete transfer %s: %v", t.ShortCode, err)
			continue
		}
		s.cleanupBlobs(keys)
		removed++
	}
	return removed, nil
}

// RunSweeper runs SweepExpired on a fixed interval until ctx is cancelled.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.SweepExpired(ctx)
			if err != nil {
				log.Printf("Expiry sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Expiry sweep removed %d transfers", n)
			}
		}
	}
}
