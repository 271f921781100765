package main

import (
	"context"
	"log"
	"time"

	"uslugihub/internal/services"
)

const (
	matchCleanerInterval = 5 * time.Minute
	matchCleanerTimeout  = 30 * time.Second
)

func startMatchCacheCleaner(ctx context.Context, svc *services.MatchingService, infoLog, errorLog *log.Logger) {
	if svc == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(matchCleanerInterval)
		defer ticker.Stop()

		run := func() {
			runCtx, cancel := context.WithTimeout(ctx, matchCleanerTimeout)
			defer cancel()

			cleared, err := svc.ClearStaleMatches(runCtx)
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("match cache cleaner: failed to clear stale rankings: %v", err)
				}
				return
			}
			if cleared > 0 && infoLog != nil {
				infoLog.Printf("match cache cleaner: cleared %d stale rankings", cleared)
			}
		}

		run()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}
