package services

import (
	"context"
	"time"

	"instafeed/internal/storage"

	"github.com/rs/zerolog/log"
)

const cleanupTimeout = 10 * time.Second

// discardObject deletes an object whose database record could not be written.
// It runs on its own context so a cancelled request still cleans up.
func discardObject(files storage.FileStore, key string) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	if err := files.Delete(ctx, key); err != nil {
		log.Error().
			Err(err).
			Str("key", key).
			Msg("Failed to delete orphaned object")
		return
	}

	log.Warn().Str("key", key).Msg("Deleted orphaned object")
}
