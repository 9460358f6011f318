package db

import (
	"context"
	"log"
	"time"

	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"
)

// WaitForDB blocks until the database answers the health-check query,
// retrying at a fixed interval up to attempts times.
func WaitForDB(ctx context.Context, db *gorm.DB, attempts int, interval time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(interval))

	try := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		try++
		log.Printf("checking database connection (attempt %d/%d)", try, attempts)
		if err := Ping(ctx, db); err != nil {
			log.Printf("database not ready: %v", err)
			return retry.RetryableError(err)
		}
		log.Println("database connection established")
		return nil
	})
}
