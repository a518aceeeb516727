package jobs

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/mealbridge/mealbridge-backend/internal/models"
	"github.com/mealbridge/mealbridge-backend/internal/storage"
)

// Pending registrations that never confirmed their OTP are swept after
// this long. Generous on purpose so a slow signup is never lost.
const abandonedRegistrationAge = 24 * time.Hour

// CleanupJob periodically purges expired OTP challenges and abandoned
// pending registrations.
type CleanupJob struct {
	store     storage.Store
	interval  time.Duration
	isRunning bool
	stop      chan struct{}
}

// NewCleanupJob creates a new cleanup job scheduler. The sweep interval
// can be tuned with CLEANUP_INTERVAL (Go duration syntax).
func NewCleanupJob(store storage.Store) *CleanupJob {
	interval := time.Hour
	if raw := os.Getenv("CLEANUP_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			interval = parsed
		} else {
			log.Printf("Invalid CLEANUP_INTERVAL %q, using %v", raw, interval)
		}
	}
	return &CleanupJob{
		store:    store,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (j *CleanupJob) Start() {
	if j.isRunning {
		log.Println("Cleanup job already running")
		return
	}
	j.isRunning = true
	log.Printf("Starting cleanup job (every %v)...", j.interval)

	go j.run()
}

// Stop halts the sweep
func (j *CleanupJob) Stop() {
	if !j.isRunning {
		return
	}
	j.isRunning = false
	close(j.stop)
	log.Println("Stopping cleanup job...")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.stop:
			return
		}
	}
}

// sweep deletes expired OTP challenges and pending registrations old
// enough that their challenges are long dead.
func (j *CleanupJob) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	otps, err := j.store.DeleteExpiredOtpChallenges(ctx, models.OtpValidity)
	if err != nil {
		log.Printf("Error purging expired OTP challenges: %v", err)
	} else if otps > 0 {
		log.Printf("Purged %d expired OTP challenges", otps)
	}

	regs, err := j.store.DeleteAbandonedRegistrations(ctx, abandonedRegistrationAge)
	if err != nil {
		log.Printf("Error purging abandoned registrations: %v", err)
	} else if regs > 0 {
		log.Printf("Purged %d abandoned registrations", regs)
	}
}
