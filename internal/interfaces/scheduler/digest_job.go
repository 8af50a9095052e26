package scheduler

import (
	"context"
	"fmt"
	"strconv"

	"alphadash/internal/domain/notification"
)

// DigestJob sends one user's daily digest push.
type DigestJob struct {
	userID int64
	digest *notification.DigestService
}

// NewDigestJob creates a new digest job for a user
func NewDigestJob(userID int64, digest *notification.DigestService) *DigestJob {
	return &DigestJob{userID: userID, digest: digest}
}

// Execute runs the digest job
func (j *DigestJob) Execute(ctx context.Context) error {
	if _, err := j.digest.SendDaily(ctx, j.userID); err != nil {
		return fmt.Errorf("digest failed: %w", err)
	}
	return nil
}

// UserID returns the user ID associated with this job
func (j *DigestJob) UserID() string {
	return strconv.FormatInt(j.userID, 10)
}

// Description returns a human-readable description of the job
func (j *DigestJob) Description() string {
	return fmt.Sprintf("Daily digest for user %d", j.userID)
}

// DigestJobs returns a JobProvider that enqueues a digest for every user
// with an active device.
func DigestJobs(digest *notification.DigestService) JobProvider {
	return func(ctx context.Context) ([]Job, error) {
		users, err := digest.Recipients(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list digest recipients: %w", err)
		}
		jobs := make([]Job, 0, len(users))
		for _, id := range users {
			jobs = append(jobs, NewDigestJob(id, digest))
		}
		return jobs, nil
	}
}
