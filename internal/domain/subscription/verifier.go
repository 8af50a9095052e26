package subscription

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultVerifyDelay is how long StaticVerifier takes to approve a proof.
const DefaultVerifyDelay = 2 * time.Second

// Proof is the evidence submitted for a follow verification.
type Proof struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Validate checks that the proof is a non-empty image. The declared content
// type is checked first, then the sniffed one.
func (p Proof) Validate() error {
	if len(p.Data) == 0 {
		return ErrInvalidProof
	}
	if !strings.HasPrefix(p.ContentType, "image/") {
		return ErrInvalidProof
	}
	if !strings.HasPrefix(http.DetectContentType(p.Data), "image/") {
		return ErrInvalidProof
	}
	return nil
}

// Decision is a verifier's verdict on one proof.
type Decision struct {
	AttemptID string    `json:"attemptId"`
	Approved  bool      `json:"approved"`
	Reason    string    `json:"reason,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Verifier decides whether a proof unlocks the follower tier.
type Verifier interface {
	Verify(ctx context.Context, proof Proof) (Decision, error)
}

// StaticVerifier approves every valid image after a fixed delay. It stands in
// for a real screenshot check.
type StaticVerifier struct {
	Delay time.Duration
}

// NewStaticVerifier creates a StaticVerifier. A negative delay uses
// DefaultVerifyDelay.
func NewStaticVerifier(delay time.Duration) *StaticVerifier {
	if delay < 0 {
		delay = DefaultVerifyDelay
	}
	return &StaticVerifier{Delay: delay}
}

// Verify implements Verifier.
func (v *StaticVerifier) Verify(ctx context.Context, proof Proof) (Decision, error) {
	if err := proof.Validate(); err != nil {
		return Decision{}, err
	}

	if v.Delay > 0 {
		timer := time.NewTimer(v.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Decision{}, ctx.Err()
		case <-timer.C:
		}
	}

	return Decision{
		AttemptID: uuid.NewString(),
		Approved:  true,
		CheckedAt: time.Now().UTC(),
	}, nil
}
