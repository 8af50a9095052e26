package subscription

import (
	"encoding/json"
	"errors"
	"time"
)

// Tier is the feature level of a user.
type Tier string

const (
	TierFree     Tier = "free"
	TierFollower Tier = "follower"
	TierPro      Tier = "pro"
)

// Source records how a tier was obtained.
type Source string

const (
	SourceTwitterFollow Source = "twitter_follow"
	SourcePaid          Source = "paid"
)

// Account limits per tier.
const (
	FreeAccountLimit     = 1
	UnlockedAccountLimit = 50
)

// Domain errors
var (
	ErrInvalidProof = errors.New("verification proof must be a non-empty image")
	ErrRejected     = errors.New("verification rejected")
	ErrInvalidUser  = errors.New("user id is required")
)

// Subscription is the user's global feature gate.
type Subscription struct {
	Tier         Tier       `json:"tier" firestore:"tier"`
	UnlockedAt   *time.Time `json:"unlockedAt" firestore:"unlockedAt"`
	Source       *Source    `json:"source" firestore:"source"`
	AccountLimit int        `json:"accountLimit" firestore:"accountLimit"`
}

// Profile is the remote user document that mirrors the gate.
type Profile struct {
	IsProUnlocked bool          `firestore:"isProUnlocked"`
	Subscription  *Subscription `firestore:"subscription,omitempty"`
	Accounts      []string      `firestore:"accounts,omitempty"`
}

// Default is the subscription of a user who never unlocked anything.
func Default() Subscription {
	return Subscription{Tier: TierFree, AccountLimit: FreeAccountLimit}
}

// Follower is the subscription granted by a follow verification at t.
func Follower(t time.Time) Subscription {
	src := SourceTwitterFollow
	at := t.UTC()
	return Subscription{Tier: TierFollower, UnlockedAt: &at, Source: &src, AccountLimit: UnlockedAccountLimit}
}

// Unlocked reports whether the tier is above free.
func (s Subscription) Unlocked() bool {
	return s.Tier != "" && s.Tier != TierFree
}

// Limit returns the account limit, derived from the tier when unset.
func (s Subscription) Limit() int {
	if s.AccountLimit > 0 {
		return s.AccountLimit
	}
	if s.Unlocked() {
		return UnlockedAccountLimit
	}
	return FreeAccountLimit
}

// Decode reads a stored subscription value. The legacy value "true" becomes a
// follower unlocked at now; unreadable values fall back to Default.
func Decode(data []byte, now time.Time) Subscription {
	if len(data) == 0 {
		return Default()
	}
	if string(data) == "true" {
		return Follower(now)
	}
	var s Subscription
	if err := json.Unmarshal(data, &s); err != nil || s.Tier == "" {
		return Default()
	}
	return s
}
