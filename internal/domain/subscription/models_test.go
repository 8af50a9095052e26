package subscription

import (
	"testing"
	"time"
)

func TestDecode(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		data      string
		wantTier  Tier
		wantLimit int
	}{
		{name: "missing", data: "", wantTier: TierFree, wantLimit: 1},
		{name: "legacy true", data: "true", wantTier: TierFollower, wantLimit: 50},
		{name: "garbage", data: "{not json", wantTier: TierFree, wantLimit: 1},
		{name: "stored follower", data: `{"tier":"follower","unlockedAt":"2026-01-01T00:00:00Z","source":"twitter_follow","accountLimit":50}`, wantTier: TierFollower, wantLimit: 50},
		{name: "pro without limit", data: `{"tier":"pro"}`, wantTier: TierPro, wantLimit: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode([]byte(tt.data), now)
			if got.Tier != tt.wantTier {
				t.Errorf("Tier = %s, want %s", got.Tier, tt.wantTier)
			}
			if got.Limit() != tt.wantLimit {
				t.Errorf("Limit() = %d, want %d", got.Limit(), tt.wantLimit)
			}
		})
	}
}

func TestDecode_LegacyUsesNow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	got := Decode([]byte("true"), now)
	if got.UnlockedAt == nil || !got.UnlockedAt.Equal(now) {
		t.Errorf("UnlockedAt = %v, want %v", got.UnlockedAt, now)
	}
	if got.Source == nil || *got.Source != SourceTwitterFollow {
		t.Errorf("Source = %v", got.Source)
	}
}

func TestSubscription_Unlocked(t *testing.T) {
	if Default().Unlocked() {
		t.Error("Default() should be locked")
	}
	if !Follower(time.Now()).Unlocked() {
		t.Error("Follower() should be unlocked")
	}
	if (Subscription{}).Unlocked() {
		t.Error("zero value should be locked")
	}
}
