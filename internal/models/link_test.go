package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestLink_IsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{name: "in the future", expiresAt: testNow.Add(time.Second), want: false},
		{name: "exactly now", expiresAt: testNow, want: false},
		{name: "in the past", expiresAt: testNow.Add(-time.Nanosecond), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := Link{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, link.IsExpired(testNow))
		})
	}
}

func TestLink_Touch(t *testing.T) {
	ttl := 24 * time.Hour

	tests := []struct {
		name        string
		expiresAt   time.Time
		wantExpires time.Time
	}{
		{name: "extends expiry", expiresAt: testNow.Add(time.Hour), wantExpires: testNow.Add(ttl)},
		{name: "already expired", expiresAt: testNow.Add(-time.Hour), wantExpires: testNow.Add(ttl)},
		{name: "never moves backwards", expiresAt: testNow.Add(48 * time.Hour), wantExpires: testNow.Add(48 * time.Hour)},
		{name: "equal to new expiry", expiresAt: testNow.Add(ttl), wantExpires: testNow.Add(ttl)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := Link{LastAccessedAt: testNow.Add(-time.Hour), ExpiresAt: tt.expiresAt}
			link.Touch(testNow, ttl)

			assert.True(t, link.LastAccessedAt.Equal(testNow))
			assert.True(t, link.ExpiresAt.Equal(tt.wantExpires), "got %s", link.ExpiresAt)
		})
	}
}

func TestURLDigest(t *testing.T) {
	digest := URLDigest("https://www.example.com")
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, URLDigest("https://www.example.com"))
	assert.NotEqual(t, digest, URLDigest("https://www.example.com/"))
}

func TestOwner(t *testing.T) {
	userID := uuid.New()

	owned := OwnedBy(userID)
	id, ok := owned.Get()
	assert.True(t, ok)
	assert.Equal(t, userID, id)
	assert.True(t, owned.IsOwnedBy(userID))
	assert.False(t, owned.IsOwnedBy(uuid.New()))

	unowned := Unowned()
	_, ok = unowned.Get()
	assert.False(t, ok)
	assert.False(t, unowned.IsOwnedBy(userID))
}

func TestLink_OwnerJSON(t *testing.T) {
	userID := uuid.MustParse("5b1b6a3e-4a43-4c1e-9f4e-2c3a9d1e7f10")

	tests := []struct {
		name     string
		owner    Owner
		wantJSON string
	}{
		{name: "owned", owner: OwnedBy(userID), wantJSON: `"user_id":"5b1b6a3e-4a43-4c1e-9f4e-2c3a9d1e7f10"`},
		{name: "unowned", owner: Unowned(), wantJSON: `"user_id":null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(Link{ShortURL: "1a2b3c4d", Owner: tt.owner})
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.wantJSON)
			assert.NotContains(t, string(data), "url_digest")

			var decoded Link
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.owner, decoded.Owner)
		})
	}
}
