package model

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindRange(t *testing.T) {
	tests := []struct {
		name        string
		kind        Kind
		wantFloor   int
		wantCeiling int
	}{
		{"volume", Volume{}, 0, 100},
		{"volume muted", Volume{Muted: true}, 0, 100},
		{"volume extended", Volume{Extended: true}, 0, 150},
		{"brightness", Brightness{}, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			floor, ceiling := tt.kind.Range()
			assert.Equal(t, tt.wantFloor, floor)
			assert.Equal(t, tt.wantCeiling, ceiling)
		})
	}
}

func TestNewRequest(t *testing.T) {
	before := time.Now().Add(-time.Second)

	req, err := NewRequest(Volume{Muted: true}, 40)
	require.NoError(t, err)

	assert.NotEqual(t, ulid.ULID{}, req.ID)
	assert.Equal(t, Volume{Muted: true}, req.Kind)
	assert.Equal(t, uint32(40), req.Level)
	assert.True(t, req.Time().After(before))
}

func TestRequest_NewerThan(t *testing.T) {
	now := time.Now()
	older := Request{ID: ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy())}
	newer := Request{ID: ulid.MustNew(ulid.Timestamp(now.Add(time.Millisecond)), ulid.DefaultEntropy())}

	assert.True(t, newer.NewerThan(older))
	assert.False(t, older.NewerThan(newer))
	assert.False(t, older.NewerThan(older))
	assert.True(t, older.NewerThan(Request{}))
}

func TestRequest_String(t *testing.T) {
	assert.Equal(t, "volume 120% (muted=false extended=true)",
		Request{Kind: Volume{Extended: true}, Level: 120}.String())
	assert.Equal(t, "brightness 1%", Request{Kind: Brightness{}, Level: 1}.String())
}
