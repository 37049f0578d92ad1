package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStepValue(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"5", 5, false},
		{"10%", 10, false},
		{" 2 ", 2, false},
		{"0", 0, true},
		{"51", 0, true},
		{"lots", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var s stepValue
			err := s.Set(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.False(t, s.set)
				return
			}
			require.NoError(t, err)
			assert.True(t, s.set)
			assert.Equal(t, tt.want, s.value)
			assert.Equal(t, "percent", s.Type())
		})
	}
}

func TestParsePercent(t *testing.T) {
	n, err := parsePercent("120")
	require.NoError(t, err)
	assert.Equal(t, 120, n)

	_, err = parsePercent("1.5")
	assert.Error(t, err)
}

func TestLevelArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"negative volume", []string{"volume-set", "-5"}, []string{"volume-set", "--", "-5"}},
		{"negative brightness", []string{"brightness-set", "-20"}, []string{"brightness-set", "--", "-20"}},
		{"flags kept", []string{"-v", "volume-set", "-5", "--step", "3"}, []string{"-v", "volume-set", "--step", "3", "--", "-5"}},
		{"positive untouched", []string{"volume-set", "40"}, []string{"volume-set", "40"}},
		{"explicit separator", []string{"volume-set", "--", "-5"}, []string{"volume-set", "--", "-5"}},
		{"other command", []string{"volume-up", "-v"}, []string{"volume-up", "-v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, levelArgs(tt.in))
		})
	}
}

func TestLevelArgs_ParsesAsPositional(t *testing.T) {
	saved := globalOpts
	t.Cleanup(func() { globalOpts = saved })

	for _, args := range [][]string{
		{"volume-set", "-5"},
		{"brightness-set", "-5", "-v"},
	} {
		cmd, rest, err := rootCmd.Find(levelArgs(args))
		require.NoError(t, err)
		require.NoError(t, cmd.ParseFlags(rest))
		assert.Equal(t, []string{"-5"}, cmd.Flags().Args(), "args %v", args)
		require.NoError(t, cmd.ValidateArgs(cmd.Flags().Args()))

		lvl, err := parsePercent(cmd.Flags().Args()[0])
		require.NoError(t, err)
		assert.Equal(t, -5, lvl)
	}
}

func TestWriteLevels(t *testing.T) {
	levels := Levels{
		Volume:     &VolumeStatus{Level: 45, Muted: true},
		Brightness: &BrightnessStatus{Level: 80},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeLevels(&buf, levels, "text"))
		assert.Equal(t, "volume 45% muted\nbrightness 80%\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeLevels(&buf, levels, "json"))

		var got Levels
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, levels, got)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeLevels(&buf, Levels{Brightness: &BrightnessStatus{Level: 3}}, "yaml"))
		assert.Equal(t, "brightness:\n  level: 3\n", buf.String())

		var got Levels
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Nil(t, got.Volume)
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, writeLevels(&bytes.Buffer{}, levels, "xml"))
	})
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"init", "volume-up", "volume-down", "volume-mute", "volume-set",
		"brightness-up", "brightness-down", "brightness-set",
		"status", "get", "tui", "themes",
	}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
