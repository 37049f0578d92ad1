package level

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

const (
	// pulseVolumeNorm is 100% on the PulseAudio volume scale.
	pulseVolumeNorm = 0x10000
	// pulseUndefinedIndex selects a sink by name instead of index.
	pulseUndefinedIndex = 0xFFFFFFFF
)

// Pulse drives the default sink over the native PulseAudio protocol.
// Works against pipewire-pulse as well.
type Pulse struct {
	appName string

	mu     sync.Mutex
	client *pulse.Client
}

// NewPulse creates a Pulse backend. The connection is opened on first use.
func NewPulse(appName string) *Pulse {
	return &Pulse{appName: appName}
}

// Name returns the backend identifier.
func (p *Pulse) Name() string { return "pulse" }

// Close releases the server connection.
func (p *Pulse) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
}

func (p *Pulse) connect() (*pulse.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}

	client, err := pulse.NewClient(
		pulse.ClientApplicationName(p.appName),
		pulse.ClientApplicationIconName("audio-volume-high"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect pulse server: %w", err)
	}
	p.client = client
	return client, nil
}

func (p *Pulse) defaultSink() (*pulse.Client, *pulseproto.GetSinkInfoReply, error) {
	client, err := p.connect()
	if err != nil {
		return nil, nil, err
	}

	sink, err := client.DefaultSink()
	if err != nil {
		return nil, nil, fmt.Errorf("read default sink: %w", err)
	}

	var info pulseproto.GetSinkInfoReply
	req := &pulseproto.GetSinkInfo{SinkIndex: pulseUndefinedIndex, SinkName: sink.ID()}
	if err := client.RawRequest(req, &info); err != nil {
		return nil, nil, fmt.Errorf("get sink info %s: %w", sink.ID(), err)
	}
	return client, &info, nil
}

// Volume returns the average channel volume of the default sink.
func (p *Pulse) Volume(_ context.Context) (int, bool, error) {
	_, info, err := p.defaultSink()
	if err != nil {
		return 0, false, &ToolError{Tool: p.Name(), Op: "get-volume", Err: err}
	}
	return pulseToPercent(info.ChannelVolumes), info.Mute, nil
}

// SetVolume moves the default sink to lvl percent, keeping the ratio
// between channels.
func (p *Pulse) SetVolume(_ context.Context, lvl int) error {
	client, info, err := p.defaultSink()
	if err != nil {
		return &ToolError{Tool: p.Name(), Op: "set-volume", Err: err}
	}

	req := &pulseproto.SetSinkVolume{
		SinkIndex:      info.SinkIndex,
		ChannelVolumes: scaleChannels(info.ChannelVolumes, lvl),
	}
	if err := client.RawRequest(req, nil); err != nil {
		return &ToolError{Tool: p.Name(), Op: "set-volume", Err: err}
	}
	return nil
}

// ToggleMute inverts the mute state reported by the server.
func (p *Pulse) ToggleMute(_ context.Context) error {
	client, info, err := p.defaultSink()
	if err != nil {
		return &ToolError{Tool: p.Name(), Op: "set-mute", Err: err}
	}

	req := &pulseproto.SetSinkMute{SinkIndex: info.SinkIndex, Mute: !info.Mute}
	if err := client.RawRequest(req, nil); err != nil {
		return &ToolError{Tool: p.Name(), Op: "set-mute", Err: err}
	}
	return nil
}

// pulseToPercent averages channel volumes into a rounded percentage.
func pulseToPercent(volumes pulseproto.ChannelVolumes) int {
	if len(volumes) == 0 {
		return 0
	}
	var sum uint64
	for _, v := range volumes {
		sum += uint64(v)
	}
	avg := float64(sum) / float64(len(volumes))
	return int(math.Round(avg * 100 / pulseVolumeNorm))
}

// scaleChannels rescales volumes so their average is lvl percent. Silent
// sinks have no balance to keep and get a flat volume.
func scaleChannels(volumes pulseproto.ChannelVolumes, lvl int) pulseproto.ChannelVolumes {
	var sum uint64
	for _, v := range volumes {
		sum += uint64(v)
	}
	if sum == 0 {
		return percentToPulse(lvl, len(volumes))
	}

	avg := float64(sum) / float64(len(volumes))
	factor := float64(lvl) * pulseVolumeNorm / 100 / avg
	scaled := make(pulseproto.ChannelVolumes, len(volumes))
	for i, v := range volumes {
		scaled[i] = uint32(math.Round(float64(v) * factor))
	}
	return scaled
}

// percentToPulse builds per-channel volumes for a percentage.
func percentToPulse(lvl, channels int) pulseproto.ChannelVolumes {
	if channels < 1 {
		channels = 1
	}
	v := uint32(math.Round(float64(lvl) * pulseVolumeNorm / 100))
	volumes := make(pulseproto.ChannelVolumes, channels)
	for i := range volumes {
		volumes[i] = v
	}
	return volumes
}
