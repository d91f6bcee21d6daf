package tui

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"

	"covidmap/internal/playback"
)

// trailFrames is how many days a burst stays on the map.
const trailFrames = 4

type burstMark struct {
	pos   mgl64.Vec3
	count int
	age   int
}

type frameMsg struct {
	gen   int
	frame playback.Frame
}

type playbackDoneMsg struct {
	gen int
	err error
}

func waitFrame(gen int, frames <-chan playback.Frame, errc <-chan error) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return playbackDoneMsg{gen: gen, err: <-errc}
		}
		return frameMsg{gen: gen, frame: f}
	}
}

func (m *Model) startPlayback() tea.Cmd {
	if m.scene == nil || len(m.timeline.Days) == 0 {
		m.status = "no case data to play"
		return nil
	}
	if m.next >= len(m.timeline.Days) {
		m.next, m.trail = 0, nil
	}
	seed := m.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := playback.New(m.timeline, m.scene,
		playback.WithPacing(m.opts.Pacing),
		playback.WithRand(rand.New(rand.NewSource(seed+int64(m.next)))),
		playback.WithLogger(m.log),
	)
	m.gen++
	m.frames, m.errc = p.Stream(ctx, m.next)
	m.cancel = cancel
	m.playing = true
	m.status = fmt.Sprintf("playing from day %d/%d", m.next+1, len(m.timeline.Days))
	return waitFrame(m.gen, m.frames, m.errc)
}

func (m *Model) stopPlayback() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.playing = false
}

func (m *Model) applyFrame(f playback.Frame) {
	kept := m.trail[:0]
	for _, b := range m.trail {
		b.age++
		if b.age < trailFrames {
			kept = append(kept, b)
		}
	}
	for _, b := range f.Bursts {
		kept = append(kept, burstMark{pos: b.Origin, count: b.Count})
	}
	m.trail = kept
	m.frame = f
	m.next = f.Index + 1
	m.status = fmt.Sprintf("%s  cases=%d  counties=%d", f.Display, f.Total, len(f.Bursts))
}

func (m *Model) handlePlayback(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case frameMsg:
		if msg.gen != m.gen || !m.playing {
			return nil
		}
		m.applyFrame(msg.frame)
		return waitFrame(msg.gen, m.frames, m.errc)
	case playbackDoneMsg:
		if msg.gen != m.gen {
			return nil
		}
		m.playing = false
		m.cancel = nil
		switch {
		case msg.err == nil:
			m.status = fmt.Sprintf("playback done: %d days", len(m.timeline.Days))
		case errors.Is(msg.err, context.Canceled):
			m.status = fmt.Sprintf("paused at day %d/%d", m.next, len(m.timeline.Days))
		default:
			m.status = "playback error: " + msg.err.Error()
		}
	}
	return nil
}

// progressPercent is the share of days already shown.
func (m Model) progressPercent() float64 {
	if len(m.timeline.Days) == 0 {
		return 0
	}
	return float64(m.next) / float64(len(m.timeline.Days))
}
