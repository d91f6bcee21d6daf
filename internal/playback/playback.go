// Package playback steps through a case timeline one report day at a time.
// Each day occupies at least the configured pacing; time spent building and
// emitting the frame counts toward it.
package playback

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"covidmap/internal/cases"
	"covidmap/internal/logger"
	"covidmap/internal/metrics"
	"covidmap/internal/scene"
)

const DefaultPacing = 200 * time.Millisecond

// Frame is one report day ready for display.
type Frame struct {
	Index   int           `json:"index"`
	Days    int           `json:"days"`
	Date    string        `json:"date"`
	Display string        `json:"display"`
	Bursts  []cases.Burst `json:"bursts"`
	Total   int           `json:"total"`
}

// Player emits frames for a timeline against a prepared scene.
type Player struct {
	timeline cases.Timeline
	scene    *scene.Scene
	pacing   time.Duration
	log      *slog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

type Option func(*Player)

// WithPacing sets the minimum per-day duration; zero disables waiting.
func WithPacing(d time.Duration) Option { return func(p *Player) { p.pacing = d } }

func WithRand(r *rand.Rand) Option { return func(p *Player) { p.rnd = r } }

func WithLogger(l *slog.Logger) Option { return func(p *Player) { p.log = l } }

func New(t cases.Timeline, s *scene.Scene, opts ...Option) *Player {
	p := &Player{timeline: t, scene: s, pacing: DefaultPacing}
	for _, o := range opts {
		o(p)
	}
	if p.rnd == nil {
		p.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if p.log == nil {
		p.log = logger.L()
	}
	return p
}

// Len is the number of days.
func (p *Player) Len() int { return len(p.timeline.Days) }

func (p *Player) Pacing() time.Duration { return p.pacing }

// Frame builds the frame for day i without pacing.
func (p *Player) Frame(i int) Frame {
	d := p.timeline.Days[i]
	p.mu.Lock()
	bursts := cases.Bursts(d, p.scene, p.rnd, p.log)
	p.mu.Unlock()
	total := 0
	for _, b := range bursts {
		total += b.Count
	}
	return Frame{
		Index:   i,
		Days:    p.Len(),
		Date:    d.Date,
		Display: cases.FormatDate(d.Date),
		Bursts:  bursts,
		Total:   total,
	}
}

// Play emits every frame in order, waiting out the rest of the pacing after
// each one. It stops on the first emit error or when ctx is done.
func (p *Player) Play(ctx context.Context, emit func(Frame) error) error {
	return p.PlayFrom(ctx, 0, emit)
}

// PlayFrom is Play starting at day start.
func (p *Player) PlayFrom(ctx context.Context, start int, emit func(Frame) error) error {
	t0 := time.Now()
	p.log.Info("stage_start", "stage", "playback", "days", p.Len(), "from", start)
	for i := max(start, 0); i < p.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		f := p.Frame(i)
		if err := emit(f); err != nil {
			return err
		}
		metrics.FramesSentTotal.Inc()
		rest := p.pacing - time.Since(start)
		if rest <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rest):
		}
	}
	p.log.Info("stage_done", "stage", "playback", "elapsed_s", time.Since(t0).Seconds())
	return nil
}

// Stream runs PlayFrom in a goroutine. The frame channel is closed when playback
// ends; the error channel then yields the result of PlayFrom.
func (p *Player) Stream(ctx context.Context, start int) (<-chan Frame, <-chan error) {
	frames := make(chan Frame)
	errc := make(chan error, 1)
	go func() {
		defer close(frames)
		errc <- p.PlayFrom(ctx, start, func(f Frame) error {
			select {
			case frames <- f:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()
	return frames, errc
}
