// Package player implements the playback state machine that drives the web
// client: track loading, play/pause, modulo next/prev, seek, emotion-driven
// auto-selection and the derived browse views. It holds no network or DOM
// concerns; audio output and server-side history recording are injected as
// interfaces.
package player

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/santhiya1818/vibescape/catalog"
)

// State is the player's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateLoaded
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoaded:
		return "loaded"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// seekStep is the jump applied by Rewind and Forward.
const seekStep = 10 * time.Second

// ErrEmptyCatalog is returned by operations that need at least one song.
var ErrEmptyCatalog = errors.New("player: catalog is empty")

// ErrNoSongLoaded is returned when playback is requested before Load.
var ErrNoSongLoaded = errors.New("player: no song loaded")

// Audio abstracts the underlying audio element.
type Audio interface {
	SetSource(src string)
	Play() error
	Pause()
	Seek(pos time.Duration)
	Position() time.Duration
	Duration() time.Duration
}

// HistoryRecorder records playback events server-side. Recording is
// best-effort: the player logs failures and keeps playing.
type HistoryRecorder interface {
	Record(ctx context.Context, title, artist string) error
}

// Player owns the playback state for one client session.
type Player struct {
	catalog []catalog.Song
	audio   Audio
	history HistoryRecorder
	logger  *zap.Logger
	rng     *rand.Rand

	state        State
	current      int
	emotionMode  bool
	localHistory []string
}

// New creates a Player over a catalog snapshot. history may be nil for a
// signed-out session.
func New(songs []catalog.Song, audio Audio, history HistoryRecorder, logger *zap.Logger) *Player {
	return &Player{
		catalog: songs,
		audio:   audio,
		history: history,
		logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		state:   StateIdle,
		current: -1,
	}
}

// State returns the current lifecycle state.
func (p *Player) State() State { return p.state }

// CurrentIndex returns the loaded song's catalog index, or -1 when idle.
func (p *Player) CurrentIndex() int { return p.current }

// Current returns the loaded song, or nil when idle.
func (p *Player) Current() *catalog.Song {
	if p.current < 0 || p.current >= len(p.catalog) {
		return nil
	}
	return &p.catalog[p.current]
}

// EmotionMode reports whether the player is in emotion-tracking playback.
func (p *Player) EmotionMode() bool { return p.emotionMode }

// SetCatalog replaces the catalog snapshot, e.g. after a cache refresh. The
// loaded song keeps playing; its index is re-resolved by title so next/prev
// stay coherent.
func (p *Player) SetCatalog(songs []catalog.Song) {
	current := p.Current()
	p.catalog = songs
	if current == nil {
		return
	}
	p.current = 0
	for i, s := range songs {
		if s.Title == current.Title && s.Artist == current.Artist {
			p.current = i
			return
		}
	}
}

// Load points the audio element at the song and pushes its title onto the
// local play history, skipping the push when it already heads the list.
func (p *Player) Load(index int) error {
	if len(p.catalog) == 0 {
		return ErrEmptyCatalog
	}
	if index < 0 || index >= len(p.catalog) {
		return errors.New("player: song index out of range")
	}

	song := p.catalog[index]
	p.audio.SetSource(song.File)
	p.current = index
	p.state = StateLoaded

	if len(p.localHistory) == 0 || p.localHistory[0] != song.Title {
		p.localHistory = append([]string{song.Title}, p.localHistory...)
	}
	return nil
}

// Play starts playback of the loaded song and records the play server-side.
// A failed recording is logged, never surfaced.
func (p *Player) Play(ctx context.Context) error {
	if p.current < 0 {
		return ErrNoSongLoaded
	}
	if err := p.audio.Play(); err != nil {
		return err
	}
	p.state = StatePlaying

	if p.history != nil {
		song := p.catalog[p.current]
		if err := p.history.Record(ctx, song.Title, song.Artist); err != nil {
			p.logger.Warn("failed to record play",
				zap.String("title", song.Title), zap.Error(err))
		}
	}
	return nil
}

// Pause stops playback, keeping the position. Like next/prev it is a manual
// control, so it also leaves emotion mode.
func (p *Player) Pause() {
	p.emotionMode = false
	if p.state != StatePlaying {
		return
	}
	p.audio.Pause()
	p.state = StatePaused
}

// TogglePlayPause flips between playing and paused, leaving emotion mode
// either way.
func (p *Player) TogglePlayPause(ctx context.Context) error {
	p.emotionMode = false
	if p.state == StatePlaying {
		p.Pause()
		return nil
	}
	return p.Play(ctx)
}

// Next advances to the following song modulo the catalog length, cancels
// emotion mode and starts playback.
func (p *Player) Next(ctx context.Context) error {
	return p.step(ctx, 1)
}

// Prev retreats to the preceding song modulo the catalog length, cancels
// emotion mode and starts playback.
func (p *Player) Prev(ctx context.Context) error {
	return p.step(ctx, -1)
}

func (p *Player) step(ctx context.Context, delta int) error {
	if len(p.catalog) == 0 {
		return ErrEmptyCatalog
	}
	p.emotionMode = false

	n := len(p.catalog)
	index := ((p.current+delta)%n + n) % n
	if err := p.Load(index); err != nil {
		return err
	}
	return p.Play(ctx)
}

// HandleEnded reacts to the end of the current track. In emotion mode it
// stops and reports true so the UI can offer to re-run detection; otherwise
// it auto-advances.
func (p *Player) HandleEnded(ctx context.Context) (promptEmotion bool, err error) {
	if p.emotionMode {
		p.emotionMode = false
		p.state = StateLoaded
		return true, nil
	}
	return false, p.Next(ctx)
}

// Progress reports playback position as a fraction of duration in [0, 1].
func (p *Player) Progress() float64 {
	duration := p.audio.Duration()
	if duration <= 0 {
		return 0
	}
	fraction := float64(p.audio.Position()) / float64(duration)
	return clamp01(fraction)
}

// Seek moves playback to the given fraction of the track's duration.
func (p *Player) Seek(fraction float64) {
	duration := p.audio.Duration()
	if duration <= 0 {
		return
	}
	p.audio.Seek(time.Duration(clamp01(fraction) * float64(duration)))
}

// Rewind jumps back ten seconds, clamped at the start.
func (p *Player) Rewind() {
	pos := p.audio.Position() - seekStep
	if pos < 0 {
		pos = 0
	}
	p.audio.Seek(pos)
}

// Forward jumps ahead ten seconds, clamped at the end.
func (p *Player) Forward() {
	pos := p.audio.Position() + seekStep
	if duration := p.audio.Duration(); pos > duration {
		pos = duration
	}
	p.audio.Seek(pos)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
