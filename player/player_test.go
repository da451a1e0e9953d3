package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/santhiya1818/vibescape/catalog"
)

type fakeAudio struct {
	source   string
	playing  bool
	playErr  error
	position time.Duration
	duration time.Duration
}

func (f *fakeAudio) SetSource(src string) { f.source = src }

func (f *fakeAudio) Play() error {
	if f.playErr != nil {
		return f.playErr
	}
	f.playing = true
	return nil
}

func (f *fakeAudio) Pause() { f.playing = false }

func (f *fakeAudio) Seek(pos time.Duration) { f.position = pos }

func (f *fakeAudio) Position() time.Duration { return f.position }

func (f *fakeAudio) Duration() time.Duration { return f.duration }

type fakeRecorder struct {
	recorded []string
	err      error
}

func (f *fakeRecorder) Record(ctx context.Context, title, artist string) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, title)
	return nil
}

func testCatalog() []catalog.Song {
	return []catalog.Song{
		{Title: "A", Artist: "X", Genre: "Pop", Emotion: "Happy", File: "songs/a.mp3"},
		{Title: "B", Artist: "Y", Genre: "Rock", Emotion: "Sad", File: "songs/b.mp3"},
	}
}

func newTestPlayer(songs []catalog.Song, audio *fakeAudio, rec HistoryRecorder) *Player {
	return New(songs, audio, rec, zap.NewNop())
}

func TestLoadTransitionsFromIdle(t *testing.T) {
	audio := &fakeAudio{}
	p := newTestPlayer(testCatalog(), audio, nil)

	if p.State() != StateIdle {
		t.Fatalf("initial state = %v", p.State())
	}
	if err := p.Load(0); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.State() != StateLoaded {
		t.Errorf("state = %v, want loaded", p.State())
	}
	if audio.source != "songs/a.mp3" {
		t.Errorf("audio source = %q", audio.source)
	}
	if got := p.Current(); got == nil || got.Title != "A" {
		t.Errorf("current = %+v", got)
	}
}

func TestLoadValidatesIndex(t *testing.T) {
	p := newTestPlayer(testCatalog(), &fakeAudio{}, nil)
	if err := p.Load(5); err == nil {
		t.Error("out-of-range index must fail")
	}

	empty := newTestPlayer(nil, &fakeAudio{}, nil)
	if err := empty.Load(0); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("err = %v, want ErrEmptyCatalog", err)
	}
}

func TestPlayPauseToggle(t *testing.T) {
	audio := &fakeAudio{}
	p := newTestPlayer(testCatalog(), audio, nil)

	if err := p.Play(context.Background()); !errors.Is(err, ErrNoSongLoaded) {
		t.Fatalf("play before load: err = %v", err)
	}

	p.Load(0)
	if err := p.Play(context.Background()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if p.State() != StatePlaying || !audio.playing {
		t.Errorf("state = %v, playing = %v", p.State(), audio.playing)
	}

	p.Pause()
	if p.State() != StatePaused || audio.playing {
		t.Errorf("after pause: state = %v, playing = %v", p.State(), audio.playing)
	}

	if err := p.TogglePlayPause(context.Background()); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if p.State() != StatePlaying {
		t.Errorf("after toggle: state = %v", p.State())
	}
}

func TestPlayRecordsHistory(t *testing.T) {
	rec := &fakeRecorder{}
	p := newTestPlayer(testCatalog(), &fakeAudio{}, rec)

	p.Load(1)
	if err := p.Play(context.Background()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if len(rec.recorded) != 1 || rec.recorded[0] != "B" {
		t.Errorf("recorded = %v", rec.recorded)
	}
}

func TestPlaySucceedsWhenRecordingFails(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("server unreachable")}
	p := newTestPlayer(testCatalog(), &fakeAudio{}, rec)

	p.Load(0)
	if err := p.Play(context.Background()); err != nil {
		t.Errorf("recording failure must not fail playback: %v", err)
	}
	if p.State() != StatePlaying {
		t.Errorf("state = %v", p.State())
	}
}

// prev from the first track wraps to the last; next from there wraps back.
func TestPrevNextWraparound(t *testing.T) {
	p := newTestPlayer(testCatalog(), &fakeAudio{}, nil)
	ctx := context.Background()

	p.Load(0)
	if err := p.Prev(ctx); err != nil {
		t.Fatalf("Prev: %v", err)
	}
	if got := p.Current(); got == nil || got.Title != "B" {
		t.Errorf("after prev: current = %+v, want B", got)
	}

	if err := p.Next(ctx); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got := p.Current(); got == nil || got.Title != "A" {
		t.Errorf("after next: current = %+v, want A", got)
	}
}

func TestNextNTimesReturnsToStart(t *testing.T) {
	songs := []catalog.Song{
		{Title: "A", Artist: "X"}, {Title: "B", Artist: "Y"},
		{Title: "C", Artist: "Z"}, {Title: "D", Artist: "W"},
	}
	p := newTestPlayer(songs, &fakeAudio{}, nil)
	ctx := context.Background()

	p.Load(0)
	for i := 0; i < len(songs); i++ {
		if err := p.Next(ctx); err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
	}
	if p.CurrentIndex() != 0 {
		t.Errorf("index after %d nexts = %d, want 0", len(songs), p.CurrentIndex())
	}
}

func TestManualControlsCancelEmotionMode(t *testing.T) {
	ctx := context.Background()

	t.Run("next", func(t *testing.T) {
		p := newTestPlayer(testCatalog(), &fakeAudio{}, nil)
		if err := p.PlayForEmotion(ctx, EmotionHappy); err != nil {
			t.Fatalf("PlayForEmotion: %v", err)
		}
		if !p.EmotionMode() {
			t.Fatal("emotion mode should be on")
		}

		p.Next(ctx)
		if p.EmotionMode() {
			t.Error("Next must cancel emotion mode")
		}
	})

	t.Run("play-pause toggle", func(t *testing.T) {
		p := newTestPlayer(testCatalog(), &fakeAudio{}, nil)
		if err := p.PlayForEmotion(ctx, EmotionHappy); err != nil {
			t.Fatalf("PlayForEmotion: %v", err)
		}

		if err := p.TogglePlayPause(ctx); err != nil {
			t.Fatalf("TogglePlayPause: %v", err)
		}
		if p.EmotionMode() {
			t.Error("pausing must cancel emotion mode")
		}

		// After a manual pause and resume, the end of the track should
		// auto-advance rather than prompt for another detection.
		if err := p.TogglePlayPause(ctx); err != nil {
			t.Fatalf("TogglePlayPause: %v", err)
		}
		prompt, err := p.HandleEnded(ctx)
		if err != nil {
			t.Fatalf("HandleEnded: %v", err)
		}
		if prompt {
			t.Error("track end after manual pause/resume must not re-prompt")
		}
	})
}

func TestHandleEnded(t *testing.T) {
	ctx := context.Background()

	t.Run("auto-advances normally", func(t *testing.T) {
		p := newTestPlayer(testCatalog(), &fakeAudio{}, nil)
		p.Load(0)
		prompt, err := p.HandleEnded(ctx)
		if err != nil {
			t.Fatalf("HandleEnded: %v", err)
		}
		if prompt {
			t.Error("no emotion prompt expected")
		}
		if got := p.Current(); got == nil || got.Title != "B" {
			t.Errorf("current = %+v, want B", got)
		}
	})

	t.Run("emotion mode is single-shot", func(t *testing.T) {
		p := newTestPlayer(testCatalog(), &fakeAudio{}, nil)
		if err := p.PlayForEmotion(ctx, EmotionSad); err != nil {
			t.Fatalf("PlayForEmotion: %v", err)
		}
		index := p.CurrentIndex()

		prompt, err := p.HandleEnded(ctx)
		if err != nil {
			t.Fatalf("HandleEnded: %v", err)
		}
		if !prompt {
			t.Error("expected emotion re-detect prompt")
		}
		if p.EmotionMode() {
			t.Error("emotion mode should be off after the track ends")
		}
		if p.CurrentIndex() != index {
			t.Error("ended emotion track must not auto-advance")
		}
	})
}

func TestRewindForwardClamp(t *testing.T) {
	audio := &fakeAudio{position: 4 * time.Second, duration: 3 * time.Minute}
	p := newTestPlayer(testCatalog(), audio, nil)

	p.Rewind()
	if audio.position != 0 {
		t.Errorf("rewind near start: position = %v, want 0", audio.position)
	}

	audio.position = 3*time.Minute - 2*time.Second
	p.Forward()
	if audio.position != 3*time.Minute {
		t.Errorf("forward near end: position = %v, want duration", audio.position)
	}

	audio.position = time.Minute
	p.Forward()
	if audio.position != time.Minute+10*time.Second {
		t.Errorf("forward: position = %v", audio.position)
	}
	p.Rewind()
	if audio.position != time.Minute {
		t.Errorf("rewind: position = %v", audio.position)
	}
}

func TestSeekAndProgress(t *testing.T) {
	audio := &fakeAudio{duration: 200 * time.Second}
	p := newTestPlayer(testCatalog(), audio, nil)

	p.Seek(0.5)
	if audio.position != 100*time.Second {
		t.Errorf("seek 0.5: position = %v", audio.position)
	}
	if got := p.Progress(); got != 0.5 {
		t.Errorf("progress = %v", got)
	}

	p.Seek(2.0)
	if audio.position != 200*time.Second {
		t.Errorf("seek past end must clamp: position = %v", audio.position)
	}

	// Unknown duration: both are inert.
	silent := &fakeAudio{}
	q := newTestPlayer(testCatalog(), silent, nil)
	q.Seek(0.5)
	if silent.position != 0 {
		t.Errorf("seek with zero duration moved to %v", silent.position)
	}
	if got := q.Progress(); got != 0 {
		t.Errorf("progress with zero duration = %v", got)
	}
}

func TestLocalHistoryHeadDedup(t *testing.T) {
	p := newTestPlayer(testCatalog(), &fakeAudio{}, nil)

	p.Load(0)
	p.Load(0) // reload of the head must not duplicate
	p.Load(1)
	p.Load(0)

	want := []string{"A", "B", "A"}
	if len(p.localHistory) != len(want) {
		t.Fatalf("local history = %v, want %v", p.localHistory, want)
	}
	for i, title := range want {
		if p.localHistory[i] != title {
			t.Errorf("local history = %v, want %v", p.localHistory, want)
			break
		}
	}
}

func TestSetCatalogKeepsCurrentSong(t *testing.T) {
	p := newTestPlayer(testCatalog(), &fakeAudio{}, nil)
	p.Load(1)

	// New snapshot with an extra song in front shifts every index.
	p.SetCatalog([]catalog.Song{
		{Title: "C", Artist: "Z"},
		{Title: "A", Artist: "X"},
		{Title: "B", Artist: "Y"},
	})
	if got := p.Current(); got == nil || got.Title != "B" {
		t.Errorf("current = %+v, want B re-resolved", got)
	}
	if p.CurrentIndex() != 2 {
		t.Errorf("index = %d, want 2", p.CurrentIndex())
	}
}
