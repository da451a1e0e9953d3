package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/santhiya1818/vibescape/catalog"
)

func TestRandomDetectorReturnsKnownLabel(t *testing.T) {
	detector := NewRandomDetector(0)

	for i := 0; i < 20; i++ {
		emotion, err := detector.Detect(context.Background())
		if err != nil {
			t.Fatalf("Detect: %v", err)
		}
		known := false
		for _, e := range Emotions {
			if emotion == e {
				known = true
				break
			}
		}
		if !known {
			t.Fatalf("unknown emotion %q", emotion)
		}
	}
}

func TestRandomDetectorHonorsCancellation(t *testing.T) {
	detector := NewRandomDetector(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := detector.Detect(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestPlayForEmotionFiltersCatalog(t *testing.T) {
	songs := []catalog.Song{
		{Title: "A", Artist: "X", Emotion: "Happy"},
		{Title: "B", Artist: "Y", Emotion: "Sad"},
		{Title: "C", Artist: "Z", Emotion: "happy"}, // tag matching is case-insensitive
	}
	p := newTestPlayer(songs, &fakeAudio{}, nil)

	if err := p.PlayForEmotion(context.Background(), EmotionHappy); err != nil {
		t.Fatalf("PlayForEmotion: %v", err)
	}
	got := p.Current()
	if got == nil || (got.Title != "A" && got.Title != "C") {
		t.Errorf("current = %+v, want a Happy song", got)
	}
	if !p.EmotionMode() {
		t.Error("emotion mode should be on")
	}
	if p.State() != StatePlaying {
		t.Errorf("state = %v", p.State())
	}
}

func TestPlayForEmotionNoMatches(t *testing.T) {
	p := newTestPlayer(testCatalog(), &fakeAudio{}, nil)

	err := p.PlayForEmotion(context.Background(), EmotionSurprised)
	if !errors.Is(err, ErrNoMatchingSongs) {
		t.Errorf("err = %v, want ErrNoMatchingSongs", err)
	}
	if p.EmotionMode() {
		t.Error("emotion mode must stay off on failure")
	}
}

type fixedDetector struct {
	emotion Emotion
	err     error
}

func (d fixedDetector) Detect(ctx context.Context) (Emotion, error) {
	return d.emotion, d.err
}

func TestDetectAndPlay(t *testing.T) {
	p := newTestPlayer(testCatalog(), &fakeAudio{}, nil)

	emotion, err := p.DetectAndPlay(context.Background(), fixedDetector{emotion: EmotionSad})
	if err != nil {
		t.Fatalf("DetectAndPlay: %v", err)
	}
	if emotion != EmotionSad {
		t.Errorf("emotion = %q", emotion)
	}
	if got := p.Current(); got == nil || got.Title != "B" {
		t.Errorf("current = %+v, want the Sad song", got)
	}
}

func TestDetectAndPlayDetectorFailure(t *testing.T) {
	p := newTestPlayer(testCatalog(), &fakeAudio{}, nil)

	detectErr := errors.New("camera unavailable")
	if _, err := p.DetectAndPlay(context.Background(), fixedDetector{err: detectErr}); !errors.Is(err, detectErr) {
		t.Errorf("err = %v, want detector error", err)
	}
	if p.State() != StateIdle {
		t.Errorf("state = %v, want idle", p.State())
	}
}
