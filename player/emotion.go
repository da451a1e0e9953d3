package player

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"
)

// Emotion is a mood label attached to songs and produced by detection.
type Emotion string

const (
	EmotionHappy     Emotion = "Happy"
	EmotionSad       Emotion = "Sad"
	EmotionAngry     Emotion = "Angry"
	EmotionNeutral   Emotion = "Neutral"
	EmotionSurprised Emotion = "Surprised"
)

// Emotions lists every label a detector may produce.
var Emotions = []Emotion{EmotionHappy, EmotionSad, EmotionAngry, EmotionNeutral, EmotionSurprised}

// ErrNoMatchingSongs is returned when the catalog has no song tagged with
// the detected emotion.
var ErrNoMatchingSongs = errors.New("player: no songs match the detected emotion")

// Detector classifies the user's current mood. Implementations may run a
// real model; the stub below just guesses.
type Detector interface {
	Detect(ctx context.Context) (Emotion, error)
}

// DefaultDetectDelay is how long the stub detector "thinks", matching the
// delay the UI shows during simulated detection.
const DefaultDetectDelay = 3 * time.Second

// RandomDetector simulates detection: after a fixed delay it returns a
// uniformly random label. It stands in until a real classifier exists.
type RandomDetector struct {
	Delay time.Duration
	rng   *rand.Rand
}

// NewRandomDetector creates the stub detector with the UI's usual delay.
func NewRandomDetector(delay time.Duration) *RandomDetector {
	return &RandomDetector{
		Delay: delay,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Detect waits for the configured delay, honoring cancellation, then picks
// a label at random.
func (d *RandomDetector) Detect(ctx context.Context) (Emotion, error) {
	if d.Delay > 0 {
		timer := time.NewTimer(d.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return Emotions[d.rng.Intn(len(Emotions))], nil
}

// PlayForEmotion filters the catalog to songs tagged with the emotion,
// loads one at random and enters emotion-tracking playback. Emotion mode is
// single-shot: it ends when the track does, or when the user touches the
// manual controls.
func (p *Player) PlayForEmotion(ctx context.Context, emotion Emotion) error {
	matches := []int{}
	for i, song := range p.catalog {
		if strings.EqualFold(song.Emotion, string(emotion)) {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return ErrNoMatchingSongs
	}

	index := matches[p.rng.Intn(len(matches))]
	if err := p.Load(index); err != nil {
		return err
	}
	if err := p.Play(ctx); err != nil {
		return err
	}
	p.emotionMode = true
	return nil
}

// DetectAndPlay runs the detector and, on success, starts emotion playback.
// The detected label is returned so the UI can ask for confirmation first
// when it wants to; passing the label to PlayForEmotion directly skips that.
func (p *Player) DetectAndPlay(ctx context.Context, detector Detector) (Emotion, error) {
	emotion, err := detector.Detect(ctx)
	if err != nil {
		return "", err
	}
	return emotion, p.PlayForEmotion(ctx, emotion)
}
