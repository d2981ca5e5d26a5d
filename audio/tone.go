package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/framebridge/motion"
)

// Tone pitches per wall orientation
const (
	pitchSideWall  = 440.0
	pitchFloorCeil = 660.0
	pitchCorner    = 880.0
	toneDuration   = 40 * time.Millisecond
	toneAttack     = 3 * time.Millisecond
	toneRelease    = 20 * time.Millisecond
	toneGain       = 0.3
)

// PitchFor returns the tone frequency for a bounce, zero when no wall was hit
func PitchFor(hit motion.Bounce) float64 {
	side := hit&(motion.BounceLeft|motion.BounceRight) != 0
	floor := hit&(motion.BounceTop|motion.BounceBottom) != 0
	switch {
	case side && floor:
		return pitchCorner
	case side:
		return pitchSideWall
	case floor:
		return pitchFloorCeil
	default:
		return 0
	}
}

// NewTone builds a short enveloped sine blip at freq
func NewTone(rate beep.SampleRate, freq float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}
	return newEnvelope(beep.Take(rate.N(toneDuration), sine), toneDuration, toneAttack, toneRelease, toneGain, rate), nil
}

// envelope shapes a stream with a linear attack and release so blips do not click
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseStart   int
	releaseSamples int
	totalSamples   int
	gain           float64
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, gain float64, rate beep.SampleRate) *envelope {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseStart:   max(total-rel, att),
		releaseSamples: rel,
		totalSamples:   total,
		gain:           gain,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, false
		}

		vol := e.gain
		if e.position < e.attackSamples {
			vol *= float64(e.position) / float64(e.attackSamples)
		} else if e.position >= e.releaseStart && e.releaseSamples > 0 {
			vol *= float64(e.totalSamples-e.position) / float64(e.releaseSamples)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error {
	return e.streamer.Err()
}
