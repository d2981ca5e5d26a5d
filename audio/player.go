package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/framebridge/motion"
)

const sampleRate = beep.SampleRate(44100)

// Player plays bounce blips through the system speaker
// A Player that failed or was never initialized is silent
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	log         *zap.Logger
}

// NewPlayer creates a silent player; call Initialize to open the speaker
func NewPlayer(log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{
		mixer: &beep.Mixer{},
		log:   log,
	}
}

// Initialize opens the speaker and starts the mixer
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Cleanup silences pending blips and closes the speaker
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

// Bounce plays the blip matching the walls in hit
func (p *Player) Bounce(hit motion.Bounce) {
	freq := PitchFor(hit)
	if freq == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}

	tone, err := NewTone(sampleRate, freq)
	if err != nil {
		p.log.Warn("tone generation failed", zap.Float64("freq", freq), zap.Error(err))
		return
	}
	speaker.Lock()
	p.mixer.Add(tone)
	speaker.Unlock()
}
