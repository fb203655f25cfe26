// Package audio plays a short snap whenever links are severed.
package audio

import (
	"math"
	"math/cmplx"
	"math/rand"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/mjibson/go-dsp/fft"
)

const (
	SampleRate = 44100
	BufferSize = 512

	maxVoices = 12
	decay     = 0.04 // seconds to fall to 1/e
)

type voice struct {
	t     float64
	pitch float64
	amp   float64
}

// Snapper synthesizes decaying noise bursts, one voice per severed link,
// mixed through a low-pass filter and a short stereo delay.
type Snapper struct {
	stream *portaudio.Stream

	mu     sync.Mutex
	voices []voice
	rng    *rand.Rand

	filter    [2]float64
	delayLine [2][]float64
	delayHead int

	bass, mid, high float64
	spectrumBuf     []complex128

	Active bool
}

func NewSnapper() *Snapper {
	delayLen := int(float64(SampleRate) * 0.12)
	return &Snapper{
		rng:         rand.New(rand.NewSource(1)),
		delayLine:   [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
		spectrumBuf: make([]complex128, BufferSize),
	}
}

// Start opens the default output device. The snapper still accepts Snap
// calls when Start fails; they are mixed into nothing.
func (s *Snapper) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, s.Process)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}
	s.stream = stream
	s.Active = true
	return nil
}

func (s *Snapper) Stop() {
	if s.stream == nil {
		return
	}
	s.stream.Stop()
	s.stream.Close()
	s.stream = nil
	portaudio.Terminate()
	s.Active = false
}

// Snap queues n snaps. Bursts beyond the voice limit are dropped.
func (s *Snapper) Snap(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n && len(s.voices) < maxVoices; i++ {
		s.voices = append(s.voices, voice{
			pitch: 900 + s.rng.Float64()*700,
			amp:   0.5 + s.rng.Float64()*0.3,
		})
	}
}

// Voices reports how many snaps are still ringing.
func (s *Snapper) Voices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.voices)
}

// Levels returns the smoothed band levels of the recent output, each in
// [0, 1].
func (s *Snapper) Levels() (bass, mid, high float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bass, s.mid, s.high
}

func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Process fills a non-interleaved stereo buffer. It is the stream callback.
func (s *Snapper) Process(out [][]float32) {
	const dt = 1.0 / SampleRate
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range out[0] {
		sample := 0.0
		for j := range s.voices {
			v := &s.voices[j]
			env := v.amp * math.Exp(-v.t/decay)
			noise := s.rng.Float64()*2 - 1
			sample += env * (0.6*noise + 0.4*math.Sin(2*math.Pi*v.pitch*v.t))
			v.t += dt
		}

		s.filter[0] = lpf(sample, 4000, dt, s.filter[0])
		s.filter[1] = lpf(sample, 3000, dt, s.filter[1])

		dl := s.delayLine[0][s.delayHead]
		dr := s.delayLine[1][s.delayHead]
		l := s.filter[0] + dr*0.25
		r := s.filter[1] + dl*0.25
		s.delayLine[0][s.delayHead] = l * 0.5
		s.delayLine[1][s.delayHead] = r * 0.5
		s.delayHead = (s.delayHead + 1) % len(s.delayLine[0])

		out[0][i] = float32(clamp(l))
		out[1][i] = float32(clamp(r))
	}

	alive := s.voices[:0]
	for _, v := range s.voices {
		if v.t < decay*8 {
			alive = append(alive, v)
		}
	}
	s.voices = alive

	s.analyze(out[0])
}

// analyze buckets the spectrum of buf into three smoothed band levels.
func (s *Snapper) analyze(buf []float32) {
	n := len(buf)
	if n > len(s.spectrumBuf) {
		n = len(s.spectrumBuf)
	}
	for i := range s.spectrumBuf {
		s.spectrumBuf[i] = 0
	}
	for i := 0; i < n; i++ {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		s.spectrumBuf[i] = complex(float64(buf[i])*window, 0)
	}
	spectrum := fft.FFT(s.spectrumBuf)

	var bass, mid, high float64
	for i := 1; i < len(spectrum)/2; i++ {
		mag := cmplx.Abs(spectrum[i])
		switch {
		case i < 4:
			bass += mag
		case i < 40:
			mid += mag
		default:
			high += mag
		}
	}
	s.bass = s.bass*0.8 + math.Min(bass/20, 1)*0.2
	s.mid = s.mid*0.8 + math.Min(mid/50, 1)*0.2
	s.high = s.high*0.8 + math.Min(high/100, 1)*0.2
}

func clamp(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
