package audio

import (
	"math"
	"testing"
)

func buffers() [][]float32 {
	return [][]float32{make([]float32, BufferSize), make([]float32, BufferSize)}
}

func peak(out [][]float32) float64 {
	p := 0.0
	for _, ch := range out {
		for _, v := range ch {
			p = math.Max(p, math.Abs(float64(v)))
		}
	}
	return p
}

func TestSilentWithoutSnaps(t *testing.T) {
	s := NewSnapper()
	out := buffers()
	s.Process(out)
	if p := peak(out); p != 0 {
		t.Errorf("expected silence, peak %g", p)
	}
}

func TestSnapRingsAndDecays(t *testing.T) {
	s := NewSnapper()
	s.Snap(2)
	if s.Voices() != 2 {
		t.Fatalf("expected 2 voices, got %d", s.Voices())
	}

	out := buffers()
	s.Process(out)
	if peak(out) == 0 {
		t.Fatal("snap produced no sound")
	}
	if bass, mid, high := s.Levels(); bass+mid+high == 0 {
		t.Error("band levels not updated")
	}

	// 0.32s of audio retires every voice
	for i := 0; i < 40; i++ {
		s.Process(buffers())
	}
	if s.Voices() != 0 {
		t.Errorf("voices still ringing: %d", s.Voices())
	}
}

func TestLevelsWhileProcessing(t *testing.T) {
	s := NewSnapper()
	s.Snap(maxVoices)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			s.Process(buffers())
		}
	}()

	for {
		select {
		case <-done:
			if bass, mid, high := s.Levels(); bass+mid+high == 0 {
				t.Error("band levels not updated")
			}
			return
		default:
			bass, mid, high := s.Levels()
			if bass < 0 || mid < 0 || high < 0 {
				t.Fatalf("negative level %g %g %g", bass, mid, high)
			}
		}
	}
}

func TestSnapVoiceLimit(t *testing.T) {
	s := NewSnapper()
	s.Snap(100)
	if s.Voices() != maxVoices {
		t.Errorf("expected %d voices, got %d", maxVoices, s.Voices())
	}
}

func TestOutputClamped(t *testing.T) {
	s := NewSnapper()
	s.Snap(maxVoices)
	out := buffers()
	s.Process(out)
	if p := peak(out); p > 1 {
		t.Errorf("output exceeds full scale: %g", p)
	}
}
