package stream

import (
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/matt-g-everett/bubbletx/indicator"
)

// Streamer drives an Animation in real time and publishes every frame to a
// surface listening on an MQTT topic. It is the live counterpart of a baked
// animated image: the fade in is shown and colours can be changed on the fly.
type Streamer struct {
	publisher Publisher
	topic     string
	frameRate float64
	now       func() time.Time

	mu                  sync.Mutex
	animation           Animation
	nextAnimation       Animation
	transition          float64
	transitionIncrement float64
	started             time.Time
	lastTime            float64
	running             bool
	stop                chan struct{}
	done                chan struct{}
}

// NewStreamer creates an instance of a Streamer. It does nothing until
// Start is called.
func NewStreamer(publisher Publisher, topic string, frameRate float64, transitionSecs float64, animation Animation) *Streamer {
	s := new(Streamer)
	s.publisher = publisher
	s.topic = topic
	s.frameRate = indicator.ResolveFrameRate(frameRate)
	s.now = time.Now
	s.animation = animation

	if transitionSecs > 0 {
		s.transitionIncrement = 1.0 / (s.frameRate * transitionSecs)
	} else {
		s.transitionIncrement = 1.0
	}

	return s
}

// SetAnimation replaces the animation. A running Streamer cross-fades to it.
func (s *Streamer) SetAnimation(a Animation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.animation = a
		s.nextAnimation = nil
		return
	}
	s.nextAnimation = a
	s.transition = 0.0
}

// Running reports whether frames are being published.
func (s *Streamer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start begins publishing frames from the start of the animation, fade in
// included. Starting a running Streamer does nothing.
func (s *Streamer) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.started = s.now()
	s.lastTime = 0
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.run(s.stop, s.done)
}

// Stop stops publishing and publishes an empty frame, so the surface shows
// nothing.
func (s *Streamer) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done

	s.mu.Lock()
	b := s.bounds()
	s.mu.Unlock()

	return s.publish(NewFrame(b.Dx(), b.Dy()))
}

// CalculateFrame draws the frame for t seconds after Start.
func (s *Streamer) CalculateFrame(t float64) *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bounds()
	f := s.draw(s.animation, b, t)
	if s.nextAnimation != nil {
		f2 := s.draw(s.nextAnimation, b, t)
		f = f.InterpolateFrame(f2, s.transition)
		s.transition += s.transitionIncrement

		if s.transition >= 1.0 {
			s.animation = s.nextAnimation
			s.nextAnimation = nil
			s.transition = 0.0
		}
	}

	return f
}

// SendFrame publishes the frame for t seconds after Start.
func (s *Streamer) SendFrame(t float64) error {
	return s.publish(s.CalculateFrame(t))
}

func (s *Streamer) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	publishTimer := time.NewTicker(time.Duration(float64(time.Second) / s.frameRate))
	defer publishTimer.Stop()

	for {
		if err := s.SendFrame(s.elapsed()); err != nil {
			log.Printf("Failed to send frame: %v", err)
		}

		select {
		case <-stop:
			return
		case <-publishTimer.C:
		}
	}
}

// elapsed is the animation time, never running backwards even if the wall
// clock does.
func (s *Streamer) elapsed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now().Sub(s.started).Seconds()
	if t < s.lastTime {
		t = s.lastTime
	}
	s.lastTime = t
	return t
}

// bounds is large enough for the current and the next animation.
func (s *Streamer) bounds() image.Rectangle {
	b := s.animation.Bounds()
	if s.nextAnimation != nil {
		n := s.nextAnimation.Bounds()
		b = image.Rect(0, 0, max(b.Dx(), n.Dx()), max(b.Dy(), n.Dy()))
	}
	return image.Rect(0, 0, b.Dx(), b.Dy())
}

func (s *Streamer) draw(a Animation, b image.Rectangle, t float64) *Frame {
	f := NewFrame(b.Dx(), b.Dy())
	a.DrawForTime(f.RGBA, t)
	return f
}

func (s *Streamer) publish(f *Frame) error {
	data, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	if err := s.publisher.Publish(s.topic, data, false); err != nil {
		return fmt.Errorf("publish frame to %s: %w", s.topic, err)
	}
	return nil
}
