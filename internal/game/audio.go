package game

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"

	"github.com/iburimskiy/galaxy-visualization/internal/config"
)

// levelWindow is how many recent samples the pulse is measured over.
const levelWindow = 1024

// soundtrack loops one audio file in the background.
type soundtrack struct {
	path     string
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *tap

	paused   bool
	initDone bool
}

// decode opens path and picks a decoder from its extension. The returned
// streamer owns the file.
func decode(path string) (beep.StreamSeekCloser, beep.Format, *os.File, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var dec func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)
	switch ext {
	case ".wav":
		dec = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }
	case ".mp3":
		dec = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }
	case ".flac":
		dec = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) }
	default:
		return nil, beep.Format{}, nil, errors.Errorf("unsupported file type: %q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, nil, errors.Wrap(err, "open soundtrack")
	}
	streamer, format, err := dec(f)
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, nil, errors.Wrapf(err, "decode %s", filepath.Base(path))
	}
	return streamer, format, f, nil
}

// load replaces whatever is playing with path, looped forever.
func (s *soundtrack) load(path string) error {
	streamer, format, f, err := decode(path)
	if err != nil {
		return err
	}

	t := newTap(beep.Loop(-1, streamer), config.TapRingSize)
	ctrl := &beep.Ctrl{Streamer: t, Paused: false}

	bufferSize := format.SampleRate.N(time.Second / 20)
	switch {
	case !s.initDone:
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return errors.Wrap(err, "init speaker")
		}
		s.initDone = true
	case s.format.SampleRate != format.SampleRate:
		speaker.Clear()
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return errors.Wrap(err, "reinit speaker")
		}
	default:
		speaker.Clear()
	}
	s.closeFiles()

	s.path = path
	s.file = f
	s.streamer = streamer
	s.format = format
	s.ctrl = ctrl
	s.tap = t
	s.paused = false

	speaker.Play(ctrl)
	return nil
}

func (s *soundtrack) loaded() bool { return s.ctrl != nil }

func (s *soundtrack) togglePause() {
	if s.ctrl == nil {
		return
	}
	speaker.Lock()
	s.paused = !s.paused
	s.ctrl.Paused = s.paused
	speaker.Unlock()
}

// level is the current loudness in [0, 1]; zero while paused.
func (s *soundtrack) level() float64 {
	if s.tap == nil || s.paused {
		return 0
	}
	return s.tap.level(levelWindow)
}

// position returns the playback offset within the current loop.
func (s *soundtrack) position() time.Duration {
	if s.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := s.streamer.Position()
	speaker.Unlock()
	return s.format.SampleRate.D(pos)
}

func (s *soundtrack) length() time.Duration {
	if s.streamer == nil {
		return 0
	}
	return s.format.SampleRate.D(s.streamer.Len())
}

func (s *soundtrack) closeFiles() {
	if s.streamer != nil {
		_ = s.streamer.Close()
		s.streamer = nil
	}
	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}
}

func (s *soundtrack) close() {
	if s.initDone {
		speaker.Clear()
	}
	s.closeFiles()
	s.ctrl = nil
	s.tap = nil
}
