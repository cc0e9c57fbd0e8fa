package game

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/ncruces/zenity"
	"github.com/pkg/errors"
)

// pickColor shows the native colour chooser. ok is false when the user
// dismissed it.
func pickColor(title string, current colorful.Color) (colorful.Color, bool, error) {
	c, err := zenity.SelectColor(
		zenity.Title(title),
		zenity.Color(current),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return current, false, nil
		}
		return current, false, errors.Wrap(err, "select color")
	}
	picked, ok := colorful.MakeColor(c)
	if !ok {
		return current, false, nil
	}
	return picked, true, nil
}

// selectSoundtrack asks for an audio file. An empty path means cancelled.
func selectSoundtrack() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Soundtrack"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", errors.Wrap(err, "select soundtrack")
	}
	return filename, nil
}
