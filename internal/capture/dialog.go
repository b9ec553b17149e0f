package capture

import (
	"errors"

	"github.com/ncruces/zenity"
)

// SelectFile shows a native file dialog for an audio file. It returns an
// empty path and no error when the user cancels.
func SelectFile() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Capture Source"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", err
	}
	return filename, nil
}
