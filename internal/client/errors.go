package client

import (
	"errors"
	"os"
)

// ErrFileExists indicates a download target file is already present and
// the operation was not forced. The batch stops at the first collision.
var ErrFileExists = errors.New("file already exists")

// IsFileExistsError checks if an error indicates a collision with an
// existing output file, either our own sentinel or an os-level EEXIST.
func IsFileExistsError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrFileExists) || errors.Is(err, os.ErrExist)
}
