package docindex

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrRootUnusable reports a source root that cannot be walked.
var ErrRootUnusable = errors.New("source root unusable")

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRootUnusable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrRootUnusable, root)
	}
	if err := unix.Access(root, unix.R_OK|unix.X_OK); err != nil {
		return fmt.Errorf("%w: %s is not readable: %w", ErrRootUnusable, root, err)
	}
	return nil
}
