//go:build !windows

package envstore

import (
	"os"

	"github.com/spf13/afero"
)

// Default returns the platform store: a YAML file seeded from the launching
// PATH outside Windows.
func Default() Store {
	return NewFile(afero.NewOsFs(), DefaultFilePath(), os.Getenv("PATH"))
}
