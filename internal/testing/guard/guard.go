// Package guard forces test mode for packages whose tests must never start
// the real runtime. Import it for side effects from _test files.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("PULSE_TEST_MODE") == "" {
			_ = os.Setenv("PULSE_TEST_MODE", "1")
		}
	})
}
