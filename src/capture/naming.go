package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"snap-mosaic/src/config"
)

// Naming describes where and under which name the next image is written.
type Naming struct {
	Dir        string
	Prefix     string
	SuffixType string
	Ext        string
	Counter    int
}

func namingFrom(s config.Settings) Naming {
	return Naming{
		Dir:        s.AutoSaveLocation,
		Prefix:     s.AutoSavePrefix,
		SuffixType: s.AutoSaveSuffixType,
		Ext:        s.Extension(),
		Counter:    s.AutoSaveNumericCounter,
	}
}

// Resolve picks a path that does not exist yet. For numeric naming it also
// returns the counter value used; the caller persists used+1 after a successful write.
func (n Naming) Resolve(now time.Time, exists func(string) bool) (path string, used int) {
	if exists == nil {
		exists = fileExists
	}
	if n.SuffixType == config.SuffixNumeric {
		c := n.Counter
		if c < 1 {
			c = 1
		}
		for {
			p := filepath.Join(n.Dir, fmt.Sprintf("%s-%04d.%s", n.Prefix, c, n.Ext))
			if !exists(p) {
				return p, c
			}
			c++
		}
	}

	stamp := fmt.Sprintf("%s_%03d", now.Format("20060102_150405"), now.Nanosecond()/int(time.Millisecond))
	base := fmt.Sprintf("%s-%s", n.Prefix, stamp)
	p := filepath.Join(n.Dir, base+"."+n.Ext)
	for i := 2; exists(p); i++ {
		p = filepath.Join(n.Dir, fmt.Sprintf("%s-%d.%s", base, i, n.Ext))
	}
	return p, 0
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
