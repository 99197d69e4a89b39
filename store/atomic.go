package store

import (
	"fmt"
	"os"
	"path/filepath"
)

const tmpSuffix = ".tmp"

// rename is swapped in tests to simulate a crash between write and commit.
var rename = os.Rename

// writeFileAtomic replaces path with data. The content is first written and
// synced to path+".tmp", then renamed over path. The temporary file is removed
// if any step fails, leaving path untouched.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	tmp := path + tmpSuffix
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("cannot create %q: %w", tmp, err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %q: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("cannot sync %q: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot close %q: %w", tmp, err)
	}
	if err := rename(tmp, path); err != nil {
		return fmt.Errorf("cannot rename %q: %w", tmp, err)
	}

	// Persist the rename itself. Some filesystems do not support syncing a
	// directory, the file content is already durable at this point.
	syncDir(filepath.Dir(path))
	return nil
}

func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	d.Sync()
	d.Close()
}
