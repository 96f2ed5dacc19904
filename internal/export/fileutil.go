package export

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// WriteFile writes data to path through a temp file and a rename, so
// readers never see a partial document.
func WriteFile(path string, data []byte) error {
	return writeFileAtomically(path, bytes.NewReader(data))
}

func writeFileAtomically(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
