package raw565

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
)

// writeIfDifferent writes b to file unless the file already has exactly
// that content, so its modification time only moves when the output does.
func writeIfDifferent(file string, b []byte) (bool, error) {
	old, err := ioutil.ReadFile(file)
	switch {
	case err == nil && bytes.Equal(old, b):
		return false, nil
	case err != nil && !os.IsNotExist(err):
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return false, err
	}
	if err := ioutil.WriteFile(file, b, 0644); err != nil {
		return false, err
	}
	return true, nil
}
