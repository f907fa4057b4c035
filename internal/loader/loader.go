// Package loader reads prefix and suffix files that are copied into the output.
package loader

import "os"

// Contents returns the full contents of the file at path, or an empty string
// if it cannot be read. A missing file and an empty file look the same.
func Contents(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

// Check reports whether the file at path can be opened for reading.
func Check(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}
