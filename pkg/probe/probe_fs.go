package probe

import (
	"os"
)

type filesystemProbe struct {
	path string
}

func NewFilesystemProbe(path string) *filesystemProbe {
	return &filesystemProbe{path: path}
}

func (f *filesystemProbe) Exec() error {
	_, err := os.ReadDir(f.path)
	return err
}
