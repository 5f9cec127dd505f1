package logging

import (
	"os"
	"sync"
)

// cappedLogFile appends to a single log file and truncates it in place
// once the next write would push it past the cap. No rotation, no
// sidecar files; the service is expected to ship logs off-host anyway.
type cappedLogFile struct {
	path  string
	limit int64

	mu   sync.Mutex
	file *os.File
	size int64
}

func openCappedLogFile(path string, maxMB int) (*cappedLogFile, error) {
	if maxMB <= 0 {
		maxMB = 10
	}
	f, size, err := appendFile(path)
	if err != nil {
		return nil, err
	}
	return &cappedLogFile{
		path:  path,
		limit: int64(maxMB) << 20,
		file:  f,
		size:  size,
	}, nil
}

func (w *cappedLogFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		f, size, err := appendFile(w.path)
		if err != nil {
			return 0, err
		}
		w.file, w.size = f, size
	}
	if w.size+int64(len(p)) > w.limit {
		if err := w.reset(); err != nil {
			return 0, err
		}
	}
	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *cappedLogFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// reset reopens the file truncated. The old handle is closed best-effort;
// a failed close must not wedge logging.
func (w *cappedLogFile) reset() error {
	if w.file != nil {
		_ = w.file.Close()
	}
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.file, w.size = f, 0
	return nil
}

func appendFile(path string) (*os.File, int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}
