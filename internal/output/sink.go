// Package output stores rendered per-frame images.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Sink receives one encoded image per frame. Implementations must be safe
// for concurrent use.
type Sink interface {
	Write(frame int, data []byte) error
}

// DirSink writes frames to Dir as <Base><frame:04d>.<Ext>.
type DirSink struct {
	Dir  string
	Base string
	Ext  string
}

// Path returns the file a frame is written to.
func (s DirSink) Path(frame int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s%04d.%s", s.Base, frame, s.Ext))
}

// Write creates Dir if needed and writes the frame file.
func (s DirSink) Write(frame int, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(s.Path(frame), data, 0o644); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", frame, err)
	}
	return nil
}

// MemorySink keeps frames in memory. The zero value is ready to use.
type MemorySink struct {
	mu     sync.Mutex
	frames map[int][]byte
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{frames: make(map[int][]byte)}
}

func (s *MemorySink) Write(frame int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frames == nil {
		s.frames = make(map[int][]byte)
	}
	s.frames[frame] = append([]byte(nil), data...)
	return nil
}

// Get returns the data stored for frame.
func (s *MemorySink) Get(frame int) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.frames[frame]
	return data, ok
}

// Len returns the number of stored frames.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}
