// Package archive persists finished chat lines. Recording is fire and
// forget: a failing recorder logs locally and never interrupts relay.
package archive

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

type Recorder interface {
	Record(line string)
}

// Nop discards every line. Used when transcript recording is disabled.
type Nop struct{}

func (Nop) Record(string) {}

// FileRecorder appends timestamped lines to a transcript file.
type FileRecorder struct {
	mu   sync.Mutex
	file *os.File
}

func NewFileRecorder(path string) (*FileRecorder, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open transcript %s: %w", path, err)
	}
	return &FileRecorder{file: file}, nil
}

func (r *FileRecorder) Record(line string) {
	stamped := fmt.Sprintf("%s - %s\n", time.Now().Format("15:04:05"), line)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.file.WriteString(stamped); err != nil {
		log.Printf("Error writing transcript line: %v", err)
	}
}

func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}

// Multi fans each line out to every given recorder.
func Multi(recorders ...Recorder) Recorder {
	return multiRecorder(recorders)
}

type multiRecorder []Recorder

func (m multiRecorder) Record(line string) {
	for _, recorder := range m {
		recorder.Record(line)
	}
}
