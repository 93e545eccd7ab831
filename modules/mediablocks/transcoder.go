package mediablocks

import (
	"bytes"
	"context"
	"fmt"
	"sync"
)

// App is the adapter name media blocks request from the execution context.
const App = "media"

// Info is the result of probing a media payload.
type Info struct {
	Format    string
	SizeBytes int
}

// Job describes a submitted transcode.
type Job struct {
	ID     string
	Format string
	Size   int
}

// Transcoder is the media capability. Implementations must be safe for
// concurrent use.
type Transcoder interface {
	Probe(ctx context.Context, data []byte) (Info, error)
	Transcode(ctx context.Context, data []byte, format string) (Job, error)
}

// FakeTranscoder records transcode jobs and returns deterministic
// descriptors. It backs the adapter when no real transcoder is attached,
// and tests inspect its log.
type FakeTranscoder struct {
	mu   sync.Mutex
	next int
	jobs []Job
}

// NewFakeTranscoder creates an empty fake.
func NewFakeTranscoder() *FakeTranscoder {
	return &FakeTranscoder{}
}

func (f *FakeTranscoder) Probe(_ context.Context, data []byte) (Info, error) {
	return Info{Format: sniffFormat(data), SizeBytes: len(data)}, nil
}

func (f *FakeTranscoder) Transcode(_ context.Context, data []byte, format string) (Job, error) {
	if format == "" {
		return Job{}, fmt.Errorf("target format must not be empty")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	job := Job{ID: fmt.Sprintf("job%d", f.next), Format: format, Size: len(data)}
	f.next++
	f.jobs = append(f.jobs, job)
	return job, nil
}

// Jobs returns a copy of the recorded job log.
func (f *FakeTranscoder) Jobs() []Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Job(nil), f.jobs...)
}

// sniffFormat guesses a payload format from well-known magic bytes.
func sniffFormat(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG")):
		return "png"
	case bytes.HasPrefix(data, []byte("ID3")):
		return "mp3"
	case bytes.HasPrefix(data, []byte("RIFF")):
		return "wav"
	default:
		return "bin"
	}
}
