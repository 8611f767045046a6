package interfaces

import "context"

// Transcriber converts a voice recording to text. Implementations receive
// the raw audio bytes and the original file name, whose extension hints at
// the container format.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}
