package tts

import "context"

type SpeechClient interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
