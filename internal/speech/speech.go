package speech

import "github.com/pkruk/flashdeck/internal/logger"

// Speaker vocalizes text. Implementations are fire-and-forget: calls
// must return immediately and no result is consumed by the core.
type Speaker interface {
	Speak(text string)
}

type silent struct{}

func (silent) Speak(string) {}

// Silent returns a Speaker that does nothing.
func Silent() Speaker {
	return silent{}
}

type logSpeaker struct {
	log *logger.Logger
}

func (s logSpeaker) Speak(text string) {
	s.log.Debug("speak: %q", text)
}

// NewLogSpeaker returns a Speaker that only logs its input. Actual
// text-to-speech happens in the client; this keeps the collaborator
// call observable on the server.
func NewLogSpeaker() Speaker {
	return logSpeaker{log: logger.Default().WithPrefix("speech")}
}
