package aichat

import "errors"

// Kind is a flat error code reported by the session store and the completion
// exchange. Kind values implement error, so they can be returned directly or
// wrapped with extra detail and matched with errors.Is.
type Kind int

const (
	ErrSessionFull                 Kind = 1
	ErrSessionBufferFull           Kind = 2
	ErrInvalidCharacters           Kind = 3 // reserved
	ErrNotImplemented              Kind = 4 // reserved
	ErrSessionNoMessages           Kind = 6
	ErrSessionLastMessageAssistant Kind = 7
	ErrJSONParse                   Kind = 8
	ErrAPIError                    Kind = 9
	ErrAPIResponse                 Kind = 10
	ErrIO                          Kind = 11
	ErrMemory                      Kind = 14 // reserved
)

func (k Kind) Error() string {
	switch k {
	case ErrSessionFull:
		return "reached internal limit of messages in session"
	case ErrSessionBufferFull:
		return "reached internal limit of combined length of messages in session"
	case ErrInvalidCharacters:
		return "message contains invalid characters"
	case ErrNotImplemented:
		return "not implemented"
	case ErrSessionNoMessages:
		return "session has no messages"
	case ErrSessionLastMessageAssistant:
		return "last message in session is already from the assistant"
	case ErrJSONParse:
		return "failed to parse JSON"
	case ErrAPIError:
		return "API returned an error"
	case ErrAPIResponse:
		return "API returned an unexpected response"
	case ErrIO:
		return "I/O error"
	case ErrMemory:
		return "memory allocation error"
	default:
		return "unknown error"
	}
}

// KindOf returns the Kind carried by err, or 0 if err is nil or did not
// originate in this package.
func KindOf(err error) Kind {
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return 0
}
