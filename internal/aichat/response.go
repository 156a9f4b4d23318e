package aichat

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
)

// Signal tells a transport whether to keep delivering the response body.
type Signal int

const (
	Continue Signal = iota
	Stop
)

// ChunkSink consumes a response body as it arrives.
type ChunkSink interface {
	Consume(chunk []byte) Signal
}

// Result is what a completed exchange produced.
type Result struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

type parseState int

const (
	stateAwaitingData parseState = iota
	stateParsing
	stateComplete
	stateFailed
)

func (s parseState) String() string {
	switch s {
	case stateAwaitingData:
		return "awaiting-data"
	case stateParsing:
		return "parsing"
	case stateComplete:
		return "complete"
	default:
		return "failed"
	}
}

// responseParser accumulates a chunked response body, checking its syntax on
// every chunk so that a malformed body stops the transport early.
type responseParser struct {
	state parseState
	tok   *tokenizer
	body  bytes.Buffer
	err   error
}

func newResponseParser() *responseParser {
	return &responseParser{state: stateAwaitingData, tok: newTokenizer()}
}

// Consume implements ChunkSink.
func (p *responseParser) Consume(chunk []byte) Signal {
	if p.state == stateFailed {
		return Stop
	}
	if len(chunk) == 0 {
		return Continue
	}
	if p.state == stateAwaitingData {
		p.state = stateParsing
	}
	p.body.Write(chunk)

	if err := p.tok.Feed(chunk); err != nil {
		p.state = stateFailed
		p.err = err
		return Stop
	}
	if p.tok.Complete() {
		p.state = stateComplete
	}
	return Continue
}

// Finish resolves the parsed body into a Result.
func (p *responseParser) Finish() (Result, error) {
	switch p.state {
	case stateFailed:
		return Result{}, fmt.Errorf("%w: %v", ErrJSONParse, p.err)
	case stateAwaitingData:
		return Result{}, fmt.Errorf("%w: empty response body", ErrJSONParse)
	case stateParsing:
		return Result{}, fmt.Errorf("%w: truncated response body (%d bytes)", ErrJSONParse, p.body.Len())
	}
	return resolve(gjson.ParseBytes(p.body.Bytes()))
}

func resolve(doc gjson.Result) (Result, error) {
	if apiErr := doc.Get("error"); apiErr.Exists() {
		msg := apiErr.Get("message").String()
		if msg == "" {
			msg = apiErr.Raw
		}
		return Result{}, fmt.Errorf("%w: %s", ErrAPIError, msg)
	}

	var res Result
	if usage := doc.Get("usage"); usage.Exists() {
		res.PromptTokens = int(usage.Get("prompt_tokens").Int())
		res.CompletionTokens = int(usage.Get("completion_tokens").Int())
	}

	choices := doc.Get("choices")
	if !choices.IsArray() {
		return res, fmt.Errorf("%w: choices is not an array", ErrAPIResponse)
	}
	message := choices.Get("0.message")
	if !message.IsObject() {
		return res, fmt.Errorf("%w: no choices[0].message", ErrAPIResponse)
	}
	content := message.Get("content")
	if content.Type != gjson.String {
		return res, fmt.Errorf("%w: no choices[0].message.content", ErrAPIResponse)
	}
	res.Content = content.String()
	return res, nil
}

// ParseResponse runs a complete, in-memory response body through the same
// parser the exchange uses.
func ParseResponse(body []byte) (Result, error) {
	p := newResponseParser()
	p.Consume(body)
	return p.Finish()
}
