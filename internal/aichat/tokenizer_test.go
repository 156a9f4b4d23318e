package aichat

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validDocuments = []string{
	`{}`,
	`[]`,
	`""`,
	`0`,
	`-0`,
	`12.5e-3`,
	`1E+9`,
	`true`,
	`false`,
	`null`,
	` { "a" : [ 1 , 2.0 , -3 ] , "b" : { } } `,
	`{"s":"esc \" \\ \/ \b \f \n \r \t é 🙂"}`,
	`[[[[[]]]]]`,
	`{"id":"chatcmpl-1","choices":[{"index":0,"message":{"role":"assistant","content":"Hello!"},"finish_reason":"stop"}],"usage":{"prompt_tokens":5,"completion_tokens":2,"total_tokens":7}}`,
	"{\n\t\"utf8\": \"héllo 🙂\"\r\n}\n",
}

var invalidDocuments = []string{
	`{`,
	`}`,
	`[1,]`,
	`{"a":1,}`,
	`{"a"}`,
	`{a:1}`,
	`{"a":1 "b":2}`,
	`01`,
	`-`,
	`1.`,
	`1e`,
	`.5`,
	`tru`,
	`nul1`,
	`"unterminated`,
	"\"ctrl \x01 char\"",
	`"\x"`,
	`"\u12G4"`,
	`{} {}`,
	`[1] x`,
	`<html>`,
}

func feedAll(input string) (*tokenizer, error) {
	tok := newTokenizer()
	err := tok.Feed([]byte(input))
	return tok, err
}

func TestTokenizer_Accepts(t *testing.T) {
	for _, doc := range validDocuments {
		tok, err := feedAll(doc + "\n")
		require.NoError(t, err, "input %q", doc)
		assert.True(t, tok.Complete(), "input %q should be complete", doc)
	}
}

func TestTokenizer_Rejects(t *testing.T) {
	for _, doc := range invalidDocuments {
		tok, err := feedAll(doc)
		if err == nil {
			// Truncated input is not an error until the caller sees the body end.
			assert.False(t, tok.Complete(), "input %q should not be complete", doc)
			continue
		}
		var syntaxErr *SyntaxError
		assert.True(t, errors.As(err, &syntaxErr), "input %q: got %T", doc, err)
		assert.False(t, tok.Complete())
	}
}

func TestTokenizer_NumberAtTopLevelIsCompleteOnlyAfterDelimiter(t *testing.T) {
	tok := newTokenizer()
	require.NoError(t, tok.Feed([]byte("123")))
	assert.False(t, tok.Complete())
	require.NoError(t, tok.Feed([]byte(" ")))
	assert.True(t, tok.Complete())
}

func TestTokenizer_SplitInvariance(t *testing.T) {
	for _, doc := range validDocuments {
		// A bare top-level number is only complete once a delimiter follows.
		input := doc + " "
		for i := 0; i <= len(input); i++ {
			tok := newTokenizer()
			require.NoError(t, tok.Feed([]byte(input[:i])), "input %q split at %d", doc, i)
			require.NoError(t, tok.Feed([]byte(input[i:])), "input %q split at %d", doc, i)
			require.True(t, tok.Complete(), "input %q split at %d", doc, i)
		}
	}
}

func TestTokenizer_ErrorOffsetAndStickiness(t *testing.T) {
	tok := newTokenizer()
	require.NoError(t, tok.Feed([]byte(`{"a":`)))
	err := tok.Feed([]byte(`]`))

	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, int64(5), syntaxErr.Offset)

	assert.Equal(t, err, tok.Feed([]byte(`1}`)))
	assert.False(t, tok.Complete())
}

func TestTokenizer_NestingLimit(t *testing.T) {
	_, err := feedAll(strings.Repeat("[", maxNestingDepth+1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting depth")

	tok, err := feedAll(strings.Repeat("[", maxNestingDepth) + strings.Repeat("]", maxNestingDepth))
	require.NoError(t, err)
	assert.True(t, tok.Complete())
}
