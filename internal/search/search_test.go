package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	cause := errors.New("connection refused")
	err := &Error{Query: "smart grid", Message: "request failed", Cause: cause}

	assert.Equal(t, `search error for "smart grid": request failed: connection refused`, err.Error())
	assert.ErrorIs(t, err, cause)

	bare := &Error{Query: "", Message: "empty query"}
	assert.Equal(t, `search error for "": empty query`, bare.Error())
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", cleanText("  a\n\tb   c "))
	assert.Equal(t, "fi", cleanText("ﬁ"))
	assert.Equal(t, "", cleanText(" \n "))
}
