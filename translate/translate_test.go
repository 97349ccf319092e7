package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("line 3 oops", From("line %d %v", 3, "oops"))
	assert.Equal("plain", From("plain"))
	assert.NotEqual(language.Und, Language())
}
