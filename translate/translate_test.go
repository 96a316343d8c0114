package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	defer SetLanguage(language.AmericanEnglish)

	table := [](struct {
		tag      language.Tag
		expected string
	}){
		{language.AmericanEnglish, "line 1,234: 00ff"},
		{language.German, "line 1.234: 00ff"},
	}

	for _, entry := range table {
		SetLanguage(entry.tag)
		assert.Equal(entry.expected, From("line %d: %04x", 1234, 0xff), entry.tag.String())
	}
}
