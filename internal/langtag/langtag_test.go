package langtag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlternate(t *testing.T) {
	assert.Equal(t, "en-US", Alternate("en_US"))
	assert.Equal(t, "en_US", Alternate("en-US"))
	assert.Equal(t, "de", Alternate("de"))
}

func TestForms(t *testing.T) {
	assert.Equal(t, []string{"en_US", "en-US"}, Forms("en_US"))
	assert.Equal(t, []string{"fr"}, Forms("fr"))
}

func TestSame(t *testing.T) {
	assert.True(t, Same("en_US", "en-US"))
	assert.True(t, Same("en_us", "EN_US"))
	assert.False(t, Same("en_US", "en_GB"))
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "en-US", Canonical("en_us"))
	assert.Equal(t, "pt-BR", Canonical("pt-br"))
	assert.Equal(t, "en_US", Underscore("en-us"))
	assert.Equal(t, "en", Base("en_US"))
}

func TestBest(t *testing.T) {
	available := []string{"de_DE", "en_US", "fr_FR"}
	assert.Equal(t, "en_US", Best([]string{"en-US"}, available))
	assert.Equal(t, "fr_FR", Best([]string{"fr-CA", "en"}, available))
	assert.Equal(t, "", Best([]string{"ja-JP"}, available))
	assert.Equal(t, "", Best([]string{"en"}, nil))
}
