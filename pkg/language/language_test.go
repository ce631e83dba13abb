package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		previous string
		fallback string
		want     string
	}{
		{name: "explicit wins", explicit: "en", previous: "es", want: "en"},
		{name: "explicit is trimmed", explicit: "  fr \n", want: "fr"},
		{name: "blank explicit uses previous", explicit: "   ", previous: "en", want: "en"},
		{name: "no previous uses fallback", fallback: "en", want: "en"},
		{name: "nothing uses default", want: "es"},
		{name: "blank fallback uses default", fallback: "  ", want: "es"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.explicit, tt.previous, tt.fallback))
		})
	}
}

func TestIsSpanish(t *testing.T) {
	assert.True(t, IsSpanish("es"))
	assert.True(t, IsSpanish("ES-mx"))
	assert.True(t, IsSpanish("español"))
	assert.False(t, IsSpanish("en"))
	assert.False(t, IsSpanish(""))
	assert.False(t, IsSpanish("spanish"))
}
