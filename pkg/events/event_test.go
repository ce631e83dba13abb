package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequirementsWritten(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		category string
		wantType string
		wantCat  bool
	}{
		{"replace without category", "replace", "", RequirementsReplaced, false},
		{"append with category", "append", "security", RequirementsAppended, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewRequirementsWritten("p1", tt.mode, tt.category, 3)
			assert.Equal(t, tt.wantType, e.EventType())
			assert.Equal(t, 3, e.Payload()["count"])
			_, hasCat := e.Payload()["category"]
			assert.Equal(t, tt.wantCat, hasCat)
		})
	}
}

func TestDecode_RejectsUntyped(t *testing.T) {
	_, err := Decode([]byte(`{"data":{}}`))
	require.Error(t, err)

	_, err = Decode([]byte(`not json`))
	require.Error(t, err)
}

func TestEncodeDecode_StageChanged(t *testing.T) {
	raw, err := Encode(NewStageChanged("p1", "init", "software_questions", "es"))
	require.NoError(t, err)

	e, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, StageChanged, e.Type)
	assert.Equal(t, "software_questions", e.Data["to"])
	assert.False(t, e.OccurredAt.IsZero())
}
