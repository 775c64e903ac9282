package inference

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winelog/winelog/internal/common"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, false},
		{"fenced in markdown", "```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"surrounded by prose", `Sure! Here it is: {"a":1} Hope that helps.`, `{"a":1}`, false},
		{"no object", "no json here", "", true},
		{"only opening brace", "{oops", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractJSON(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, common.ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeResponse_WineDescription(t *testing.T) {
	text := "```json\n" + `{"name":"Chateau X","grape":"Merlot","origin":"France","year":"2015","type":"red","alcohol":"13.5"}` + "\n```"

	desc := &WineDescription{}
	require.NoError(t, decodeResponse(text, desc))

	assert.Equal(t, "Chateau X", desc.Name)
	assert.Equal(t, "Merlot", desc.Grape)
	assert.Equal(t, "France", desc.Origin)
	assert.Equal(t, "2015", desc.Year)
	assert.Equal(t, "red", desc.Type)
	assert.Equal(t, "13.5", desc.Alcohol)
}

func TestDecodeResponse_MalformedIsError(t *testing.T) {
	// invalid JSON between the braces must not be silently defaulted
	notes := &TastingNotes{}
	err := decodeResponse(`{"aroma": floral}`, notes)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMalformedResponse))
}

func TestDecodeResponse_TastingNotesScores(t *testing.T) {
	notes := &TastingNotes{}
	require.NoError(t, decodeResponse(
		`{"aroma":"floral","taste":"dry","finish":"long","sweetness":20,"acidity":65,"tannin":70,"body":55}`, notes))

	assert.Equal(t, 20, notes.Sweetness)
	assert.Equal(t, 65, notes.Acidity)
	assert.Equal(t, 70, notes.Tannin)
	assert.Equal(t, 55, notes.Body)
}
