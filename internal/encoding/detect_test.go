package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/encoding"
)

// Windows-1252 encoded `[{"category":"Alimentação"}]`.
var cp1252JSON = []byte{
	'[', '{', '"', 'c', 'a', 't', 'e', 'g', 'o', 'r', 'y', '"', ':', '"',
	'A', 'l', 'i', 'm', 'e', 'n', 't', 'a', 0xE7, 0xE3, 'o', '"', '}', ']',
}

func TestToUTF8(t *testing.T) {
	type testCase struct {
		name  string
		input []byte
		want  string
	}

	tests := []testCase{
		{
			name:  "UTF8Passthrough",
			input: []byte(`[{"category":"Saúde"}]`),
			want:  `[{"category":"Saúde"}]`,
		},
		{
			name:  "UTF8BOMStripped",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"theme":"dark"}`)...),
			want:  `{"theme":"dark"}`,
		},
		{
			name:  "Windows1252",
			input: cp1252JSON,
			want:  `[{"category":"Alimentação"}]`,
		},
		{
			name:  "UTF16LE",
			input: []byte{0xFF, 0xFE, '[', 0x00, ']', 0x00},
			want:  `[]`,
		},
		{
			name:  "Empty",
			input: []byte{},
			want:  ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encoding.ToUTF8(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNewUTF8Reader_Latin1(t *testing.T) {
	latin1 := []byte{
		'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', ';',
		'M', 'o', 'n', 't', 'a', 'n', 't', 'e', '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(latin1))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Descrição;Montante\n", string(got))
}

func TestNewUTF8Reader_BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Data mov.;Descrição\n")...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Data mov.;Descrição\n", string(got))
}
