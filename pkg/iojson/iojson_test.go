package iojson

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, payload{Name: "Dana", Email: "dana@example.com"}))

	assert.Equal(t, "{\n  \"name\": \"Dana\",\n  \"email\": \"dana@example.com\"\n}\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteWith_unencodable(t *testing.T) {
	var out, errOut bytes.Buffer
	err := WriteWith(&out, &errOut, map[string]any{"ch": make(chan int)})
	require.Error(t, err)

	assert.Empty(t, out.String())
	var doc Error
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &doc))
	assert.Equal(t, "cannot encode output", doc.Message)
	assert.Contains(t, doc.Data, "json_error")
}

func TestMarshalError_fallback(t *testing.T) {
	out := MarshalError(`bad "input"`, map[string]any{"fn": func() {}})

	var doc Error
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, `bad "input"`, doc.Message)
	assert.Contains(t, doc.Data, "json_error")
}

func TestFileReader_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"Dana","email":"dana@example.com"}`), 0o600))

	fr := FileReader[payload]{path: path, IsTerminal: func() bool { return true }}
	assert.True(t, fr.Provided())

	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "Dana", Email: "dana@example.com"}, got)
}

func TestFileReader_stdin(t *testing.T) {
	fr := FileReader[payload]{
		Stdin:      strings.NewReader(`{"name":"Sam"}`),
		IsTerminal: func() bool { return false },
	}
	assert.True(t, fr.Provided())

	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, "Sam", got.Name)
}

func TestFileReader_terminalWithoutFile(t *testing.T) {
	fr := FileReader[payload]{IsTerminal: func() bool { return true }}
	assert.False(t, fr.Provided())

	_, err := fr.Read()
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestFileReader_unknownField(t *testing.T) {
	fr := FileReader[payload]{
		Stdin:      strings.NewReader(`{"name":"Sam","nmae":"typo"}`),
		IsTerminal: func() bool { return false },
	}

	_, err := fr.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode JSON")
}

func TestFileReader_Flag(t *testing.T) {
	fr := FileReader[payload]{}
	flag := fr.Flag()
	assert.Equal(t, "file", flag.Name)
	assert.Equal(t, []string{"f"}, flag.Aliases)
}
