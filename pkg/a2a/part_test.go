package a2a

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilePartEncodesBytes(t *testing.T) {
	part := NewFilePart("report.pdf", "application/pdf", []byte("raw bytes"))

	assert.Equal(t, PartTypeFile, part.Type)
	require.NotNil(t, part.File)
	assert.Equal(t, "report.pdf", *part.File.Name)
	assert.Equal(t, "application/pdf", *part.File.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("raw bytes")), part.File.Bytes)
	assert.Empty(t, part.File.URI)
}

func TestNewFileURIPartCarriesReferenceOnly(t *testing.T) {
	part := NewFileURIPart("photo.png", "image/png", "https://cdn.test/photo.png")

	require.NotNil(t, part.File)
	assert.Equal(t, "https://cdn.test/photo.png", part.File.URI)
	assert.Empty(t, part.File.Bytes)
}

func TestNewFileMessage(t *testing.T) {
	file := NewFilePart("notes.txt", "text/plain", []byte("hello")).File
	msg := NewFileMessage(RoleUser, file)

	require.Len(t, msg.Parts, 1)
	assert.Equal(t, PartTypeFile, msg.Parts[0].Type)
	assert.Same(t, file, msg.Parts[0].File)

	// File messages carry no text.
	assert.Equal(t, "", msg.Text())
}

func TestNewFileArtifact(t *testing.T) {
	artifact := NewFileArtifact("render", "image/png", "aW1hZ2U=")

	assert.Equal(t, "render", *artifact.Name)
	require.Len(t, artifact.Parts, 1)
	assert.Equal(t, "image/png", *artifact.Parts[0].File.MimeType)
	assert.Equal(t, "aW1hZ2U=", artifact.Parts[0].File.Bytes)
	assert.Equal(t, "", artifact.Text())
}

func TestNormalizeFilePartWire(t *testing.T) {
	wire := []byte(`{
		"role": "agent",
		"message_id": "m1",
		"parts": [
			{"type": "file", "file": {"name": "photo.png", "mime_type": "image/png", "uri": "https://cdn.test/photo.png"}}
		]
	}`)

	var msg Message
	require.NoError(t, json.Unmarshal(Normalize(wire), &msg))

	assert.Equal(t, "m1", msg.MessageID)
	require.Len(t, msg.Parts, 1)
	require.NotNil(t, msg.Parts[0].File)
	assert.Equal(t, "image/png", *msg.Parts[0].File.MimeType)
	assert.Equal(t, "https://cdn.test/photo.png", msg.Parts[0].File.URI)
}
