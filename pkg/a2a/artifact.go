package a2a

import "strings"

/*
Artifact is a finished output fragment attached to a task.  Long outputs may
arrive as ordered chunks: Index orders the fragments, Append marks a chunk
that concatenates to the previous fragment and LastChunk marks the final
fragment for this artifact.
*/
type Artifact struct {
	ArtifactID  string         `json:"artifactId,omitempty"`
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Parts       []Part         `json:"parts"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Index       int            `json:"index,omitempty"`
	Append      *bool          `json:"append,omitempty"`
	LastChunk   *bool          `json:"lastChunk,omitempty"`
}

func NewTextArtifact(name string, text string) Artifact {
	return Artifact{
		Name: &name,
		Parts: []Part{
			{Type: PartTypeText, Text: text},
		},
	}
}

func NewFileArtifact(name string, mimeType string, data string) Artifact {
	return Artifact{
		Name: &name,
		Parts: []Part{
			{
				Type: PartTypeFile,
				File: &FilePart{
					MimeType: &mimeType,
					Bytes:    data,
				},
			},
		},
	}
}

// Text concatenates every text part of the artifact in part order.
func (artifact *Artifact) Text() string {
	var sb strings.Builder

	for _, part := range artifact.Parts {
		if part.Type == PartTypeText {
			sb.WriteString(part.Text)
		}
	}

	return sb.String()
}

// IsLastChunk reports whether this fragment closes the artifact.
func (artifact *Artifact) IsLastChunk() bool {
	return artifact.LastChunk != nil && *artifact.LastChunk
}
