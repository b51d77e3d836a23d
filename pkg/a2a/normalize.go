package a2a

import "encoding/json"

// Alias map for inbound records.  Some bindu deployments emit snake_case
// field names; every record is rewritten to the canonical camelCase shape
// at the transport boundary so nothing deeper ever branches on spelling.
var fieldAliases = map[string]string{
	"task_id":            "taskId",
	"context_id":         "contextId",
	"message_id":         "messageId",
	"reference_task_ids": "referenceTaskIds",
	"artifact_id":        "artifactId",
	"last_chunk":         "lastChunk",
	"mime_type":          "mimeType",
	"last_activity":      "lastActivity",
	"task_ids":           "taskIds",
}

/*
Normalize rewrites a raw JSON document so that every aliased field name
appears in its canonical spelling.  The canonical key wins when both
spellings are present.  Invalid JSON is returned unchanged; the subsequent
decode reports the real error.
*/
func Normalize(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return raw
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return raw
	}

	normalized := normalizeValue(doc)

	out, err := json.Marshal(normalized)
	if err != nil {
		return raw
	}

	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			canonical, aliased := fieldAliases[k]
			if !aliased {
				canonical = k
			}
			if _, exists := out[canonical]; aliased && exists {
				continue
			}
			if aliased {
				if _, exists := val[canonical]; exists {
					continue
				}
			}
			out[canonical] = normalizeValue(inner)
		}
		return out
	case []any:
		for i, inner := range val {
			val[i] = normalizeValue(inner)
		}
		return val
	default:
		return v
	}
}
