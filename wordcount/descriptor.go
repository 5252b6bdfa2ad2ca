package wordcount

import "github.com/machinefabric/flownode-go/manifest"

// Descriptor builds the plugin's capability descriptor: identity, the
// word-count node declaration with its schemas, and declared resource limits.
// Pure and deterministic; callable any number of times.
func Descriptor() *manifest.Metadata {
	return manifest.New("word-counter", "1.0.0", "Word counting and analysis plugin").
		WithAuthor("Machine Fabric").
		WithLicense("MIT").
		WithBinary("plugin.wasm").
		WithNode(manifest.NodeDefinition{
			Type:         NodeType,
			Category:     "text",
			Description:  "Count words and analyze text statistics",
			ConfigSchema: configSchema(),
			InputSchema:  inputSchema(),
			OutputSchema: outputSchema(),
		}).
		WithPermissions(manifest.Permissions{
			Memory:  "5MB",
			Timeout: 3000,
		}).
		WithRequirements(manifest.Requirements{
			Host: ">=1.0.0",
		})
}

func configSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"min_word_length": map[string]interface{}{
				"type":        "integer",
				"default":     1,
				"minimum":     1,
				"description": "Minimum word length to count",
			},
			"stop_words": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Words to exclude from counting",
			},
		},
	}
}

func inputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"text": map[string]interface{}{
				"type":        "string",
				"minLength":   1,
				"description": "Text to analyze",
			},
			"case_sensitive": map[string]interface{}{
				"type":        "boolean",
				"default":     false,
				"description": "Whether to treat words case-sensitively",
			},
		},
		"required": []interface{}{"text"},
	}
}

func outputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"total_words":  map[string]interface{}{"type": "integer"},
			"unique_words": map[string]interface{}{"type": "integer"},
			"word_frequencies": map[string]interface{}{
				"type":                 "object",
				"additionalProperties": map[string]interface{}{"type": "integer"},
			},
			"average_word_length": map[string]interface{}{"type": "number"},
			"longest_word":        map[string]interface{}{"type": "string"},
			"shortest_word":       map[string]interface{}{"type": "string"},
		},
		"required": []interface{}{
			"total_words", "unique_words", "word_frequencies",
			"average_word_length", "longest_word", "shortest_word",
		},
	}
}
