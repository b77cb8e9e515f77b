package backend

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// responseSchema is a compiled JSON schema for one endpoint's success body.
type responseSchema struct {
	name   string
	schema *gojsonschema.Schema
}

func mustSchema(name string, def map[string]interface{}) *responseSchema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def))
	if err != nil {
		panic(fmt.Sprintf("backend: invalid schema %s: %v", name, err))
	}
	return &responseSchema{name: name, schema: s}
}

func nullable(t string) []string { return []string{t, "null"} }

// Version suffixes change whenever the expected backend shape changes.
var (
	anyObjectV1 = mustSchema("object.v1", map[string]interface{}{
		"type": "object",
	})

	loginV1 = mustSchema("auth.login.v1", map[string]interface{}{
		"type": "object",
		"anyOf": []interface{}{
			map[string]interface{}{"required": []string{"token"}},
			map[string]interface{}{"required": []string{"access_token"}},
			map[string]interface{}{
				"required": []string{"data"},
				"properties": map[string]interface{}{
					"data": map[string]interface{}{
						"type": "object",
						"anyOf": []interface{}{
							map[string]interface{}{"required": []string{"token"}},
							map[string]interface{}{"required": []string{"access_token"}},
						},
					},
				},
			},
		},
	})

	meV1 = mustSchema("auth.me.v1", map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"data": map[string]interface{}{"type": nullable("object")},
			"user": map[string]interface{}{"type": nullable("object")},
		},
	})

	verifyOTPV1 = mustSchema("auth.verify_otp.v1", map[string]interface{}{
		"type":     "object",
		"required": []string{"data"},
		"properties": map[string]interface{}{
			"data": map[string]interface{}{
				"type":     "object",
				"required": []string{"reset_token"},
				"properties": map[string]interface{}{
					"reset_token": map[string]interface{}{"type": "string", "minLength": 1},
				},
			},
		},
	})

	// Member listings are a Laravel paginator under data.
	memberPageV2 = mustSchema("member_page.v2", map[string]interface{}{
		"type":     "object",
		"required": []string{"data"},
		"properties": map[string]interface{}{
			"data": map[string]interface{}{
				"type":     "object",
				"required": []string{"data"},
				"properties": map[string]interface{}{
					"data": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "object"},
					},
					"current_page": map[string]interface{}{"type": []string{"integer", "string", "null"}},
					"last_page":    map[string]interface{}{"type": []string{"integer", "string", "null"}},
					"total":        map[string]interface{}{"type": []string{"integer", "string", "null"}},
				},
			},
		},
	})

	categoriesV2 = mustSchema("categories.v2", map[string]interface{}{
		"type":     "object",
		"required": []string{"data"},
		"properties": map[string]interface{}{
			"data": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "object"},
			},
		},
	})

	memberV1 = mustSchema("member.v1", map[string]interface{}{
		"type":     "object",
		"required": []string{"data"},
		"properties": map[string]interface{}{
			"data": map[string]interface{}{
				"type":     "object",
				"required": []string{"id"},
				"properties": map[string]interface{}{
					"id": map[string]interface{}{"type": []string{"integer", "string"}},
				},
			},
		},
	})

	dataArrayV1 = mustSchema("data_array.v1", map[string]interface{}{
		"type":     "object",
		"required": []string{"data"},
		"properties": map[string]interface{}{
			"data": map[string]interface{}{"type": "array"},
		},
	})

	conferencesV1 = mustSchema("conferences.v1", map[string]interface{}{
		"type":     "object",
		"required": []string{"data"},
		"properties": map[string]interface{}{
			"data": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type":     "object",
					"required": []string{"name", "slug"},
				},
			},
		},
	})

	contactDetailsV1 = mustSchema("contact_details.v1", map[string]interface{}{
		"type":     "object",
		"required": []string{"data"},
		"properties": map[string]interface{}{
			"data": map[string]interface{}{"type": "object"},
		},
	})
)

// decode validates body against rs and then unmarshals it into out.
func decode(endpoint string, rs *responseSchema, body []byte, out interface{}) error {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return &SchemaError{Endpoint: endpoint, Schema: rs.name, Problems: []string{"body is not JSON: " + err.Error()}}
	}

	result, err := rs.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &SchemaError{Endpoint: endpoint, Schema: rs.name, Problems: []string{err.Error()}}
	}
	if !result.Valid() {
		problems := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			problems[i] = desc.String()
		}
		return &SchemaError{Endpoint: endpoint, Schema: rs.name, Problems: problems}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &SchemaError{Endpoint: endpoint, Schema: rs.name, Problems: []string{err.Error()}}
	}
	return nil
}
