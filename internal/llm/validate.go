package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiledSchemas caches compiled schemas by Schema.Name. Names must be
// unique per definition.
var compiledSchemas sync.Map // string -> *jsonschema.Schema

// structured cleans raw model output and validates it against schema. It
// returns the JSON object to hand to the caller. Models behind compatible
// gateways sometimes wrap JSON in a markdown fence; that wrapper is removed.
func structured(schema *Schema, raw json.RawMessage) (json.RawMessage, error) {
	clean := unfence(raw)
	if schema == nil {
		return clean, nil
	}

	var doc any
	if err := json.Unmarshal(clean, &doc); err != nil {
		return nil, &InvalidResponseError{Content: raw, Err: fmt.Errorf("not JSON: %w", err)}
	}

	compiled, err := compile(schema)
	if err != nil {
		return nil, &InvalidResponseError{Content: raw, Err: err}
	}
	if err := compiled.Validate(doc); err != nil {
		return nil, &InvalidResponseError{Content: raw, Err: fmt.Errorf("schema %q: %w", schema.Name, err)}
	}
	return clean, nil
}

// unfence strips surrounding whitespace and a ```json ... ``` wrapper.
func unfence(raw json.RawMessage) json.RawMessage {
	b := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	b = b[3:]
	if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
		b = b[nl+1:]
	}
	b = bytes.TrimSuffix(bytes.TrimSpace(b), []byte("```"))
	return bytes.TrimSpace(b)
}

func compile(schema *Schema) (*jsonschema.Schema, error) {
	if c, ok := compiledSchemas.Load(schema.Name); ok {
		return c.(*jsonschema.Schema), nil
	}

	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("encode schema %q: %w", schema.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("decode schema %q: %w", schema.Name, err)
	}

	url := "mem://schemas/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("load schema %q: %w", schema.Name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}

	actual, _ := compiledSchemas.LoadOrStore(schema.Name, compiled)
	return actual.(*jsonschema.Schema), nil
}
