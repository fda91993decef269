package validate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "file:///schema/report.schema.json"

//go:embed schema/report.schema.json
var reportSchema []byte

var (
	once    sync.Once
	schema  *jsonschema.Schema
	loadErr error
)

func load() {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(reportSchema)); err != nil {
		loadErr = errors.Wrap(err, "add report schema")
		return
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		loadErr = errors.Wrap(err, "compile report schema")
		return
	}
	schema = s
}

// Report validates any JSON-marshalable report value against the embedded
// report schema.
func Report(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal report")
	}
	return JSON(b)
}

// JSON validates an encoded report document.
func JSON(b []byte) error {
	once.Do(load)
	if loadErr != nil {
		return loadErr
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return errors.Wrap(err, "decode report")
	}
	return schema.Validate(doc)
}
