package document

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/kailas-cloud/recipeshare/internal/db"
)

// Encode converts an entity into a storage document using its json tags.
func Encode(v any) (db.Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var doc db.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}

// Decode fills out from a storage document. Field names follow json tags and
// numbers are converted to the target field type.
func Decode(doc db.Document, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}
