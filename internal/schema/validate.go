package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/quotes-tracker/internal/common"
	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
)

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func quoteSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		b, err := json.Marshal(BuildQuoteJSONSchema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("quote.json", bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("quote.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// ValidateJSON validates a serialized quote document.
func ValidateJSON(data []byte) error {
	s, err := quoteSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: json does not match schema: %v", common.ErrValidation, err)
	}
	return nil
}

// Validate checks doc against the schema and that sub-area ids are unique.
func Validate(doc *entity.QuoteDocument) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := ValidateJSON(b); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(doc.SubAreas))
	for _, sa := range doc.SubAreas {
		if _, dup := seen[sa.SequenceID]; dup {
			return fmt.Errorf("%w: duplicate sub-area id %q", common.ErrValidation, sa.SequenceID)
		}
		seen[sa.SequenceID] = struct{}{}
	}
	return nil
}
