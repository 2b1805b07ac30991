// Package accessor reads field and filter values off entities and
// applies format processors before indexing.
package accessor

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/kailas-cloud/entdex/internal/domain"
	"github.com/kailas-cloud/entdex/internal/domain/metadata"
)

type formatDefinition struct {
	processor       Processor
	htmlPostProcess bool
}

// Values resolves the indexable string value of a field via the
// entity's accessor and the field's declared format.
type Values struct {
	formats   map[string]formatDefinition
	sanitizer *bluemonday.Policy
}

// NewValues creates an accessor with the built-in "html" format,
// which strips markup after processing.
func NewValues() *Values {
	return &Values{
		formats: map[string]formatDefinition{
			"html": {processor: NoOp{}, htmlPostProcess: true},
		},
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// RegisterFormat adds or replaces a format processor. A nil processor
// is a configuration error, mirroring a registered but unresolvable
// processor service.
func (v *Values) RegisterFormat(format string, processor Processor, htmlPostProcess bool) error {
	if processor == nil {
		return fmt.Errorf("%w: processor for format %q is not usable", domain.ErrInvalidConfiguration, format)
	}
	v.formats[format] = formatDefinition{processor: processor, htmlPostProcess: htmlPostProcess}
	return nil
}

// GetValue returns the processed string value of field for entity.
func (v *Values) GetValue(entity domain.Searchable, field metadata.Field) string {
	text := stringify(entity.SearchValue(field.Name()))

	definition, ok := v.formats[field.Format()]
	if !ok {
		return text
	}

	text = definition.processor.Process(text)
	if definition.htmlPostProcess {
		text = v.stripHTML(text)
	}
	return text
}

// GetRawValue returns the unprocessed value behind a filter accessor.
// ok is false when the entity reports no value for the accessor, or
// an empty one; such filters are left out of the document entirely.
func (v *Values) GetRawValue(entity domain.Searchable, filter metadata.Filter) (string, bool) {
	text := stringify(entity.SearchValue(filter.Accessor()))
	if text == "" {
		return "", false
	}
	return text, true
}

// stripHTML converts markup to plain searchable text. Tags become
// word boundaries and entities are decoded.
func (v *Values) stripHTML(text string) string {
	spaced := strings.ReplaceAll(text, "<", " <")
	plain := html.UnescapeString(v.sanitizer.Sanitize(spaced))
	return strings.Join(strings.Fields(plain), " ")
}

func stringify(value any) string {
	switch value := value.(type) {
	case nil:
		return ""
	case string:
		return value
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}
