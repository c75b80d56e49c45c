// Package mapper converts raw provider records into normalized items
// through declarative field-spec tables. Transforms are pure functions
// from raw value to typed value, so a mapper stays data rather than
// code and every field is unit-testable on its own.
package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coreassistant/planned/internal/clock"
	"github.com/coreassistant/planned/internal/model"
)

// MappingError reports a failure to populate one destination field
// from a raw record.
type MappingError struct {
	Field  string
	Source string
	Err    error
}

func (e *MappingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mapping field %q from source %q: %v", e.Field, e.Source, e.Err)
	}
	return fmt.Sprintf("required field %q (source %q) is missing", e.Field, e.Source)
}

func (e *MappingError) Unwrap() error { return e.Err }

// Transform converts a raw value into the typed value assigned to the
// destination field. Returning nil keeps the untransformed value.
type Transform func(v any) (any, error)

// FieldSpec declares how one destination attribute is populated.
type FieldSpec struct {
	Source    string
	Transform Transform
	Default   any
	Required  bool
}

// Lookup resolves a dot-notation path against a nested record.
// Missing segments yield nil.
func Lookup(raw map[string]any, path string) any {
	var current any = raw
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[part]
		if !ok {
			return nil
		}
	}
	return current
}

// AsBool coerces the loose boolean encodings providers emit.
func AsBool(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "true", "yes", "y", "t":
			return true
		}
		return false
	default:
		return false
	}
}

func asString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

func asInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	default:
		return 0, false
	}
}

// Table maps raw records into items via a field-spec table.
type Table struct {
	clk   clock.Clock
	specs map[string]FieldSpec
}

// NewTable builds a mapper from a destination-keyed spec table.
func NewTable(clk clock.Clock, specs map[string]FieldSpec) *Table {
	return &Table{clk: clk, specs: specs}
}

// ToItem applies every field spec against raw and constructs the
// normalized item. A transform failure or a missing required field is
// a MappingError; entity validation errors propagate from model.New.
func (t *Table) ToItem(raw map[string]any) (*model.Item, error) {
	var it model.Item
	for dest, spec := range t.specs {
		base := Lookup(raw, spec.Source)
		if base == nil {
			base = spec.Default
		}
		value := base
		if spec.Transform != nil {
			transformed, err := spec.Transform(base)
			if err != nil {
				return nil, &MappingError{Field: dest, Source: spec.Source, Err: err}
			}
			if transformed != nil {
				value = transformed
			}
		}
		if spec.Required && value == nil {
			return nil, &MappingError{Field: dest, Source: spec.Source}
		}
		if err := assign(&it, dest, value); err != nil {
			return nil, &MappingError{Field: dest, Source: spec.Source, Err: err}
		}
	}
	return model.New(t.clk, it)
}

func assign(it *model.Item, dest string, v any) error {
	if v == nil {
		return nil
	}
	switch dest {
	case "kind":
		it.Kind = asString(v)
	case "id":
		it.ID = asString(v)
	case "etag":
		it.Etag = asString(v)
	case "self_link":
		it.SelfLink = asString(v)
	case "web_view_link":
		it.WebViewLink = asString(v)
	case "title":
		it.Title = asString(v)
	case "notes":
		it.Notes = asString(v)
	case "location":
		it.Location = asString(v)
	case "status":
		status, ok := v.(model.ItemStatus)
		if !ok {
			return fmt.Errorf("expected ItemStatus, got %T", v)
		}
		it.Status = status
	case "type":
		typ, ok := v.(model.ItemType)
		if !ok {
			return fmt.Errorf("expected ItemType, got %T", v)
		}
		it.Type = typ
	case "start_raw":
		it.StartRaw = asString(v)
	case "end_raw":
		it.EndRaw = asString(v)
	case "updated_raw":
		it.UpdatedRaw = asString(v)
	case "parent":
		it.Parent = asString(v)
	case "position":
		it.Position = asString(v)
	case "priority":
		n, ok := asInt(v)
		if !ok {
			return fmt.Errorf("expected integer priority, got %T", v)
		}
		it.Priority = n
	case "project_id":
		it.ProjectID = asString(v)
	case "section_id":
		it.SectionID = asString(v)
	case "labels":
		labels, err := asStringSlice(v)
		if err != nil {
			return err
		}
		it.Labels = labels
	case "hidden":
		it.Hidden = AsBool(v)
	case "deleted":
		it.Deleted = AsBool(v)
	case "links":
		links, ok := v.([]map[string]any)
		if !ok {
			raw, ok := v.([]any)
			if !ok {
				return fmt.Errorf("expected link list, got %T", v)
			}
			links = make([]map[string]any, 0, len(raw))
			for _, entry := range raw {
				m, ok := entry.(map[string]any)
				if !ok {
					return fmt.Errorf("expected link object, got %T", entry)
				}
				links = append(links, m)
			}
		}
		it.Links = links
	case "planned_item_list":
		list, ok := v.(*model.ItemList)
		if !ok {
			return fmt.Errorf("expected *ItemList, got %T", v)
		}
		it.List = list
	case "data_source":
		source, ok := v.(model.DataSource)
		if !ok {
			return fmt.Errorf("expected DataSource, got %T", v)
		}
		it.Source = source
	default:
		return fmt.Errorf("unknown destination field %q", dest)
	}
	return nil
}

func asStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case []string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, entry := range val {
			out = append(out, asString(entry))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string list, got %T", v)
	}
}

// statusFromAPI adapts the enum conversion for use as a Transform.
func statusFromAPI(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	status, err := model.ItemStatusFromAPI(asString(v))
	if err != nil {
		return nil, err
	}
	if status == model.StatusNone {
		return nil, nil
	}
	return status, nil
}

func constant(v any) Transform {
	return func(any) (any, error) { return v, nil }
}
