package sources

import (
	"fmt"

	"github.com/coreassistant/planned/internal/model"
	"github.com/coreassistant/planned/internal/validation"
)

// IgnoreFunc reports whether a container should be excluded; it is
// consulted with both the container's id and its display name.
type IgnoreFunc func(idOrName string) bool

// containerRecord is the provider-neutral shape a raw container must
// satisfy before it becomes an ItemList.
type containerRecord struct {
	ID   string `validate:"required,notblank"`
	Name string `validate:"required,notblank"`
}

func stringField(raw map[string]any, key string) (string, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func boolField(raw map[string]any, key string) bool {
	b, _ := raw[key].(bool)
	return b
}

func validateContainer(raw map[string]any, idKey, nameKey string) (string, string, error) {
	id, ok := stringField(raw, idKey)
	if !ok {
		return "", "", fmt.Errorf("container field %q is missing or not a string", idKey)
	}
	name, ok := stringField(raw, nameKey)
	if !ok {
		return "", "", fmt.Errorf("container field %q is missing or not a string", nameKey)
	}
	rec := containerRecord{ID: id, Name: name}
	if err := validation.Validate.Struct(rec); err != nil {
		return "", "", fmt.Errorf("invalid container record: %w", err)
	}
	return validation.SanitizeText(id), validation.SanitizeText(name), nil
}

func skipped(ignored IgnoreFunc, id, name string) bool {
	return ignored != nil && (ignored(id) || ignored(name))
}

// BuildTaskList validates a raw Google task list record. A nil result
// with nil error means the list is configured as ignored.
func BuildTaskList(raw map[string]any, ignored IgnoreFunc) (*model.ItemList, error) {
	id, name, err := validateContainer(raw, "id", "title")
	if err != nil {
		return nil, err
	}
	if skipped(ignored, id, name) {
		return nil, nil
	}
	updated, _ := stringField(raw, "updated")
	selfLink, _ := stringField(raw, "selfLink")
	return &model.ItemList{
		Kind: model.ListKindTaskList,
		ID:   id,
		Name: name,
		Metadata: &model.ListMetadata{
			Updated:  updated,
			SelfLink: selfLink,
		},
	}, nil
}

// BuildCalendar validates a raw Google calendar list record.
func BuildCalendar(raw map[string]any, ignored IgnoreFunc) (*model.ItemList, error) {
	id, name, err := validateContainer(raw, "id", "summary")
	if err != nil {
		return nil, err
	}
	if skipped(ignored, id, name) {
		return nil, nil
	}
	accessRole, _ := stringField(raw, "accessRole")
	timeZone, _ := stringField(raw, "timeZone")
	return &model.ItemList{
		Kind: model.ListKindCalendar,
		ID:   id,
		Name: name,
		Metadata: &model.ListMetadata{
			AccessRole: accessRole,
			TimeZone:   timeZone,
			Primary:    boolField(raw, "primary"),
		},
	}, nil
}

// BuildTodoistProject validates a raw Todoist project record. The
// inbox project maps to the primary flag.
func BuildTodoistProject(raw map[string]any, ignored IgnoreFunc) (*model.ItemList, error) {
	id, name, err := validateContainer(raw, "id", "name")
	if err != nil {
		return nil, err
	}
	if skipped(ignored, id, name) {
		return nil, nil
	}
	return &model.ItemList{
		Kind: model.ListKindTodoistProject,
		ID:   id,
		Name: name,
		Metadata: &model.ListMetadata{
			Primary: boolField(raw, "is_inbox_project"),
		},
	}, nil
}
