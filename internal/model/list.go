package model

// ListKind classifies the container an item was fetched from.
type ListKind string

const (
	ListKindCalendar       ListKind = "calendar"
	ListKindTaskList       ListKind = "tasklist"
	ListKindTodoistProject ListKind = "todoist_project"
	ListKindTodoistFilter  ListKind = "todoist_filter"
)

// ListMetadata carries optional provider metadata for a container.
type ListMetadata struct {
	AccessRole string
	TimeZone   string
	Updated    string
	SelfLink   string
	Primary    bool
}

// ItemList identifies a source container: a calendar, a Google task
// list or a Todoist project/filter.
type ItemList struct {
	Kind     ListKind
	ID       string
	Name     string
	Metadata *ListMetadata
}
