package file

import "strings"

// SortDirection orders listing results.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// Sort is a validated ordering for listings and searches.
type Sort struct {
	Field     string
	Direction SortDirection
}

// DefaultSort is applied to searches that do not name an ordering.
var DefaultSort = Sort{Field: "name", Direction: Asc}

// sortColumns maps API field names to record store columns.
var sortColumns = map[string]string{
	"id":           "id",
	"name":         "name",
	"size":         "size",
	"contentType":  "content_type",
	"description":  "description",
	"lastModified": "last_modified",
}

// ParseSort validates a field/direction pair. Unknown fields or directions are rejected.
func ParseSort(field, direction string) (Sort, error) {
	field = strings.TrimSpace(field)
	if _, ok := sortColumns[field]; !ok {
		return Sort{}, validationError("parse sort", "unknown sort field %q", field)
	}

	dir := SortDirection(strings.ToLower(strings.TrimSpace(direction)))
	if dir != Asc && dir != Desc {
		return Sort{}, validationError("parse sort", "unknown sort direction %q", direction)
	}

	return Sort{Field: field, Direction: dir}, nil
}

// ToSQL renders the ordering as an ORDER BY expression, with id as a stable tie-breaker.
func (s Sort) ToSQL() string {
	column, ok := sortColumns[s.Field]
	if !ok {
		column = sortColumns[DefaultSort.Field]
	}
	dir := "ASC"
	if s.Direction == Desc {
		dir = "DESC"
	}
	if column == "id" {
		return column + " " + dir
	}
	return column + " " + dir + ", id " + dir
}
