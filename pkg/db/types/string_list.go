package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// StringList stores a list of short labels as a single delimited text column,
// which keeps the type portable between Postgres and the sqlite test driver.
type StringList []string

const stringListSeparator = ","

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "", nil
	}
	for _, item := range s {
		if strings.Contains(item, stringListSeparator) {
			return nil, fmt.Errorf("string list item %q contains separator", item)
		}
	}
	return strings.Join(s, stringListSeparator), nil
}

// Scan implements sql.Scanner.
func (s *StringList) Scan(src any) error {
	if src == nil {
		*s = nil
		return nil
	}

	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported string list source %T", src)
	}

	if raw == "" {
		*s = nil
		return nil
	}
	*s = strings.Split(raw, stringListSeparator)
	return nil
}
