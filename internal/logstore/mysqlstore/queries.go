package mysqlstore

import (
	"fmt"
	"strings"
)

type queries struct {
	create        string
	insert        string
	selectPending string
	deleteOldest  string
	count         string
}

func newQueries(table string) queries {
	return queries{
		create: fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s ("+
			"seq BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY, "+
			"payload JSON NOT NULL, "+
			"created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)"+
			") ENGINE=InnoDB", table),
		insert:        fmt.Sprintf("INSERT INTO %s (payload) VALUES (?)", table),
		selectPending: fmt.Sprintf("SELECT payload FROM %s ORDER BY seq ASC", table),
		deleteOldest:  fmt.Sprintf("DELETE FROM %s ORDER BY seq ASC LIMIT 1", table),
		count:         fmt.Sprintf("SELECT COUNT(*) FROM %s", table),
	}
}

func sanitizeTableName(name string) (string, error) {
	if name == "" {
		return "", ErrTableNameRequired
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			return "", fmt.Errorf("%w: %s", ErrInvalidTableName, name)
		}
		for _, r := range part {
			if r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				continue
			}
			return "", fmt.Errorf("%w: %s", ErrInvalidTableName, name)
		}
	}
	return name, nil
}
