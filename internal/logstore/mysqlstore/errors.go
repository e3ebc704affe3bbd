package mysqlstore

import "errors"

var (
	// ErrDBRequired is returned when a nil *sql.DB is provided.
	ErrDBRequired = errors.New("mysqlstore: db is required")
	// ErrDSNRequired is returned when the DSN is empty.
	ErrDSNRequired = errors.New("mysqlstore: dsn is required")
	// ErrDatabaseRequired is returned when the DSN names no database.
	ErrDatabaseRequired = errors.New("mysqlstore: dsn must name a database")
	// ErrTableNameRequired is returned when the table name is empty.
	ErrTableNameRequired = errors.New("mysqlstore: table name is required")
	// ErrInvalidTableName is returned when the table name has disallowed characters.
	ErrInvalidTableName = errors.New("mysqlstore: invalid table name")
	// ErrSchemaMissing is returned when the store's table does not exist.
	ErrSchemaMissing = errors.New("mysqlstore: table does not exist")
)
