package consts

import (
	"os"
	"time"
)

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// DefaultStepDuration is the duration estimate used for any
	// (object type, operation) pair without an explicit table entry.
	DefaultStepDuration = 30 * time.Second

	// DefaultConfigFile is the project configuration file name looked up in
	// the working directory.
	DefaultConfigFile = "schemaport.yaml"
)

// SystemSchemas lists the PostgreSQL schemas excluded from diffing unless a
// caller explicitly opts in. Objects in these schemas are owned by the server,
// not the application.
var SystemSchemas = []string{"information_schema", "pg_catalog", "pg_toast"}
