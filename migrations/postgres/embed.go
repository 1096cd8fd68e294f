// Package migrations embebe los archivos SQL del esquema.
package migrations

import "embed"

// FS contiene las migraciones NNNN_nombre.up.sql / .down.sql.
//
//go:embed sql/*.sql
var FS embed.FS

// Dir es el directorio dentro de FS donde viven las migraciones.
const Dir = "sql"
