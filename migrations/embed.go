package migrations

import "embed"

// Files stores forward-only SQL migrations per dialect directory.
//
//go:embed sqlite/*.sql postgres/*.sql
var Files embed.FS
