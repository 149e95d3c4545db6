// Package migrations содержит SQL схему, встроенную в бинарник
package migrations

import "embed"

// FS - файлы миграций, применяются в лексикографическом порядке
//
//go:embed *.sql
var FS embed.FS
