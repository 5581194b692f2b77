// Package sqlite implements the word store on an embedded SQLite database.
//
// The store manages exactly one logical table, wordbook, with a
// case-insensitive uniqueness constraint over (word, source_lang,
// target_lang). The database/sql driver name is injected through a
// DriverHandle so the same engine works with the compiled-in driver or a
// provisioned driver artifact.
package sqlite
