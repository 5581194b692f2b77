package driven

// Migrator performs the one-time legacy data migration. It is best-effort:
// implementations log and swallow failures rather than blocking startup.
type Migrator interface {
	Run()
}
