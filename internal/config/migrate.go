package config

// Migrate selects which service schema the migration tool applies.
type Migrate struct {
	Service string `env:"MIGRATE_SERVICE,required"` // catalog or inventory
}
