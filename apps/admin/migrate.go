package main

import (
	"github.com/darasahq/darasa/storage/database"
)

var (
	// mockable
	migrateFunc  = database.Migrate
	createDBFunc = database.CreateIfNotExist
)

func (cli *commandLine) migrate() error {
	return migrateFunc(cli.db.DB)
}

func (cli *commandLine) createDB() error {
	return createDBFunc(cli.conf)
}
