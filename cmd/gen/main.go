// Command gen regenerates the typed query package under model/query.
package main

import (
	"log/slog"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/khanghh/kaudit/model"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func main() {
	// models are parsed from their struct tags, the database only supplies naming
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		slog.Error("Failed to open generator database", "error", err)
		os.Exit(1)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath: "model/query",
		Mode:    gen.WithoutContext | gen.WithDefaultQuery | gen.WithQueryInterface,
	})
	g.UseDB(db)
	g.ApplyBasic(model.Models...)
	g.Execute()
}
