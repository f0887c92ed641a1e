// Command catalogcheck validates that the configured database and scorer
// artifacts are reachable before a deploy, the same "small cmd that
// checks/loads state at startup" shape as the teacher's cmd/migrate and
// cmd/seed, repurposed here since this core has no migration/seed scope of
// its own.
package main

import (
	"fmt"
	"os"

	"github.com/kr/pretty"

	"itineraryplanner/catalog"
	"itineraryplanner/config"
	"itineraryplanner/scorer"
)

func main() {
	cfg := config.Load()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "database check failed:", err)
		os.Exit(1)
	}
	if err := db.Exec("SELECT 1").Error; err != nil {
		fmt.Fprintln(os.Stderr, "database ping failed:", err)
		os.Exit(1)
	}
	fmt.Println("database reachable")

	registry, err := scorer.LoadRegistry(cfg.ArtifactDir, nil, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "scorer artifact check failed:", err)
		os.Exit(1)
	}
	pretty.Println("scorer registry loaded:", registry != nil)

	_ = catalog.Models()
	fmt.Println("catalog models registered")
}
