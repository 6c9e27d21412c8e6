package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/atol-canopy/canopy/pkg/domain/canopy/db/postgres"
	"github.com/atol-canopy/canopy/pkg/utils/try"
)

func main() {
	logger := log.Default()
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt, os.Kill,
	)
	defer cancel()

	defaultPort := 5432
	if sp := os.Getenv("DB_PORT"); sp != "" {
		if p, err := strconv.Atoi(sp); err == nil {
			defaultPort = p
		}
	}

	host := flag.String("host", os.Getenv("DB_HOST"), "The host of the database.")
	port := flag.Int("port", defaultPort, "The port of the database.")
	user := flag.String("user", os.Getenv("DB_USER"), "The user of the database.")
	pass := flag.String("pass", os.Getenv("DB_PASSWORD"), "The password of the database.")
	database := flag.String("database", os.Getenv("DB_NAME"), "The name of the database.")
	schema := flag.String(
		"schema", os.Getenv("CANOPY_SCHEMA"),
		"The path to the schema repository directory.",
	)
	flag.Parse()

	db := try.To(postgres.New(
		ctx,
		fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s",
			*user, *pass, *host, *port, *database,
		),
		postgres.WithSchemaRepository(*schema),
	)).OrFatal(logger)
	defer db.Close()

	if err := db.Schema().Upgrade(ctx); err != nil {
		logger.Fatal(err)
	}

	version := try.To(db.Schema().Version(ctx)).OrFatal(logger)
	logger.Printf("schema is up to date: version %d", version)
}
