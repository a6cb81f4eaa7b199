package main

import (
	"log"
	"os"

	"github.com/ArKa3003/arkamed/core"
	"github.com/ArKa3003/arkamed/storage/database"
	sqlxrepos "github.com/ArKa3003/arkamed/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	// start CLI
	cli := commandLine{
		db:       db,
		usrRepo:  sqlxrepos.NewUserRepository(db),
		caseRepo: sqlxrepos.NewCaseRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
