package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/devstack"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var withMail bool
	flag.BoolVar(&withMail, "mail", true, "start the SMTP catcher")
	flag.Parse()

	usage := `
Run the tracker's backing services in containers.

Usage:

devstack [-h] [-mail=false] [-f ENV_FILE_PATH]

DB_TYPE (postgres, mysql, mariadb) and DB_IMAGE are read from the environment.
The variables a local server needs are printed once the containers are up.

example
  devstack -f /path/to/something/.env
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	}

	ctx := context.Background()
	stack, err := devstack.Start(ctx, devstack.Options{
		DBType:  os.Getenv("DB_TYPE"),
		DBImage: os.Getenv("DB_IMAGE"),
		Mail:    withMail,
		Logf:    log.Printf,
	})
	if err != nil {
		log.Fatalf("Failed to start containers: %v\n", err)
	}

	env := stack.Env()
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s=%s\n", k, env[k])
	}
	if withMail {
		log.Printf("Mail UI at %s", stack.MailAPI())
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-sigs
	log.Printf("\nReceived signal: %v, terminating containers...\n", sig)
	stack.Terminate(ctx, log.Printf)
}
