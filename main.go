package main

import (
	"os"

	"github.com/cloudflare/cfssl/log"
	"github.com/ssbcDeploy/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
