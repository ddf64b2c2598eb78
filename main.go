package main

import (
	"fmt"
	"os"

	log "github.com/golang/glog"

	"github.com/miberk/balda/cmd"
)

func main() {
	defer log.Flush()

	if err := cmd.RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Flush()
		os.Exit(1)
	}
}
