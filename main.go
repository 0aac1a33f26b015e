package main

import (
	"github.com/mbolis/quick-swipe/cli"
	"github.com/mbolis/quick-swipe/log"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal("qsurvey:", err)
	}
}
