package main

import (
	"log"

	"github.com/dismine/valentina-sub004/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
