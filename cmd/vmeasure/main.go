package main

import (
	"github.com/dismine/valentina-sub004/pkg/cli"
)

func main() {
	cli.Execute()
}
