package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"intentrelay.app/relay/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
