// ScatterBrush scatters object templates onto scene surfaces with brush
// collections, replaying recorded pointer strokes.
//
// Build:
//
//	go build -o scatterbrush ./cmd/scatterbrush
//
// Example:
//
//	scatterbrush collection import trees.xlsx --into forest.json
//	scatterbrush paint --collection forest.json --scene meadow.yaml --strokes walk.json --pdf plan.pdf --apply
package main

import (
	"os"

	"github.com/piwi3910/ScatterBrush/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
