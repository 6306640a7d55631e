// Command seedgen parses the taxonomy reference document and emits the seed
// SQL script. With no flags it uses the embedded document and writes to stdout.
package main

import (
	"bytes"
	"flag"
	"log"
	"os"

	"github.com/sortinghat-io/sortinghat/pkg/seed"
)

func main() {
	var (
		docPath = flag.String("doc", "", "Taxonomy reference document (default: embedded)")
		outPath = flag.String("out", "", "Output SQL file (default: stdout)")
	)
	flag.Parse()

	data := seed.DefaultDocument()
	if *docPath != "" {
		loaded, err := os.ReadFile(*docPath)
		if err != nil {
			log.Fatalf("read document: %v", err)
		}
		data = loaded
	}

	doc, err := seed.ParseDocument(bytes.NewReader(data))
	if err != nil {
		log.Fatalf("parse document: %v", err)
	}

	if err := seed.Validate(doc); err != nil {
		log.Fatalf("validate dataset: %v", err)
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("create output: %v", err)
		}
		defer f.Close()
		out = f
	}

	if err := seed.EmitSQL(out, doc); err != nil {
		log.Fatalf("emit sql: %v", err)
	}
}
