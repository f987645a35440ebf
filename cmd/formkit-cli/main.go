package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/grantflow/formkit/pkg/importer"
	"github.com/grantflow/formkit/pkg/model"
	"github.com/grantflow/formkit/pkg/render"
	"github.com/grantflow/formkit/pkg/renderers/html"
	"github.com/grantflow/formkit/pkg/renderers/tui"
	"github.com/grantflow/formkit/pkg/resolver"
	"github.com/grantflow/formkit/pkg/schema"
)

const usage = `usage: formkit-cli <command> [flags]

commands:
  render    render a form document to HTML or fill it interactively
  import    build a form document from an OpenAPI specification
  resolve   extract business values from a schema and an answer set
`

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "render":
		runRender(ctx, os.Args[2:])
	case "import":
		runImport(ctx, os.Args[2:])
	case "resolve":
		runResolve(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func runRender(ctx context.Context, args []string) {
	flags := flag.NewFlagSet("render", flag.ExitOnError)
	docPath := flags.String("doc", "", "form document path (JSON or YAML)")
	rendererName := flags.String("renderer", "html", "renderer to use (html or tui)")
	valuesPath := flags.String("values", "", "answer set path used to pre-fill controls")
	readOnly := flags.Bool("read-only", false, "render a display-only surface")
	output := flags.String("output", "", "output file (stdout if empty)")
	_ = flags.Parse(args)

	if *docPath == "" {
		log.Fatal("render: -doc is required")
	}

	raw, err := os.ReadFile(*docPath)
	if err != nil {
		log.Fatalf("Failed to read document: %v", err)
	}
	doc, err := model.ParseFormDocument(raw)
	if err != nil {
		log.Fatalf("Failed to parse document: %v", err)
	}

	options := render.Options{ReadOnly: *readOnly}
	if *valuesPath != "" {
		options.Values = loadAnswers(*valuesPath)
	}

	var renderer render.Renderer
	switch *rendererName {
	case "html":
		renderer, err = html.New()
		if err != nil {
			log.Fatalf("Failed to build renderer: %v", err)
		}
	case "tui":
		renderer = tui.New()
	default:
		log.Fatalf("unknown renderer %q", *rendererName)
	}

	out, err := renderer.Render(ctx, doc, options)
	if err != nil {
		log.Fatalf("Failed to render form: %v", err)
	}
	writeOutput(*output, out)
}

func runImport(ctx context.Context, args []string) {
	flags := flag.NewFlagSet("import", flag.ExitOnError)
	specPath := flags.String("spec", "", "OpenAPI specification path")
	operationID := flags.String("operation", "", "operation ID to import")
	list := flags.Bool("list", false, "list operation IDs and exit")
	output := flags.String("output", "", "output file (stdout if empty)")
	_ = flags.Parse(args)

	if *specPath == "" {
		log.Fatal("import: -spec is required")
	}
	raw, err := os.ReadFile(*specPath)
	if err != nil {
		log.Fatalf("Failed to read specification: %v", err)
	}

	imp := importer.New()
	if *list {
		ops, err := imp.Operations(ctx, raw)
		if err != nil {
			log.Fatalf("Failed to list operations: %v", err)
		}
		writeOutput(*output, []byte(strings.Join(ops, "\n")+"\n"))
		return
	}

	if *operationID == "" {
		log.Fatal("import: -operation is required (or use -list)")
	}
	doc, err := imp.FormFromSpec(ctx, raw, *operationID)
	if err != nil {
		log.Fatalf("Failed to import form: %v", err)
	}
	encoded, err := model.EncodeFormDocument(doc)
	if err != nil {
		log.Fatalf("Failed to encode document: %v", err)
	}
	writeOutput(*output, encoded)
}

func runResolve(ctx context.Context, args []string) {
	flags := flag.NewFlagSet("resolve", flag.ExitOnError)
	schemaPath := flags.String("schema", "", "schema path (form document or tenant schema)")
	answersPath := flags.String("answers", "", "answer set path (JSON)")
	record := flags.String("record", "budget", "record vocabulary: budget or milestone")
	output := flags.String("output", "", "output file (stdout if empty)")
	_ = flags.Parse(args)
	_ = ctx

	if *schemaPath == "" || *answersPath == "" {
		log.Fatal("resolve: -schema and -answers are required")
	}

	raw, err := os.ReadFile(*schemaPath)
	if err != nil {
		log.Fatalf("Failed to read schema: %v", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(*schemaPath), raw)
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}
	flat, err := doc.Flattened()
	if err != nil {
		log.Fatalf("Failed to parse schema %s: %v", doc.Location(), err)
	}

	answers := loadAnswers(*answersPath)

	var concepts []resolver.Concept
	switch *record {
	case "budget":
		concepts = resolver.BudgetRequestConcepts()
	case "milestone":
		concepts = resolver.MilestoneReleaseConcepts()
	default:
		log.Fatalf("unknown record vocabulary %q", *record)
	}

	resolved := resolver.ResolveAll(flat, answers, concepts)
	out := make(map[string]any, len(resolved))
	for name, resolution := range resolved {
		out[name] = resolution.Value
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	writeOutput(*output, append(encoded, '\n'))
}

func loadAnswers(path string) model.AnswerSet {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read answers: %v", err)
	}
	var answers model.AnswerSet
	if err := json.Unmarshal(raw, &answers); err != nil {
		log.Fatalf("Failed to parse answers: %v", err)
	}
	return answers
}

func writeOutput(path string, data []byte) {
	if path == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	fmt.Printf("Written to %s\n", path)
}
