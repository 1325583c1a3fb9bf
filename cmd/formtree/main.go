package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	formtree "github.com/reoring/formtree"
	_ "github.com/reoring/formtree/nodes"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "check":
		checkCmd(os.Args[2:])
	case "types":
		typesCmd(os.Args[2:])
	case "encode":
		encodeCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "formtree CLI\n\nUsage:\n  formtree check -schema tree.yaml\n  formtree types -schema tree.yaml\n  formtree encode -schema tree.yaml -value value.json\n\nNotes:\n  - Schemas are read as YAML (.yaml/.yml) or JSON; values are read as JSON.")
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var schemaPath string
	fs.StringVar(&schemaPath, "schema", "", "schema document")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	if _, err := buildTree(schemaPath); err != nil {
		reportErr(err)
		os.Exit(1)
	}
	fmt.Println("ok")
}

func typesCmd(args []string) {
	fs := flag.NewFlagSet("types", flag.ExitOnError)
	var schemaPath string
	fs.StringVar(&schemaPath, "schema", "", "schema document")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	root, err := buildTree(schemaPath)
	if err != nil {
		reportErr(err)
		os.Exit(1)
	}
	chooser, ok := root.(interface{ PossibleTypes() []string })
	if !ok {
		fatalf("root node offers no selectable types")
	}
	for _, name := range chooser.PossibleTypes() {
		fmt.Println(name)
	}
}

func encodeCmd(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	var schemaPath, valuePath string
	fs.StringVar(&schemaPath, "schema", "", "schema document")
	fs.StringVar(&valuePath, "value", "", "value document (JSON)")
	_ = fs.Parse(args)
	if schemaPath == "" || valuePath == "" {
		fs.Usage()
		os.Exit(2)
	}
	root, err := buildTree(schemaPath)
	if err != nil {
		reportErr(err)
		os.Exit(1)
	}
	data, err := os.ReadFile(valuePath)
	if err != nil {
		fatalf("read value: %v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		fatalf("decode value: %v", err)
	}
	if err := root.SetValue(v); err != nil {
		reportErr(err)
		os.Exit(1)
	}
	out, ok := root.Value()
	if !ok {
		fmt.Println("null")
		return
	}
	enc, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fatalf("encode value: %v", err)
	}
	fmt.Println(string(enc))
}

func buildTree(path string) (formtree.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s formtree.Schema
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = formtree.ParseSchemaYAML(data)
	default:
		s, err = formtree.ParseSchemaJSON(data)
	}
	if err != nil {
		return nil, err
	}
	return formtree.DefaultRegistry().Build("root", s)
}

func reportErr(err error) {
	if iss, ok := formtree.AsIssues(err); ok {
		for _, it := range iss {
			if it.Hint != "" {
				fmt.Fprintf(os.Stderr, "%s at %s: %s (%s)\n", it.Code, it.Path, it.Message, it.Hint)
				continue
			}
			fmt.Fprintf(os.Stderr, "%s at %s: %s\n", it.Code, it.Path, it.Message)
		}
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
