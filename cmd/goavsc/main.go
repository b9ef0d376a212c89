package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	goavsc "github.com/reoring/goavsc"
	"github.com/reoring/goavsc/versions"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "goavsc CLI\n\nUsage:\n  goavsc tree [-json] schema.avsc\n  goavsc get -path User.address [-json] schema.avsc\n  goavsc search -q text schema.avsc\n  goavsc fingerprint schema.avsc\n  goavsc versions (-dir D | -url U | -config C) [-load V | -latest] [-v]\n\nNotes:\n  - Use - to read the schema from stdin. Files ending in .yaml or .yml are read as YAML.")
}

// errUsage signals bad arguments; run reports it with exit code 2.
var errUsage = errors.New("usage")

type env struct {
	stdin          io.Reader
	stdout, stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	e := env{stdin: stdin, stdout: stdout, stderr: stderr}
	var err error
	switch args[0] {
	case "tree":
		err = e.treeCmd(args[1:])
	case "get":
		err = e.getCmd(args[1:])
	case "search":
		err = e.searchCmd(args[1:])
	case "fingerprint":
		err = e.fingerprintCmd(args[1:])
	case "versions":
		err = e.versionsCmd(args[1:])
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		usage(stderr)
		return 2
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return 2
	default:
		fmt.Fprintf(stderr, "goavsc: %v\n", err)
		return 1
	}
}

func (e env) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

// readInput returns the single positional schema argument.
func (e env) readInput(fs *flag.FlagSet) (name string, data []byte, err error) {
	if fs.NArg() != 1 {
		fs.Usage()
		return "", nil, errUsage
	}
	name = fs.Arg(0)
	if name == "-" {
		data, err = io.ReadAll(e.stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	return name, data, err
}

func (e env) loadSchema(fs *flag.FlagSet) (goavsc.Schema, []byte, error) {
	name, data, err := e.readInput(fs)
	if err != nil {
		return nil, nil, err
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		s, err := goavsc.ParseYAML(data)
		return s, data, err
	}
	s, err := goavsc.ParseBytes(data, goavsc.ParseOpt{RejectDuplicateKeys: true})
	return s, data, err
}

type nodeView struct {
	Path     string   `json:"path"`
	Kind     string   `json:"kind"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Doc      string   `json:"doc,omitempty"`
	Default  any      `json:"default,omitempty"`
	Order    string   `json:"order,omitempty"`
	Symbols  []string `json:"symbols,omitempty"`
	Children []string `json:"children,omitempty"`
}

func view(n goavsc.Node) nodeView {
	v := nodeView{Path: n.FullPath(), Kind: n.Kind().String(), Label: goavsc.Label(n), Type: goavsc.TypeName(n)}
	switch s := n.(type) {
	case *goavsc.Field:
		v.Doc, v.Order = s.Doc, s.Order
		if s.HasDefault {
			v.Default = s.Default
		}
	case *goavsc.Record:
		v.Doc = s.Doc
	case *goavsc.Enum:
		v.Doc, v.Symbols = s.Doc, s.Symbols
	}
	for _, c := range goavsc.Children(n) {
		v.Children = append(v.Children, goavsc.Label(c))
	}
	return v
}

func (e env) writeJSON(v any) error {
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (e env) treeCmd(args []string) error {
	fs := e.flagSet("tree")
	asJSON := fs.Bool("json", false, "print nodes as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	root, _, err := e.loadSchema(fs)
	if err != nil {
		return err
	}
	var nodes []nodeView
	for n := range goavsc.All(root) {
		if *asJSON {
			nodes = append(nodes, view(n))
			continue
		}
		fmt.Fprintf(e.stdout, "%s\t%s\t%s\n", n.FullPath(), n.Kind(), goavsc.TypeName(n))
	}
	if *asJSON {
		return e.writeJSON(nodes)
	}
	return nil
}

func (e env) getCmd(args []string) error {
	fs := e.flagSet("get")
	path := fs.String("path", "", "full path of the node, e.g. User.address.zip")
	asJSON := fs.Bool("json", false, "print the node as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		fs.Usage()
		return errUsage
	}
	root, _, err := e.loadSchema(fs)
	if err != nil {
		return err
	}
	n, err := goavsc.Lookup(root, *path)
	if err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("no node at %q", *path)
	}
	v := view(n)
	if *asJSON {
		return e.writeJSON(v)
	}
	fmt.Fprintf(e.stdout, "Path: %s\nName: %s\nType: %s\n", v.Path, v.Label, v.Type)
	if v.Doc != "" {
		fmt.Fprintf(e.stdout, "Doc: %s\n", v.Doc)
	}
	if v.Default != nil {
		fmt.Fprintf(e.stdout, "Default: %v\n", v.Default)
	}
	if len(v.Symbols) > 0 {
		fmt.Fprintf(e.stdout, "Symbols: %s\n", strings.Join(v.Symbols, ", "))
	}
	for _, c := range v.Children {
		fmt.Fprintf(e.stdout, "  %s\n", c)
	}
	return nil
}

func (e env) searchCmd(args []string) error {
	fs := e.flagSet("search")
	q := fs.String("q", "", "case-insensitive text to find in node names")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *q == "" {
		fs.Usage()
		return errUsage
	}
	root, _, err := e.loadSchema(fs)
	if err != nil {
		return err
	}
	for _, p := range goavsc.Search(root, *q) {
		fmt.Fprintln(e.stdout, p)
	}
	return nil
}

func (e env) fingerprintCmd(args []string) error {
	fs := e.flagSet("fingerprint")
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, data, err := e.readInput(fs)
	if err != nil {
		return err
	}
	c, err := goavsc.Canonicalize(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "canonical: %s\nsha256: %s\ncrc64: %s\n", c.Form, c.SHA256, c.CRC64)
	return nil
}

func (e env) versionsCmd(args []string) error {
	fs := e.flagSet("versions")
	var flags versions.Config
	configPath := fs.String("config", "", "YAML config file")
	fs.StringVar(&flags.Dir, "dir", "", "directory containing versions.json")
	fs.StringVar(&flags.URL, "url", "", "base URL containing versions.json")
	fs.DurationVar(&flags.Timeout, "timeout", 10*time.Second, "HTTP timeout")
	load := fs.String("load", "", "load and summarize this version")
	latest := fs.Bool("latest", false, "load and summarize the latest version")
	verbose := fs.Bool("v", false, "enable verbose logs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := flags
	if *configPath != "" {
		c, err := versions.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = overrideConfig(c, flags, fs)
	}
	src, err := cfg.Source()
	if err != nil {
		fs.Usage()
		return err
	}

	logger := zap.NewNop()
	if *verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
	}
	loader := versions.NewLoader(src, logger, cfg.ParseOpt())
	ctx := context.Background()

	var snap *versions.Snapshot
	switch {
	case *load != "":
		snap, err = loader.Load(ctx, *load)
	case *latest || (cfg.Version == "" && *configPath != ""):
		snap, err = loader.LoadLatest(ctx)
	case cfg.Version != "":
		snap, err = loader.Load(ctx, cfg.Version)
	default:
		vs, err := loader.Versions(ctx)
		if err != nil {
			return err
		}
		for _, v := range vs {
			fmt.Fprintln(e.stdout, v)
		}
		return nil
	}
	if err != nil {
		return err
	}
	fields := 0
	for n := range goavsc.All(snap.Root) {
		if n.Kind() == goavsc.KindField {
			fields++
		}
	}
	fmt.Fprintf(e.stdout, "version: %s\nroot: %s\nfields: %d\nfingerprint: %s\n",
		snap.Version, goavsc.TypeName(snap.Root), fields, snap.Fingerprint)
	return nil
}

// overrideConfig applies the source flags given explicitly on the command line
// on top of a loaded config file. -dir and -url replace the file's source.
func overrideConfig(cfg, flags versions.Config, fs *flag.FlagSet) versions.Config {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			cfg.Dir, cfg.URL = flags.Dir, ""
		case "url":
			cfg.URL, cfg.Dir = flags.URL, ""
		case "timeout":
			cfg.Timeout = flags.Timeout
		}
	})
	return cfg
}
