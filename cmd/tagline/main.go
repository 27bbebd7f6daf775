package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hurttlocker/tagline"
	"github.com/hurttlocker/tagline/internal/config"
	"github.com/hurttlocker/tagline/internal/mcp"
	"github.com/hurttlocker/tagline/internal/store"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	var err error
	switch os.Args[1] {
	case "parse":
		err = runParse(os.Args[2:])
	case "entities":
		err = runEntities(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("tagline %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cliFlags collects the flags shared by the subcommands; parsing is a
// hand-rolled loop over the argument list.
type cliFlags struct {
	configPath string
	separator  string
	delimiters string
	dbPath     string
	source     string
	typeName   string
	limit      int
	save       bool
	format     bool
	rest       []string
}

func parseFlags(args []string) (cliFlags, error) {
	var f cliFlags
	for i := 0; i < len(args); i++ {
		arg := args[i]
		value := func() (string, error) {
			i++
			if i >= len(args) {
				return "", fmt.Errorf("flag %s needs a value", arg)
			}
			return args[i], nil
		}
		var err error
		switch {
		case arg == "--config":
			f.configPath, err = value()
		case arg == "--sep":
			f.separator, err = value()
		case arg == "--delims":
			f.delimiters, err = value()
		case arg == "--db":
			f.dbPath, err = value()
		case arg == "--source":
			f.source, err = value()
		case arg == "--type":
			f.typeName, err = value()
		case arg == "--limit":
			var v string
			if v, err = value(); err == nil {
				f.limit, err = strconv.Atoi(v)
			}
		case arg == "--save":
			f.save = true
		case arg == "--format":
			f.format = true
		case strings.HasPrefix(arg, "-"):
			return f, fmt.Errorf("unknown flag: %s", arg)
		default:
			f.rest = append(f.rest, arg)
		}
		if err != nil {
			return f, err
		}
	}
	return f, nil
}

func resolve(f cliFlags) (config.ResolvedConfig, error) {
	return config.ResolveConfig(config.ResolveOptions{
		ConfigPath:    f.configPath,
		CLISeparator:  f.separator,
		CLIDelimiters: f.delimiters,
		CLIDBPath:     f.dbPath,
	})
}

func buildParser(rc config.ResolvedConfig) (*tagline.Parser, error) {
	opts, err := rc.ParserOptions()
	if err != nil {
		return nil, err
	}
	return tagline.New(opts)
}

func runParse(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	rc, err := resolve(f)
	if err != nil {
		return err
	}
	p, err := buildParser(rc)
	if err != nil {
		return err
	}

	message := strings.Join(f.rest, " ")
	if message == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		message = string(data)
	}

	res := p.Parse(message)

	if f.save {
		s, err := store.NewStore(store.StoreConfig{DBPath: rc.DBPath.Value})
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer s.Close()
		source := f.source
		if source == "" {
			source = "cli"
		}
		id, err := s.SaveParse(context.Background(), source, res)
		if err != nil {
			return fmt.Errorf("saving parse: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved as message %d\n", id)
	}

	if f.format {
		fmt.Println(res.Format())
		return nil
	}

	data, err := json.MarshalIndent(res.Entities, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runEntities(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	rc, err := resolve(f)
	if err != nil {
		return err
	}

	s, err := store.NewStore(store.StoreConfig{DBPath: rc.DBPath.Value})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	rows, err := s.ListEntities(context.Background(), store.ListOpts{
		Type:  f.typeName,
		Limit: f.limit,
	})
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runStats(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	rc, err := resolve(f)
	if err != nil {
		return err
	}

	s, err := store.NewStore(store.StoreConfig{DBPath: rc.DBPath.Value})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	stats, err := s.Stats(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Messages: %d\n", stats.MessageCount)
	fmt.Printf("Entities: %d\n", stats.EntityCount)
	for name, n := range stats.TypeCounts {
		fmt.Printf("  %s: %d\n", name, n)
	}
	if stats.DBSizeBytes > 0 {
		fmt.Printf("DB size:  %d bytes\n", stats.DBSizeBytes)
	}
	return nil
}

func runServe(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	rc, err := resolve(f)
	if err != nil {
		return err
	}
	p, err := buildParser(rc)
	if err != nil {
		return err
	}

	s, err := store.NewStore(store.StoreConfig{DBPath: rc.DBPath.Value})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	fmt.Fprintf(os.Stderr, "tagline %s serving MCP on stdio (db: %s)\n", version, rc.DBPath.Value)
	srv := mcp.NewServer(mcp.ServerConfig{Parser: p, Store: s, Version: version})
	return mcp.ServeStdio(srv)
}

func printUsage() {
	fmt.Printf(`tagline %s — typed annotation parser for free-form text

Usage:
  tagline <command> [arguments]

Commands:
  parse [message]     Extract annotations (message from args or stdin)
  entities            List stored annotations
  stats               Show store statistics
  serve               Serve the parser over MCP stdio
  version             Print version

Parse Flags:
  --format            Print the reconstructed message instead of JSON
  --save              Persist the parse to the store
  --source <name>     Source label recorded with --save

Query Flags:
  --type <name>       Filter stored entities by type
  --limit <n>         Maximum rows to return

Shared Flags:
  --config <path>     Config file (default: ~/.tagline/config.yaml)
  --sep <s>           Type separator (default ":")
  --delims <o,c>      Delimiter pair, or "none" for delimiter-free mode
  --db <path>         Database path (default: ~/.tagline/tagline.db)

Annotations look like [type:value] (or bare type=value pairs in
delimiter-free mode); values may be quoted with \" escapes.
`, version)
}
