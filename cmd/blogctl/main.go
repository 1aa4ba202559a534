// Command blogctl manages the posts table: create or check it, purge it,
// import posts from a JSON file and export the stored records.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/abhijeet-0019/abhijeet-blog-repo/internal/app"
	"github.com/abhijeet-0019/abhijeet-blog-repo/internal/config"
	"github.com/abhijeet-0019/abhijeet-blog-repo/types"
	"github.com/alecthomas/kong"
)

type CLI struct {
	config.Config `embed:""`

	CreateTable CreateTableCmd `cmd:"" name:"create-table" help:"Create the posts table if it does not exist"`
	Check       CheckCmd       `cmd:"" help:"Verify that the posts table exists and has the expected schema"`
	Purge       PurgeCmd       `cmd:"" help:"Delete every stored record"`
	Import      ImportCmd      `cmd:"" help:"Import posts from a JSON file"`
	Export      ExportCmd      `cmd:"" help:"Write every stored record to stdout as JSON"`
}

type CreateTableCmd struct{}

type CheckCmd struct{}

type PurgeCmd struct {
	Yes bool `name:"yes" short:"y" help:"Confirm deleting all data"`
}

type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"JSON file holding an array of posts"`
}

type ExportCmd struct {
	Pretty bool `name:"pretty" help:"Indent the output"`
}

// tableCreator is implemented by stores that can create their table
// separately from schema validation.
type tableCreator interface {
	EnsureTable(ctx context.Context) error
}

type kongExitCode int

type commandDeps struct {
	openStore func(ctx context.Context, cfg *config.Config) (types.DB, func(context.Context) error, error)
	out       io.Writer
	errOut    io.Writer
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], defaultDeps()))
}

func defaultDeps() commandDeps {
	return commandDeps{
		openStore: openStore,
		out:       os.Stdout,
		errOut:    os.Stderr,
	}
}

//nolint:ireturn
func openStore(ctx context.Context, cfg *config.Config) (types.DB, func(context.Context) error, error) {
	awsCfg, err := app.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	return app.OpenStore(ctx, cfg, &awsCfg)
}

func run(ctx context.Context, args []string, deps commandDeps) (exitCode int) {
	cli := CLI{}

	parser, err := kong.New(
		&cli,
		kong.Name("blogctl"),
		kong.Description("Manage the blog posts table."),
		kong.Writers(deps.out, deps.errOut),
		kong.Exit(func(code int) {
			panic(kongExitCode(code))
		}),
	)
	if err != nil {
		_, _ = fmt.Fprintf(deps.errOut, "Error: initialize command parser: %v\n", err)
		return 1
	}

	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}

		code, ok := recovered.(kongExitCode)
		if !ok {
			panic(recovered)
		}

		exitCode = int(code)
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintf(deps.errOut, "Error: %v\n", err)
		_, _ = fmt.Fprintln(deps.errOut, "Hint: run `blogctl --help`.")
		return 1
	}

	if kctx.Command() == "purge" && !cli.Purge.Yes {
		_, _ = fmt.Fprintln(deps.errOut, "Error: purge deletes every post, pass --yes to confirm")
		return 1
	}

	db, closeStore, err := deps.openStore(ctx, &cli.Config)
	if err != nil {
		_, _ = fmt.Fprintf(deps.errOut, "Error: %v\n", err)
		return 1
	}
	defer func() {
		if err := closeStore(ctx); err != nil {
			_, _ = fmt.Fprintf(deps.errOut, "Warning: close store: %v\n", err)
		}
	}()

	table := app.StoreTableName(&cli.Config)

	switch kctx.Command() {
	case "create-table":
		err = runCreateTable(ctx, db)
		if err == nil {
			_, _ = fmt.Fprintf(deps.out, "Table %s is ready\n", table)
		}
	case "check":
		err = db.Init(ctx, false)
		if err == nil {
			_, _ = fmt.Fprintf(deps.out, "Table %s is valid\n", table)
		}
	case "purge":
		err = db.DropAllData(ctx)
		if err == nil {
			_, _ = fmt.Fprintf(deps.out, "Deleted all records from %s\n", table)
		}
	case "import <file>":
		var n int

		n, err = runImport(ctx, db, cli.Import.File, cli.PostDefaults())
		if err == nil {
			_, _ = fmt.Fprintf(deps.out, "Imported %d posts into %s\n", n, table)
		}
	case "export":
		err = runExport(ctx, db, deps.out, cli.Export.Pretty)
	default:
		err = fmt.Errorf("unsupported command: %s", kctx.Command())
	}

	if err != nil {
		_, _ = fmt.Fprintf(deps.errOut, "Error: %v\n", err)
		return 1
	}

	return 0
}

func runCreateTable(ctx context.Context, db types.DB) error {
	if creator, ok := db.(tableCreator); ok {
		if err := creator.EnsureTable(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	// Stores without EnsureTable create their table in Init.
	if err := db.Init(ctx, false); err != nil {
		return fmt.Errorf("initialize table: %w", err)
	}

	return nil
}

// runImport reads a JSON array of create payloads, validates all of them and
// writes them in one bulk operation. Nothing is written if any entry is
// invalid.
func runImport(ctx context.Context, db types.DB, path string, defaults types.Defaults) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	var entries []json.RawMessage

	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("parse %s: expected a JSON array of posts: %w", path, err)
	}

	posts := make([]*types.Post, 0, len(entries))

	for i, entry := range entries {
		post, err := types.ParseCreatePostRequest(entry, defaults)
		if err != nil {
			return 0, fmt.Errorf("post %d: %w", i, err)
		}

		posts = append(posts, post)
	}

	if len(posts) == 0 {
		return 0, errors.New("no posts to import")
	}

	if err := db.Init(ctx, false); err != nil {
		return 0, fmt.Errorf("initialize table: %w", err)
	}

	if err := db.SavePosts(ctx, posts...); err != nil {
		return 0, fmt.Errorf("save posts: %w", err)
	}

	return len(posts), nil
}

func runExport(ctx context.Context, db types.DB, out io.Writer, pretty bool) error {
	records, err := db.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	if records == nil {
		records = []*types.Record{}
	}

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}

	return enc.Encode(records)
}
