package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/filesmanager/internal/client/client"
	"github.com/dmitrijs2005/filesmanager/internal/client/models"
)

var errUsage = errors.New("usage")

func (a *App) usage(text string) error {
	fmt.Fprintln(a.out, "Usage:", text)
	return errUsage
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// fileType picks image for names whose extension maps to an image MIME type.
func fileType(name string) string {
	if strings.HasPrefix(mime.TypeByExtension(filepath.Ext(name)), "image/") {
		return models.TypeImage
	}
	return models.TypeFile
}

func (a *App) printFile(f *models.File) {
	parent := string(f.ParentID)
	if f.ParentID.IsRoot() {
		parent = "0"
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id:\t%s\n", f.ID)
	fmt.Fprintf(tw, "name:\t%s\n", f.Name)
	fmt.Fprintf(tw, "type:\t%s\n", f.Type)
	fmt.Fprintf(tw, "public:\t%t\n", f.IsPublic)
	fmt.Fprintf(tw, "parent:\t%s\n", parent)
	fmt.Fprintf(tw, "owner:\t%s\n", f.UserID)
	tw.Flush()
}

func (a *App) Mkdir(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return a.usage("mkdir <name> [parentId]")
	}
	nf := client.NewFile{Name: args[0], Type: models.TypeFolder}
	if len(args) == 2 {
		nf.ParentID = args[1]
	}

	f, err := a.api.Create(ctx, nf)
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintf(a.out, "Created folder %s (id %s)\n", f.Name, f.ID)
	return nil
}

func (a *App) Upload(ctx context.Context, args []string) error {
	fs := a.flagSet("upload")
	parent := fs.String("p", "", "parent folder id")
	public := fs.Bool("public", false, "publish the file")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return a.usage("upload [-p parentId] [-public] <path>")
	}

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return a.report(ctx, err)
	}

	name := filepath.Base(path)
	f, err := a.api.Create(ctx, client.NewFile{
		Name:     name,
		Type:     fileType(name),
		ParentID: *parent,
		IsPublic: *public,
		Data:     data,
	})
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintf(a.out, "Uploaded %s as %s (id %s, %d bytes)\n", path, f.Type, f.ID, len(data))
	return nil
}

func (a *App) List(ctx context.Context, args []string) error {
	fs := a.flagSet("ls")
	page := fs.Int("page", 0, "page number, starting at 0")
	if err := fs.Parse(args); err != nil || fs.NArg() > 1 {
		return a.usage("ls [-page n] [parentId]")
	}

	files, err := a.api.List(ctx, fs.Arg(0), *page)
	if err != nil {
		return a.report(ctx, err)
	}
	if len(files) == 0 {
		fmt.Fprintln(a.out, "No files")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tPUBLIC\tNAME")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", f.ID, f.Type, f.IsPublic, f.Name)
	}
	return tw.Flush()
}

func (a *App) Info(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("info <id>")
	}
	f, err := a.api.Get(ctx, args[0])
	if err != nil {
		return a.report(ctx, err)
	}
	a.printFile(f)
	return nil
}

func (a *App) Publish(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("publish <id>")
	}
	f, err := a.api.Publish(ctx, args[0])
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintf(a.out, "%s is now public\n", f.Name)
	return nil
}

func (a *App) Unpublish(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("unpublish <id>")
	}
	f, err := a.api.Unpublish(ctx, args[0])
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintf(a.out, "%s is now private\n", f.Name)
	return nil
}

// Download saves a file, or one of its thumbnails, to disk. Without -o the
// destination is the id in the current directory, or the file name when the
// user owns the file.
func (a *App) Download(ctx context.Context, args []string) error {
	fs := a.flagSet("download")
	size := fs.Int("size", 0, "thumbnail width: 100, 250 or 500")
	dest := fs.String("o", "", "destination path")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return a.usage("download [-size 100|250|500] [-o dest] <id>")
	}
	id := fs.Arg(0)

	data, contentType, err := a.api.Download(ctx, id, *size)
	if err != nil {
		return a.report(ctx, err)
	}

	path := *dest
	if path == "" {
		path = a.defaultName(ctx, id, *size)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintf(a.out, "Saved %d bytes (%s) to %s\n", len(data), contentType, path)
	return nil
}

func (a *App) defaultName(ctx context.Context, id string, size int) string {
	name := id
	if a.isLoggedIn() {
		if f, err := a.api.Get(ctx, id); err == nil {
			name = filepath.Base(f.Name)
		}
	}
	if size > 0 {
		name = fmt.Sprintf("%d_%s", size, name)
	}
	return name
}
