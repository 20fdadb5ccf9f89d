package etl

import (
	"context"
	"log"

	"github.com/VikaRzyankina/CorpIS/internal/datasource/file"
	"github.com/VikaRzyankina/CorpIS/internal/parser"
)

// FileResult is the outcome of one file of a directory import.
type FileResult struct {
	ImportResult
	Err error
}

// OK reports whether the file was imported without any failure.
func (r FileResult) OK() bool { return r.Err == nil && r.ImportResult.OK() }

// DirSummary counts the files of a directory import.
type DirSummary struct {
	Files     int
	Succeeded int
	Failed    int
}

// ListDir returns the supported table files directly inside dir, in name
// order.
func (r *Runner) ListDir(dir string) ([]string, error) {
	return file.ListTables(dir, parser.Extensions)
}

// ImportDir imports every file ListDir finds. See ImportFiles.
func (r *Runner) ImportDir(ctx context.Context, dir string, each func(FileResult)) (DirSummary, error) {
	paths, err := r.ListDir(dir)
	if err != nil {
		return DirSummary{}, err
	}
	log.Printf("import: dir=%s files=%d", dir, len(paths))
	return r.ImportFiles(ctx, paths, each)
}

// ImportFiles imports paths one by one, detecting each file's entity type from
// its header, so that tables loaded by earlier files are visible to later
// ones. each, when not nil, is called after every file. A failing file does
// not stop the run.
func (r *Runner) ImportFiles(ctx context.Context, paths []string, each func(FileResult)) (DirSummary, error) {
	sum := DirSummary{Files: len(paths)}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res, err := r.ImportFile(ctx, p, "")
		fr := FileResult{ImportResult: res, Err: err}
		if fr.OK() {
			sum.Succeeded++
		} else {
			sum.Failed++
			if err != nil {
				log.Printf("import: file=%s err=%v", p, err)
			}
		}
		if each != nil {
			each(fr)
		}
	}
	return sum, nil
}
