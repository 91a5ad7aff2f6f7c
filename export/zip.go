// Package export builds the bulk-download zip archive.
package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"survey-collector/model"
)

const manifestName = "README.txt"

// ArchiveName maps the type filter to the download filename.
func ArchiveName(typeFilter string) string {
	switch typeFilter {
	case string(model.FileTypeImage):
		return "images_only.zip"
	case string(model.FileTypeWord):
		return "word_only.zip"
	default:
		return "all_files.zip"
	}
}

// BuildArchive packs the files into an in-memory zip. Each entry lives
// under its submission date, prefixed with the file id so duplicate
// filenames on the same day cannot collide, and a trailing README.txt
// records the provenance of every entry.
func BuildArchive(files []model.ExportFile) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)

	manifest := strings.Builder{}
	for _, f := range files {
		date, _, _ := strings.Cut(f.SubmitTime, " ")
		name := fmt.Sprintf("%d_%s", f.ID, f.Name)

		entry, err := zw.Create(date + "/" + name)
		if err != nil {
			return nil, errors.Wrapf(err, "create zip entry %s", name)
		}
		if _, err := entry.Write(f.Blob); err != nil {
			return nil, errors.Wrapf(err, "write zip entry %s", name)
		}

		fmt.Fprintf(&manifest,
			"record id: %d\nfile id: %d\nfile: %s (%s)\ntime: %s\n\n",
			f.RecordID, f.ID, name, f.Type, f.SubmitTime,
		)
	}

	entry, err := zw.Create(manifestName)
	if err != nil {
		return nil, errors.Wrap(err, "create manifest")
	}
	if _, err := io.WriteString(entry, manifest.String()); err != nil {
		return nil, errors.Wrap(err, "write manifest")
	}

	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "close archive")
	}
	return buf.Bytes(), nil
}
