package processor

import (
	"bytes"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/heyjunin/maaw/pkg/errors"
)

const (
	// DescriptionFile holds the rewritten description.
	DescriptionFile = "description.txt"
	// OriginalTextFile holds the submitted text unchanged.
	OriginalTextFile = "original_text.txt"
)

type archiveFile struct {
	name string
	data []byte
}

// writeArchive deflates files, in order, into a zip.
func writeArchive(files []archiveFile, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, file := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     file.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, errors.WrapCode(err, errors.ProcessingError, errors.ErrArchiveWrite)
		}
		if _, err := w.Write(file.data); err != nil {
			return nil, errors.WrapCode(err, errors.ProcessingError, errors.ErrArchiveWrite)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, errors.WrapCode(err, errors.ProcessingError, errors.ErrArchiveWrite)
	}
	return buf.Bytes(), nil
}

// ReadArchive lists the files of a zip produced by Process.
func ReadArchive(data []byte) (map[string][]byte, []string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, errors.WrapCode(err, errors.ProcessingError, errors.ErrArchiveWrite)
	}
	contents := make(map[string][]byte, len(zr.File))
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, nil, errors.WrapCode(err, errors.SystemError, errors.ErrFileRead)
		}
		var buf bytes.Buffer
		_, err = buf.ReadFrom(rc)
		rc.Close()
		if err != nil {
			return nil, nil, errors.WrapCode(err, errors.SystemError, errors.ErrFileRead)
		}
		contents[f.Name] = buf.Bytes()
		names = append(names, f.Name)
	}
	return contents, names, nil
}
