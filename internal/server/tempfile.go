package server

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"dxf-toolkit/internal/structure"
)

type tempFile struct {
	path string
}

func (t tempFile) cleanup() {
	_ = os.Remove(t.path)
}

// tempXLSX writes structure rows to a uniquely named workbook in the
// system temp directory.
func tempXLSX(rows []structure.Row) (tempFile, error) {
	path := filepath.Join(os.TempDir(), "dxftool-"+uuid.NewString()+".xlsx")
	if err := structure.WriteXLSX(rows, path); err != nil {
		return tempFile{}, err
	}
	return tempFile{path: path}, nil
}
