package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-sif/esframe"
	"github.com/go-sif/esframe/datasource/memory"
)

// Conf locates the files of a DataSource
type Conf struct {
	Glob          string             // Glob matches the JSON Lines files to load
	MappingFile   string             // MappingFile holds the body of a GET <index>/_mapping response
	FieldCapsFile string             // FieldCapsFile holds the body of a GET <index>/_field_caps response
	Parser        *memory.ParserConf // Parser configures the parsing of each file. Optional.
}

// IndexName returns the index name of a file: its base name, without extension
func IndexName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// CreateDataSource loads every file matched by conf.Glob into an in-memory DataSource.
// Files are loaded in lexical order.
func CreateDataSource(conf *Conf) (*memory.DataSource, error) {
	matches, err := filepath.Glob(conf.Glob)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("glob %s produced 0 files", conf.Glob)
	}
	sort.Strings(matches)
	mapping, err := os.ReadFile(conf.MappingFile)
	if err != nil {
		return nil, err
	}
	fieldCaps, err := os.ReadFile(conf.FieldCapsFile)
	if err != nil {
		return nil, err
	}
	source := memory.CreateDataSource(&esframe.SchemaDescription{Mapping: mapping, FieldCaps: fieldCaps})
	for _, path := range matches {
		if err := loadFile(source, path, conf.Parser); err != nil {
			return nil, err
		}
	}
	return source, nil
}

func loadFile(source *memory.DataSource, path string, parser *memory.ParserConf) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return source.AddIndex(IndexName(path), f, parser)
}
