package memory

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-sif/esframe"
	"github.com/tidwall/gjson"
)

// ParserConf configures the parsing of JSON Lines documents
type ParserConf struct {
	HeaderLines   int  // The number of lines to ignore from the beginning of the input. Defaults to 0.
	Comment       rune // Lines beginning with the comment character are ignored. Defaults to no comment character.
	MaxBufferSize int  // Maximum size in bytes of the buffer used to read lines
}

// ParseJSONL reads one JSON object per line. Blank lines are skipped. Documents
// are given ids "0", "1", ... in input order.
func ParseJSONL(r io.Reader, conf *ParserConf) ([]esframe.Hit, error) {
	if conf == nil {
		conf = &ParserConf{}
	}
	maxBufferSize := conf.MaxBufferSize
	if maxBufferSize == 0 {
		maxBufferSize = bufio.MaxScanTokenSize
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxBufferSize)
	// ignore header lines, if configured to do so
	for i := 0; i < conf.HeaderLines; i++ {
		if !scanner.Scan() {
			return nil, scanner.Err()
		}
	}
	hits := make([]esframe.Hit, 0)
	lineNum := conf.HeaderLines
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		if conf.Comment != 0 && strings.HasPrefix(line, string(conf.Comment)) {
			continue
		}
		if !gjson.Valid(line) || !gjson.Parse(line).IsObject() {
			return nil, fmt.Errorf("line %d is not a JSON object", lineNum)
		}
		hits = append(hits, esframe.Hit{
			ID:     strconv.Itoa(len(hits)),
			Source: []byte(line),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}
