package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/streamdbg/cdbg/cdbgerr"
)

// record is one FASTA (name, sequence) pair, spec §6's input shape.
type record struct {
	Name     string
	Sequence string
}

// readFASTA parses a single multi-FASTA file. Sequence lines are
// concatenated until the next '>' header or EOF.
func readFASTA(path string) ([]record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "open %s", path)
	}
	defer f.Close()

	var (
		records []record
		cur     *record
		seq     strings.Builder
	)
	flush := func() {
		if cur != nil {
			cur.Sequence = seq.String()
			records = append(records, *cur)
			seq.Reset()
		}
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			name := strings.TrimSpace(strings.TrimPrefix(line, ">"))
			cur = &record{Name: name}
			continue
		}
		seq.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, cdbgerr.Wrap(err, cdbgerr.KindIO, "read %s", path)
	}
	if len(records) == 0 {
		return nil, errors.Errorf("%s: no FASTA records found", path)
	}
	return records, nil
}
