// Package analysis computes the statistical power of simulated trials from paired
// treatment and placebo outcome histories.
package analysis

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fmt-sim/fmt-sim/sim"
)

// ParseHistoryLine validates one outcome history line and returns its number of
// successful responses and patients.
func ParseHistoryLine(line string) (successes, total int, err error) {
	h, err := sim.ParseHistory(line)
	if err != nil {
		return 0, 0, err
	}
	return h.Successes(), len(h), nil
}

// ReadHistoryLines reads one history per line. Line terminators are stripped;
// the lines themselves are validated later by ParseHistoryLine.
func ReadHistoryLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading histories: %w", err)
	}
	return lines, nil
}

// WriteHistories writes one encoded history per line.
func WriteHistories(w io.Writer, histories []sim.History) error {
	bw := bufio.NewWriter(w)
	for i, h := range histories {
		line, err := h.Encode()
		if err != nil {
			return fmt.Errorf("encoding history %d: %w", i, err)
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
