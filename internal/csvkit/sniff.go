package csvkit

import (
	"io"
	"os"
	"strings"

	"github.com/retailops/stockparity/pkg/constants"
)

// Delimiter candidates, in preference order for ties.
var candidates = []rune{',', ';', '\t', '|'}

// maxSampleLines bounds how many lines the sniffer inspects.
const maxSampleLines = 8

// DetectDelimiter guesses the field delimiter from the first
// constants.SniffSampleSize bytes of the file. Unreadable or empty
// files fall back to comma.
func DetectDelimiter(path string) rune {
	f, err := os.Open(path)
	if err != nil {
		return ','
	}
	defer f.Close()

	buf := make([]byte, constants.SniffSampleSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return ','
	}
	return SniffDelimiter(buf[:n])
}

// SniffDelimiter picks the candidate that appears a consistent,
// non-zero number of times on each sample line. When no candidate is
// consistent, the one most frequent on the first line wins; comma is
// the final fallback.
func SniffDelimiter(sample []byte) rune {
	lines := sampleLines(sample)
	if len(lines) == 0 {
		return ','
	}

	best, bestCount := rune(0), 0
	for _, cand := range candidates {
		count := strings.Count(lines[0], string(cand))
		if count == 0 {
			continue
		}
		consistent := true
		for _, line := range lines[1:] {
			if strings.Count(line, string(cand)) != count {
				consistent = false
				break
			}
		}
		if consistent && count > bestCount {
			best, bestCount = cand, count
		}
	}
	if best != 0 {
		return best
	}

	for _, cand := range candidates {
		if count := strings.Count(lines[0], string(cand)); count > bestCount {
			best, bestCount = cand, count
		}
	}
	if best == 0 {
		return ','
	}
	return best
}

// sampleLines returns up to maxSampleLines non-empty lines, dropping a
// trailing partial line when the sample was cut mid-record.
func sampleLines(sample []byte) []string {
	raw := strings.Split(string(sample), "\n")
	if len(raw) > 1 && len(sample) == constants.SniffSampleSize {
		raw = raw[:len(raw)-1]
	}

	lines := make([]string, 0, maxSampleLines)
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxSampleLines {
			break
		}
	}
	return lines
}
