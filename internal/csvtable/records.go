package csvtable

import (
	"encoding/csv"
	"strings"
	"unicode/utf8"
)

// logicalRecord is the source text of one row, possibly spanning lines.
type logicalRecord struct {
	text   string
	broken bool
}

// splitRecords cuts text into rows. A quoted field may span lines, but a line
// whose quote is still open at the end of the input is a broken row on its own
// and scanning resumes on the next line. Blank lines are ignored.
func splitRecords(text string, comma rune) []logicalRecord {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	var out []logicalRecord
	for i := 0; i < len(lines); {
		if lines[i] == "" {
			i++
			continue
		}
		if !quoteOpenAfter(lines[i], comma, false) {
			out = append(out, logicalRecord{text: lines[i]})
			i++
			continue
		}
		end := -1
		for j := i + 1; j < len(lines); j++ {
			if !quoteOpenAfter(lines[j], comma, true) {
				end = j
				break
			}
		}
		if end < 0 {
			out = append(out, logicalRecord{text: lines[i], broken: true})
			i++
			continue
		}
		out = append(out, logicalRecord{text: strings.Join(lines[i:end+1], "\n")})
		i = end + 1
	}
	return out
}

// quoteOpenAfter scans one line the way csv.Reader does with LazyQuotes and
// reports whether a quoted field is still open at its end. A quote opens a field
// only at field start; inside a field "" is an escaped quote and a quote followed
// by anything but the delimiter or the line end is literal.
func quoteOpenAfter(line string, comma rune, inQuote bool) bool {
	fieldStart := !inQuote
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		i += size
		if !inQuote {
			switch {
			case r == comma:
				fieldStart = true
			case r == '"' && fieldStart:
				inQuote = true
				fieldStart = false
			default:
				fieldStart = false
			}
			continue
		}
		if r != '"' {
			continue
		}
		if i == len(line) {
			return false
		}
		next, nsize := utf8.DecodeRuneInString(line[i:])
		switch next {
		case '"':
			i += nsize
		case comma:
			inQuote = false
		}
	}
	return inQuote
}

// readRecord parses one logical record. ok is false for broken records and for
// text the csv reader rejects.
func readRecord(lr logicalRecord, comma rune) ([]string, bool) {
	if lr.broken {
		return nil, false
	}
	r := csv.NewReader(strings.NewReader(lr.text))
	r.Comma = comma
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	fields, err := r.Read()
	if err != nil {
		return nil, false
	}
	return fields, true
}
