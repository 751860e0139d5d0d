package csvtable

import (
	"encoding/csv"
	"io"
)

func newWriter(w io.Writer, comma rune) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	return cw
}
