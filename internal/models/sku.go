package models

// Description sentinels used when the catalog cannot provide a real description.
const (
	SkuNoDescription       = "Sem descrição"
	SkuDescriptionNotFound = "Descrição não encontrada"
	SkuNotRegistered       = "SKU não cadastrado"
)

// Sku is a single catalog entry.
type Sku struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// SkuCatalog is the parsed catalog file. An unreadable file yields an empty catalog.
type SkuCatalog struct {
	Columns []string
	Rows    [][]string
}

// Empty reports whether the catalog has no usable rows.
func (c *SkuCatalog) Empty() bool {
	return c == nil || len(c.Columns) == 0 || len(c.Rows) == 0
}

// Find matches code against the first column. Both sides are trimmed.
func (c *SkuCatalog) Find(code string) (Sku, bool) {
	if c.Empty() {
		return Sku{}, false
	}
	code = trim(code)
	for _, row := range c.Rows {
		if len(row) == 0 || trim(row[0]) != code {
			continue
		}
		sku := Sku{Code: code}
		switch {
		case len(c.Columns) < 2:
			sku.Description = SkuDescriptionNotFound
		case len(row) < 2 || trim(row[1]) == "":
			sku.Description = SkuNoDescription
		default:
			sku.Description = row[1]
		}
		return sku, true
	}
	return Sku{}, false
}
