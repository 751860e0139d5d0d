package models

import (
	"errors"
	"strings"
	"time"
)

// NC table column names. Rua was introduced after the first revisions of the table.
const (
	ColNCUser             = "Usuario"
	ColNCRole             = "Cargo"
	ColNCSku              = "SKU"
	ColNCSkuDescription   = "Descricao_SKU"
	ColNCWarehouse        = "Armazem"
	ColNCAisle            = "Rua"
	ColNCRackPosition     = "Local_Avaria"
	ColNCBrokenBottle     = "Quebra_Garrafa"
	ColNCDentedCan        = "Lata_Amassada"
	ColNCTornFilm         = "Filme_Rasgado"
	ColNCMissingSku       = "Falta_SKU"
	ColNCDamagedPackaging = "Emb_Avariada"
	ColNCBrokenPallet     = "Palete_Quebrado"
	ColNCMisalignedPallet = "Palete_Desalinhado"
	ColNCLeak             = "Vazamento"
	ColNCNotes            = "Observacoes"
	ColNCDate             = "Data"
	ColNCTime             = "Horario"
)

// Persisted spellings of the defect flags.
const (
	FlagYes = "Sim"
	FlagNo  = "Não"
)

var (
	ErrInvalidWarehouse    = errors.New("invalid warehouse: must be one of A, B, C, R, M")
	ErrInvalidRackPosition = errors.New("invalid rack position: must be Top, Middle or Base")
)

// Warehouse is the storage building code.
type Warehouse string

const (
	WarehouseA Warehouse = "A"
	WarehouseB Warehouse = "B"
	WarehouseC Warehouse = "C"
	WarehouseR Warehouse = "R"
	WarehouseM Warehouse = "M"
)

const warehousePrefix = "Armazém "

// ParseWarehouse accepts a bare code ("a", "B") or the persisted label ("Armazém C").
func ParseWarehouse(s string) (Warehouse, error) {
	s = strings.TrimSpace(s)
	for _, p := range []string{warehousePrefix, "Armazem "} {
		if len(s) > len(p) && strings.EqualFold(s[:len(p)], p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}
	switch w := Warehouse(strings.ToUpper(s)); w {
	case WarehouseA, WarehouseB, WarehouseC, WarehouseR, WarehouseM:
		return w, nil
	}
	return "", ErrInvalidWarehouse
}

// Label is the persisted form.
func (w Warehouse) Label() string { return warehousePrefix + string(w) }

// RackPosition is where on the rack the damage was found.
type RackPosition string

const (
	RackTop    RackPosition = "Top"
	RackMiddle RackPosition = "Middle"
	RackBase   RackPosition = "Base"
)

var rackLabels = map[RackPosition]string{
	RackTop:    "Topo",
	RackMiddle: "Meio",
	RackBase:   "Base",
}

// ParseRackPosition accepts either the English value or the persisted label.
func ParseRackPosition(s string) (RackPosition, error) {
	s = strings.TrimSpace(s)
	for pos, label := range rackLabels {
		if strings.EqualFold(s, string(pos)) || strings.EqualFold(s, label) {
			return pos, nil
		}
	}
	return "", ErrInvalidRackPosition
}

// Label is the persisted form.
func (p RackPosition) Label() string { return rackLabels[p] }

// Defects are the checklist flags of a report.
type Defects struct {
	BrokenBottle     bool `json:"broken_bottle"`
	DentedCan        bool `json:"dented_can"`
	TornFilm         bool `json:"torn_film"`
	MissingSku       bool `json:"missing_sku"`
	DamagedPackaging bool `json:"damaged_packaging"`
	BrokenPallet     bool `json:"broken_pallet"`
	MisalignedPallet bool `json:"misaligned_pallet"`
	Leak             bool `json:"leak"`
}

// NCReport is a non-conformance incident report.
type NCReport struct {
	User           string       `json:"user"`
	Role           string       `json:"role"`
	SkuCode        string       `json:"sku_code"`
	SkuDescription string       `json:"sku_description"`
	Warehouse      Warehouse    `json:"warehouse"`
	Aisle          string       `json:"aisle,omitempty"`
	RackPosition   RackPosition `json:"rack_position"`
	Defects        Defects      `json:"defects"`
	Notes          string       `json:"notes"`
	Date           string       `json:"date"`
	Time           string       `json:"time"`
	// CatalogUnavailable is set when the SKU file could not be read; the
	// description is then left empty. Not persisted.
	CatalogUnavailable bool `json:"catalog_unavailable,omitempty"`
}

// Stamp sets Date and Time from now.
func (r *NCReport) Stamp(now time.Time) {
	r.Date = now.Format(DateLayout)
	r.Time = now.Format(TimeLayout)
}

// Field is one column/value pair of a persisted row.
type Field struct {
	Column string
	Value  string
}

// Fields returns the report as ordered table fields. The aisle column is only
// present when the report carries one.
func (r NCReport) Fields() []Field {
	out := []Field{
		{ColNCUser, r.User},
		{ColNCRole, r.Role},
		{ColNCSku, r.SkuCode},
		{ColNCSkuDescription, r.SkuDescription},
		{ColNCWarehouse, r.Warehouse.Label()},
	}
	if a := strings.TrimSpace(r.Aisle); a != "" {
		out = append(out, Field{ColNCAisle, a})
	}
	return append(out,
		Field{ColNCRackPosition, r.RackPosition.Label()},
		Field{ColNCBrokenBottle, flag(r.Defects.BrokenBottle)},
		Field{ColNCDentedCan, flag(r.Defects.DentedCan)},
		Field{ColNCTornFilm, flag(r.Defects.TornFilm)},
		Field{ColNCMissingSku, flag(r.Defects.MissingSku)},
		Field{ColNCDamagedPackaging, flag(r.Defects.DamagedPackaging)},
		Field{ColNCBrokenPallet, flag(r.Defects.BrokenPallet)},
		Field{ColNCMisalignedPallet, flag(r.Defects.MisalignedPallet)},
		Field{ColNCLeak, flag(r.Defects.Leak)},
		Field{ColNCNotes, r.Notes},
		Field{ColNCDate, r.Date},
		Field{ColNCTime, r.Time},
	)
}

func flag(b bool) string {
	if b {
		return FlagYes
	}
	return FlagNo
}
