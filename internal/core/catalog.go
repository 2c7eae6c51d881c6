package core

import (
	"fmt"
	"math/rand"
)

// Equipment table column names.
const (
	ColManufacturer    = "Manufacturer Name"
	ColArticleNumber   = "Article Number"
	ColDescription     = "Description"
	ColEquipmentNumber = "Equipment Number"
	ColProductStatus   = "Product Status"
)

// Manufacturers is the fixed option set for the Manufacturer Name column.
var Manufacturers = []string{
	"Siemens", "ABB", "Schneider Electric", "Bosch", "Mitsubishi",
	"Omron", "Honeywell", "Eaton", "Rockwell Automation",
}

// EquipmentNumbers is the fixed option set for the Equipment Number column.
var EquipmentNumbers = []string{"123", "124", "125", "126"}

// ProductStatuses is the fixed option set for the Product Status column.
var ProductStatuses = []string{"active", "inactive"}

// EquipmentSpecs lists the equipment table columns in display order.
var EquipmentSpecs = []FieldSpec{
	{Name: ColManufacturer, Type: FieldEnum, Required: true, EnumValues: Manufacturers},
	{Name: ColArticleNumber, Type: FieldText, Required: true, MaxLength: 80},
	{Name: ColDescription, Type: FieldText, Required: true, MaxLength: 40},
	{Name: ColEquipmentNumber, Type: FieldEnum, Required: true, EnumValues: EquipmentNumbers},
	{Name: ColProductStatus, Type: FieldEnum, Required: true, EnumValues: ProductStatuses},
}

// LookupSpec returns the spec for a column by exact name.
func LookupSpec(specs []FieldSpec, column string) (FieldSpec, bool) {
	for _, spec := range specs {
		if spec.Name == column {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// ColumnNames returns the names of specs in order.
func ColumnNames(specs []FieldSpec) []string {
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	return names
}

// BuildColumnMeta converts specs into rendering metadata.
func BuildColumnMeta(specs []FieldSpec) []ColumnMeta {
	meta := make([]ColumnMeta, len(specs))
	for i, spec := range specs {
		meta[i] = ColumnMeta{
			Name:       spec.Name,
			Type:       spec.Type.String(),
			Required:   spec.Required,
			MaxLength:  spec.MaxLength,
			EnumValues: append([]string(nil), spec.EnumValues...),
		}
	}
	return meta
}

// SampleRows returns the default three-row equipment table.
func SampleRows() Table {
	return Table{
		{
			ColManufacturer:    "Siemens",
			ColArticleNumber:   "ART12345678",
			ColDescription:     "Spare part A",
			ColEquipmentNumber: "123",
			ColProductStatus:   "active",
		},
		{
			ColManufacturer:    "ABB",
			ColArticleNumber:   "ART87654321",
			ColDescription:     "Spare part B",
			ColEquipmentNumber: "124",
			ColProductStatus:   "inactive",
		},
		{
			ColManufacturer:    "Mitsubishi",
			ColArticleNumber:   "ART11223344",
			ColDescription:     "Spare part C",
			ColEquipmentNumber: "125",
			ColProductStatus:   "active",
		},
	}
}

// GenerateRows builds n synthetic rows that satisfy EquipmentSpecs.
// The same seed always yields the same table.
func GenerateRows(n int, seed int64) Table {
	rng := rand.New(rand.NewSource(seed))

	rows := make(Table, n)
	for i := range rows {
		rows[i] = Row{
			ColManufacturer:    Manufacturers[rng.Intn(len(Manufacturers))],
			ColArticleNumber:   fmt.Sprintf("ART%08d", rng.Intn(100_000_000)),
			ColDescription:     fmt.Sprintf("Spare part %d", i+1),
			ColEquipmentNumber: EquipmentNumbers[rng.Intn(len(EquipmentNumbers))],
			ColProductStatus:   ProductStatuses[rng.Intn(len(ProductStatuses))],
		}
	}
	return rows
}
