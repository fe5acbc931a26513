package entity

// Unit unidad de medida (ea, ml, kg...). Precision = decimales permitidos.
type Unit struct {
	ID        int64
	Name      string
	Symbol    string
	Precision int
}
