package entity

// BranchRecord una fila del export mensual de integraciones POS.
// Country es un atributo derivado: se resuelve desde EntityID con la tabla
// de países antes de entrar al motor de reglas.
type BranchRecord struct {
	EntityID        string
	VendorCode      string
	RemoteID        string
	BranchName      string
	IntegrationName string
	ChainID         string
	ChainName       string
	DeliveryType    string
	Orders          *int64 // nil = desconocido; informativo, no participa en la facturación
	Country         string
}

// HasOrders indica si la fila trae un conteo de pedidos parseable.
func (b BranchRecord) HasOrders() bool { return b.Orders != nil }
