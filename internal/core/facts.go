package core

// FactKey names a durable user-level fact. The vocabulary is open: the
// extractor writes the keys below, the manual-set API accepts any key.
type FactKey string

const (
	FactName       FactKey = "name"
	FactWorkplace  FactKey = "workplace"
	FactLocation   FactKey = "location"
	FactInterests  FactKey = "interests"
	FactProfession FactKey = "profession"
	FactAge        FactKey = "age"
)
