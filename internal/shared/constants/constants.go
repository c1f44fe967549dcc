package constants

// Table names
const (
	TablePaymentIntents = "payment_intents"
	TableOrders         = "orders"
	TableOrderNotes     = "order_notes"
)

// Runtime environments
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)
