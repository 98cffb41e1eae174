package models

// All lists every persisted model, in dependency order, for schema tooling and tests.
func All() []any {
	return []any{
		&Customer{},
		&Farm{},
		&FarmTask{},
		&PaymentLink{},
		&PaymentHistory{},
		&PaymentWebhookEvent{},
	}
}
