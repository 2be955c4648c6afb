package models

// All lists every model managed by AutoMigrate, in dependency order.
func All() []any {
	return []any{
		&User{},
		&Item{},
		&PackagingMaterial{},
		&PackagingMovement{},
		&Sale{},
		&SaleItem{},
		&Purchase{},
		&TimeEntry{},
		&AccountingEntry{},
		&AuditLog{},
	}
}
