package models

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&Vendor{},
		&MenuItem{},
		&SocialLink{},
		&CustomLink{},
		&Payment{},
		&Voucher{},
		&ContactRequest{},
		&VendorVisit{},
		&AdClick{},
	}
}
