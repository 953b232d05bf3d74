package entities

// Product rows belong to the commerce platform and are read-only here: the
// composer only lists them so the user can pick which product gets a funnel.
type Product struct {
	ID                 int64  `json:"id" gorm:"primaryKey;column:id"`
	ProductCode        string `json:"code" gorm:"column:product_code;uniqueIndex"`
	ProductDescription string `json:"description" gorm:"column:product_description"`
	TitleProd          string `json:"title" gorm:"column:title_prod"`
}

func (Product) TableName() string {
	return "products"
}

// DisplayTitle falls back to the description and then the code, matching how
// the selection page labels products.
func (p Product) DisplayTitle() string {
	if p.TitleProd != "" {
		return p.TitleProd
	}
	if p.ProductDescription != "" {
		return p.ProductDescription
	}
	return p.ProductCode
}
