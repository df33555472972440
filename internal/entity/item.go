package entity

type Item struct {
	ID       string `json:"id,omitempty"  validate:"max=50"`
	Name     string `json:"name"          validate:"required,max=255"`
	Price    int64  `json:"price"         validate:"gte=0"`
	Quantity int    `json:"quantity"      validate:"gte=1"`
}

// ModuleItem is one purchased module and the link it is delivered through.
type ModuleItem struct {
	Name        string `json:"nama"`
	DownloadURL string `json:"url,omitempty"`
}
