package tiers

type CreateTierRequest struct {
	Name         string   `json:"name" binding:"required"`
	MonthlyPrice float64  `json:"monthly_price" binding:"gte=0"`
	Benefits     []string `json:"benefits"`
	IsPopular    bool     `json:"is_popular"`
	IsPublic     *bool    `json:"is_public"` // default true
}

type UpdateTierRequest struct {
	Name         *string  `json:"name"`
	MonthlyPrice *float64 `json:"monthly_price" binding:"omitempty,gte=0"`
	Benefits     []string `json:"benefits"`
	IsPopular    *bool    `json:"is_popular"`
	IsPublic     *bool    `json:"is_public"`
}
