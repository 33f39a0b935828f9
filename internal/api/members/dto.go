package members

// ChangeTierRequest moves a member; a null tier_id drops the paid tier.
type ChangeTierRequest struct {
	TierID *string `json:"tier_id"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive pending"`
}
