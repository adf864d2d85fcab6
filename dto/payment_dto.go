package dto

type CreateCheckoutSessionDTO struct {
	ResourceId   string `json:"resourceId" binding:"required"`
	ResourceType string `json:"resourceType" binding:"required,oneof=course documentation"`
	SuccessUrl   string `json:"successUrl"`
	CancelUrl    string `json:"cancelUrl"`
}

type RecordPurchaseDTO struct {
	SessionId string `json:"sessionId" binding:"required"`
}
