package payment

type AddInstrumentRequest struct {
	Brand  string `json:"brand" binding:"required"`
	Last4  string `json:"last4" binding:"required,len=4"`
	Expiry string `json:"expiry" binding:"required"`
}
