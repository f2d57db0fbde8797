package dto

// RegisterRequest is the request body for vendor registration.
type RegisterRequest struct {
	Username   string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password   string `json:"password" binding:"required,min=8,max=128"`
	VendorName string `json:"vendor_name" binding:"required,min=1,max=100"`
}

// LoginRequest is the request body for vendor login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	VendorID   string `json:"vendor_id"`
	Username   string `json:"username"`
	VendorName string `json:"vendor_name"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// CreateLinkRequest is the request body for minting a payment link.
// Amount is a decimal string to keep currency values exact in transit.
type CreateLinkRequest struct {
	Amount      string  `json:"amount" binding:"required,amount"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=200"`
}

// LinkResponse is the vendor-facing view of a payment link.
type LinkResponse struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	URL         string  `json:"url"`
	Amount      string  `json:"amount"`
	Description *string `json:"description,omitempty"`
	IsActive    bool    `json:"is_active"`
	AccessCount int64   `json:"access_count"`
	CreatedAt   string  `json:"created_at"`
}

// LinkPreviewResponse is the public payer-facing view of a link. It omits
// ownership and counter details.
type LinkPreviewResponse struct {
	Code        string  `json:"code"`
	Amount      string  `json:"amount"`
	Description *string `json:"description,omitempty"`
}

// CredentialsRequest is the request body for saving a gateway key pair.
// Both halves are required together.
type CredentialsRequest struct {
	PublicKey string `json:"public_key" binding:"required,min=1,max=200"`
	SecretKey string `json:"secret_key" binding:"required,min=1,max=200"`
}

// CredentialsResponse reports a vendor's credential state. The secret half
// is never echoed back.
type CredentialsResponse struct {
	Configured bool   `json:"configured"`
	PublicKey  string `json:"public_key,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// CreateChargeRequest is the request body for generating a PIX charge.
// Amount is required on platform-routed charges and ignored when the
// charge is scoped to a link.
type CreateChargeRequest struct {
	Amount        *string `json:"amount,omitempty" binding:"omitempty,amount"`
	CustomerName  string  `json:"customer_name" binding:"required,min=1,max=100"`
	CustomerEmail string  `json:"customer_email" binding:"required,email"`
	CustomerCpf   string  `json:"customer_cpf" binding:"required,cpf"`
}

// ChargeResponse is the payer-facing result of a generated charge.
type ChargeResponse struct {
	InstrumentID     string `json:"instrument_id"`
	PayCode          string `json:"pay_code"`
	QRCodePNG        string `json:"qr_code_png,omitempty"` // base64 PNG
	AmountMinorUnits int64  `json:"amount_minor_units"`
	ExpiresAt        string `json:"expires_at"`
	ExpiresIn        int64  `json:"expires_in"` // seconds
}

// InstrumentStatusResponse is the polled countdown view of a charge.
type InstrumentStatusResponse struct {
	State     string `json:"state"`
	Remaining int64  `json:"remaining"` // seconds
	ExpiresAt string `json:"expires_at,omitempty"`
}
