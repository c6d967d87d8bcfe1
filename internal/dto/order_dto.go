package dto

type CheckoutRequest struct {
	Subscription string `json:"subscription"`
}

type RedirectResponse struct {
	URL string `json:"url"`
}
