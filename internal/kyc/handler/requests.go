package handler

import "verigate/internal/kyc/service"

// ImagesRequest is the body of every KYC endpoint. Images are base64 in JSON.
// DocFront is the legacy name of DocFrontImage; when both are sent
// DocFrontImage wins.
type ImagesRequest struct {
	Selfie           []byte `json:"selfie,omitempty"`
	DocFront         []byte `json:"docFront,omitempty"`
	DocFrontImage    []byte `json:"docFrontImage,omitempty"`
	DocBackImage     []byte `json:"docBackImage,omitempty"`
	DocPortraitImage []byte `json:"docPortraitImage,omitempty"`
}

// Validate settles the legacy front field. Which images are required depends
// on the endpoint and is checked by the service.
func (r *ImagesRequest) Validate() error {
	if len(r.DocFrontImage) == 0 && len(r.DocFront) > 0 {
		r.DocFrontImage = r.DocFront
	}
	r.DocFront = nil
	return nil
}

func (r *ImagesRequest) toService() service.Request {
	return service.Request{
		Selfie:   r.Selfie,
		Front:    r.DocFrontImage,
		Back:     r.DocBackImage,
		Portrait: r.DocPortraitImage,
	}
}
