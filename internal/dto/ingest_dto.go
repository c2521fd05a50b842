package dto

import "github.com/yuanbopang/subscription-manager/internal/nlp"

type IngestRequest struct {
	Text      string `json:"text"`
	ImageData string `json:"image_data,omitempty"`
}

// IngestResponse is the NLP creation envelope. Success=false with a
// human-readable message and whatever partial draft was recovered is the
// soft-failure shape; it is never an HTTP error.
type IngestResponse struct {
	Success      bool                  `json:"success"`
	Message      string                `json:"message"`
	Subscription *SubscriptionResponse `json:"subscription,omitempty"`
	ParsedData   *nlp.Draft            `json:"parsed_data,omitempty"`
}
