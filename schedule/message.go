package schedule

import (
	"encoding/json"
	"fmt"
)

// MessageType is the discriminator carried in the "type" field of every
// payload exchanged with the protocol transport and the dashboard.
type MessageType string

const (
	// MessageTypeTouristRequest identifies an inbound tourist request.
	MessageTypeTouristRequest MessageType = "TouristRequest"
	// MessageTypeGuideOffer identifies an inbound guide offer.
	MessageTypeGuideOffer MessageType = "GuideOffer"
	// MessageTypeScheduleProposal identifies an outbound schedule proposal.
	MessageTypeScheduleProposal MessageType = "ScheduleProposal"
	// MessageTypeAcknowledgment identifies an outbound offer acknowledgment.
	MessageTypeAcknowledgment MessageType = "Acknowledgment"
	// MessageTypeMetrics identifies an outbound dashboard metrics snapshot.
	MessageTypeMetrics MessageType = "metrics"
)

// String returns the string representation of the message type.
func (t MessageType) String() string {
	return string(t)
}

// InboundMessage is the sealed union of payloads the coordinator accepts.
// Only TouristRequest and GuideOffer implement it.
type InboundMessage interface {
	messageType() MessageType
}

func (r *TouristRequest) messageType() MessageType { return MessageTypeTouristRequest }
func (o *GuideOffer) messageType() MessageType     { return MessageTypeGuideOffer }

// DecodeMessage parses a type-discriminated JSON payload into the inbound
// message union and validates it. Malformed JSON and a missing type field
// yield ErrInvalidMessage; an unrecognised type yields ErrUnknownMessageType.
func DecodeMessage(data []byte) (InboundMessage, error) {
	var head struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if head.Type == "" {
		return nil, fmt.Errorf("%w: missing type field", ErrInvalidMessage)
	}

	switch head.Type {
	case MessageTypeTouristRequest:
		var req TouristRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
		}
		if err := req.Validate(); err != nil {
			return nil, err
		}
		return &req, nil

	case MessageTypeGuideOffer:
		var offer GuideOffer
		if err := json.Unmarshal(data, &offer); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
		}
		if err := offer.Validate(); err != nil {
			return nil, err
		}
		return &offer, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, head.Type)
	}
}
