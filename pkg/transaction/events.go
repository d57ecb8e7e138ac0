package transaction

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/suffix-labs/siakit/pkg/types"
)

// Event types reported by wallet indexers.
const (
	EventTypeMinerPayout          = "miner"
	EventTypeFoundationSubsidy    = "foundation"
	EventTypeSiafundClaim         = "siafundClaim"
	EventTypeV1Transaction        = "v1Transaction"
	EventTypeV2Transaction        = "v2Transaction"
	EventTypeV1ContractResolution = "v1ContractResolution"
	EventTypeV2ContractResolution = "v2ContractResolution"
)

// EventData is the payload of an Event. Its concrete type is selected by the
// event's Type.
type EventData interface {
	isEventData()
}

func (EventPayout) isEventData()               {}
func (EventV1Transaction) isEventData()        {}
func (EventV2Transaction) isEventData()        {}
func (EventV2ContractResolution) isEventData() {}

// An EventPayout is the payload of miner, foundation and siafund claim
// events.
type EventPayout struct {
	SiacoinElement SiacoinElement `json:"siacoinElement"`
}

// An EventV1Transaction is a v1 transaction together with the elements it
// spent.
type EventV1Transaction struct {
	Transaction          V1Transaction    `json:"transaction"`
	SpentSiacoinElements []SiacoinElement `json:"spentSiacoinElements,omitempty"`
	SpentSiafundElements []SiafundElement `json:"spentSiafundElements,omitempty"`
}

// An EventV2Transaction is the payload of a v2 transaction event.
type EventV2Transaction V2Transaction

// An EventV2ContractResolution records the payout created when a v2 contract
// was resolved. Missed is set when the host failed to submit a proof.
type EventV2ContractResolution struct {
	Resolution     V2FileContractResolution `json:"resolution"`
	SiacoinElement SiacoinElement           `json:"siacoinElement"`
	Missed         bool                     `json:"missed"`
}

// An Event is something that happened on the chain that is relevant to a
// set of addresses.
type Event struct {
	ID             types.Hash256    `json:"id"`
	Index          types.ChainIndex `json:"index"`
	Confirmations  uint64           `json:"confirmations"`
	Timestamp      time.Time        `json:"timestamp"`
	MaturityHeight uint64           `json:"maturityHeight"`
	Type           string           `json:"type"`
	Data           EventData        `json:"data"`
	Relevant       []types.Address  `json:"relevant,omitempty"`
}

// V2Transaction returns the transaction carried by a v2 transaction event.
func (ev Event) V2Transaction() (V2Transaction, bool) {
	data, ok := ev.Data.(EventV2Transaction)
	return V2Transaction(data), ok
}

// UnmarshalJSON implements json.Unmarshaler. The data payload is decoded
// according to the event type. v1 contract resolutions are rejected with a
// *types.UnsupportedError.
func (ev *Event) UnmarshalJSON(b []byte) error {
	var v struct {
		ID             types.Hash256    `json:"id"`
		Index          types.ChainIndex `json:"index"`
		Confirmations  uint64           `json:"confirmations"`
		Timestamp      time.Time        `json:"timestamp"`
		MaturityHeight uint64           `json:"maturityHeight"`
		Type           string           `json:"type"`
		Data           json.RawMessage  `json:"data"`
		Relevant       []types.Address  `json:"relevant"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	var data EventData
	var err error
	switch v.Type {
	case EventTypeMinerPayout, EventTypeFoundationSubsidy, EventTypeSiafundClaim:
		var p EventPayout
		err = json.Unmarshal(v.Data, &p)
		data = p
	case EventTypeV1Transaction:
		var t EventV1Transaction
		err = json.Unmarshal(v.Data, &t)
		data = t
	case EventTypeV2Transaction:
		var t EventV2Transaction
		err = json.Unmarshal(v.Data, &t)
		data = t
	case EventTypeV2ContractResolution:
		var r EventV2ContractResolution
		err = json.Unmarshal(v.Data, &r)
		data = r
	case EventTypeV1ContractResolution:
		return &types.UnsupportedError{Feature: EventTypeV1ContractResolution,
			Message: "v1 contract resolution events cannot be decoded"}
	default:
		return &DecodeError{Code: ErrUnknownEventType, Type: v.Type, Message: "unknown event type"}
	}
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			return err
		}
		return &DecodeError{Code: ErrInvalidEventData, Type: v.Type,
			Message: "event data does not match its type", Cause: err}
	}

	*ev = Event{
		ID:             v.ID,
		Index:          v.Index,
		Confirmations:  v.Confirmations,
		Timestamp:      v.Timestamp,
		MaturityHeight: v.MaturityHeight,
		Type:           v.Type,
		Data:           data,
		Relevant:       v.Relevant,
	}
	return nil
}
