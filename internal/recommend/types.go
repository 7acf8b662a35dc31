// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package recommend

import "time"

// Occupancy is a guest count broken down by type.
type Occupancy struct {
	// Adults is the number of adult guests.
	Adults int `json:"adults"`

	// Children is the number of child guests.
	Children int `json:"children"`

	// Pets is the number of pets.
	Pets int `json:"pets"`
}

// Guests returns the number of human guests (adults + children).
func (o Occupancy) Guests() int {
	return o.Adults + o.Children
}

// Total returns the total occupancy including pets.
func (o Occupancy) Total() int {
	return o.Adults + o.Children + o.Pets
}

// IsZero reports whether the occupancy is empty.
func (o Occupancy) IsZero() bool {
	return o.Adults == 0 && o.Children == 0 && o.Pets == 0
}

// Add returns the element-wise sum of two occupancies.
func (o Occupancy) Add(other Occupancy) Occupancy {
	return Occupancy{
		Adults:   o.Adults + other.Adults,
		Children: o.Children + other.Children,
		Pets:     o.Pets + other.Pets,
	}
}

// Capacity describes a guest allowance by type plus an overall ceiling.
// Max bounds adults + children for default capacity and the full total
// for extra capacity; pets are excluded from the default ceiling.
type Capacity struct {
	// Adults is the adult allowance.
	Adults int `json:"adults"`

	// Children is the child allowance.
	Children int `json:"children"`

	// Pets is the pet allowance.
	Pets int `json:"pets"`

	// Max is the overall ceiling for this capacity block.
	Max int `json:"max"`
}

// RoomRequest is one guest party asking for a room.
// Requests are immutable once scored; SlotIndex is the caller-visible
// position used as the optimizer dimension index.
type RoomRequest struct {
	// Adults is the number of adults in the party.
	Adults int `json:"adults" validate:"min=0"`

	// Children is the number of children in the party.
	Children int `json:"children" validate:"min=0"`

	// Pets is the number of pets travelling with the party.
	Pets int `json:"pets" validate:"min=0"`

	// SlotIndex is the position of this request in the caller's list.
	SlotIndex int `json:"slotIndex"`
}

// Occupancy returns the request's guest breakdown.
func (r RoomRequest) Occupancy() Occupancy {
	return Occupancy{Adults: r.Adults, Children: r.Children, Pets: r.Pets}
}

// Product is a sellable room product. Read-only reference data supplied
// by the caller; the engine never mutates it.
type Product struct {
	// Code uniquely identifies the product.
	Code string `json:"code" validate:"required"`

	// Type is the sale-strategy category tag used for flow filtering.
	Type string `json:"type"`

	// DefaultCapacity is the base guest allowance.
	DefaultCapacity Capacity `json:"defaultCapacity"`

	// ExtraCapacity is the overflow allowance (sofa beds and similar).
	ExtraCapacity Capacity `json:"extraCapacity"`

	// Price is the nightly base price.
	Price float64 `json:"price" validate:"min=0"`

	// Restricted flags inventory-sensitive products that are
	// preferentially avoided unless needed to fill all slots.
	Restricted bool `json:"isRestricted"`

	// AvailableToSell is the number of physical instances left.
	AvailableToSell int `json:"availableToSell" validate:"min=0"`

	// RatePlanCode identifies the rate plan, empty when undefined.
	RatePlanCode string `json:"ratePlanCode"`

	// Buildings lists the buildings this product can be fulfilled in.
	Buildings []string `json:"buildingList,omitempty"`

	// Features lists the product's feature codes.
	Features []string `json:"featureList,omitempty"`

	// Bedrooms is the bedroom count, zero when unknown.
	Bedrooms int `json:"bedroomCount"`
}

// TotalCapacity returns the combined default + extra ceiling.
func (p Product) TotalCapacity() int {
	return p.DefaultCapacity.Max + p.ExtraCapacity.Max
}

// HasFeature reports whether the product carries the given feature code.
func (p Product) HasFeature(code string) bool {
	for _, f := range p.Features {
		if f == code {
			return true
		}
	}
	return false
}

// BookingHistoryItem is external, read-only booking history for one product.
type BookingHistoryItem struct {
	// ProductCode identifies the product.
	ProductCode string `json:"productCode"`

	// SameBookingPeriod is the booking count within the requested period.
	SameBookingPeriod int `json:"sameBookingPeriod"`

	// TotalHistoryBookingTime is the all-time booking count.
	TotalHistoryBookingTime int `json:"totalHistoryBookingTime"`

	// ProductPopularity is an externally supplied popularity signal.
	ProductPopularity float64 `json:"productPopularity"`
}

// Feature is a requested guest preference with catalog popularity.
type Feature struct {
	// Code identifies the feature.
	Code string `json:"code"`

	// Name is the display name.
	Name string `json:"name"`

	// Popularity is the catalog popularity of the feature.
	Popularity float64 `json:"popularity"`

	// Priority is the request priority: 0 is highest. Nil when the
	// caller expressed no priority.
	Priority *int `json:"priority,omitempty"`
}

// Event temporarily inflates the popularity of the features it lists.
type Event struct {
	// Features lists the feature codes boosted by the event.
	Features []string `json:"featureList"`
}

// Flow identifies one recommendation flow.
type Flow int

const (
	// FlowMostPopular recommends historically popular products.
	FlowMostPopular Flow = iota
	// FlowTip is the editorial-tip flow.
	FlowTip
	// FlowDirect is the direct best-capacity-fit flow.
	FlowDirect
	// FlowMatch is the feature-match flow.
	FlowMatch
)

// String returns the flow name used for configuration and output keys.
func (f Flow) String() string {
	switch f {
	case FlowMostPopular:
		return "mostPopular"
	case FlowTip:
		return "tip"
	case FlowDirect:
		return "direct"
	case FlowMatch:
		return "match"
	default:
		return "unknown"
	}
}

// Request is one recommendation request. All referenced data lives only
// for the duration of a single Recommend call.
type Request struct {
	// Rooms is the list of simultaneous room requests.
	Rooms []RoomRequest `json:"roomRequestList" validate:"required,min=1,dive"`

	// Products is the candidate product pool.
	Products []Product `json:"productList" validate:"required,min=1,dive"`

	// SaleStrategyTypes is the per-flow allow-list of product types,
	// keyed by Flow.String(). An absent or empty list allows all types.
	SaleStrategyTypes map[string][]string `json:"saleStrategyTypes,omitempty"`

	// ExcludeCombinations lists code multisets that must never be
	// recommended again.
	ExcludeCombinations [][]string `json:"excludeCombinations,omitempty"`

	// ExcludeBasePrices lists total base prices already used.
	ExcludeBasePrices []float64 `json:"excludeBasePrices,omitempty"`

	// History is external booking history, read-only.
	History []BookingHistoryItem `json:"bookingHistoryList,omitempty"`

	// Features is the guest's requested feature list.
	Features []Feature `json:"featureList,omitempty"`

	// Events lists active events inflating feature popularity.
	Events []Event `json:"eventList,omitempty"`

	// RequestID is a unique identifier for tracing, generated when empty.
	RequestID string `json:"requestId,omitempty"`
}

// RecommendationItem is one recommended product within an option.
type RecommendationItem struct {
	// Code is the recommended product code.
	Code string `json:"code"`

	// AllocatedDefault is the guest split placed in default capacity.
	AllocatedDefault Occupancy `json:"allocatedCapacityDefault"`

	// AllocatedExtra is the guest split placed in extra capacity.
	AllocatedExtra Occupancy `json:"allocatedCapacityExtra"`

	// RoomIndexes lists the caller slot indexes this product serves.
	// More than one index means the slots were merged.
	RoomIndexes []int `json:"allocatedRoomIndexList"`

	// MatchingScore is set for the feature-match flow.
	MatchingScore float64 `json:"matchingScore,omitempty"`

	// Building is the product's primary building, when known.
	Building string `json:"building,omitempty"`
}

// Option is one recommended combination of products.
type Option struct {
	// Items is the ordered product list, one per slot group.
	Items []RecommendationItem `json:"items"`

	// BasePrice is the total base price of the option.
	BasePrice float64 `json:"basePrice"`

	// Restricted is true when any constituent product is restricted.
	Restricted bool `json:"isRestricted"`

	// Matched is true when every product matched the requested features.
	Matched bool `json:"isMatched,omitempty"`

	// AverageMatchingScore is the mean matching score across items,
	// populated for the feature-match flow.
	AverageMatchingScore float64 `json:"averageMatchingScore,omitempty"`
}

// FlowResult is the output of one flow: option index → option.
type FlowResult struct {
	// Options maps the option index ("0", "1", ...) to its content.
	Options map[string]Option `json:"options"`
}

// Response is the full recommendation response.
type Response struct {
	// Flows maps flow name to its result.
	Flows map[string]FlowResult `json:"flows"`

	// Tips lists human-readable allocation warnings. Non-functional.
	Tips []string `json:"tips,omitempty"`

	// Metadata carries timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// FlowsRun lists the flows that produced a result.
	FlowsRun []string `json:"flows_run"`

	// LatencyMS is the total recommendation latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}
