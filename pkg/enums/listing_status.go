package enums

import "fmt"

// ListingStatus tracks the state of a fish listing.
type ListingStatus string

const (
	ListingStatusAvailable   ListingStatus = "AVAILABLE"
	ListingStatusSold        ListingStatus = "SOLD"
	ListingStatusSentFresh   ListingStatus = "SENT FRESH"
	ListingStatusSentFrozen  ListingStatus = "SENT FROZEN"
	ListingStatusUnsentFresh ListingStatus = "UNSENT FRESH"
)

var validListingStatuses = []ListingStatus{
	ListingStatusAvailable,
	ListingStatusSold,
	ListingStatusSentFresh,
	ListingStatusSentFrozen,
	ListingStatusUnsentFresh,
}

// String implements fmt.Stringer.
func (l ListingStatus) String() string {
	return string(l)
}

// IsValid reports whether the value is a known ListingStatus.
func (l ListingStatus) IsValid() bool {
	for _, candidate := range validListingStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseListingStatus converts raw input into a ListingStatus.
func ParseListingStatus(value string) (ListingStatus, error) {
	for _, candidate := range validListingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing status %q", value)
}
