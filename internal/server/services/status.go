package services

// StoreStatus tells a caller whether a read was served from the store or
// from the fixed degraded-mode fallback data. Degraded results are an
// explicit operating state, not an empty list.
type StoreStatus int

const (
	StoreAvailable StoreStatus = iota
	StoreDegraded
)

func (s StoreStatus) String() string {
	if s == StoreDegraded {
		return "degraded"
	}
	return "available"
}
