package remote

// State is returned by every call so the client can keep its view of the
// display current without extra round trips.
type State struct {
	Width  int
	Height int
	Scroll int
}

type BlitRequest struct {
	Buf  []byte
	X, Y int
	W, H int
}
