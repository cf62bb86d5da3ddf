package controller

import "sync/atomic"

// Holder owns the running Server across configuration reloads. It is safe
// for use by the reload callback and the shutdown path at the same time.
type Holder struct {
	cur atomic.Pointer[Server]
}

// Start replaces the running server with s, closing the previous one.
func (h *Holder) Start(s *Server) {
	if old := h.cur.Swap(s); old != nil {
		old.Close()
	}
	s.Start()
}

// Close stops the running server, if any. Only the first call does work.
func (h *Holder) Close() {
	if s := h.cur.Swap(nil); s != nil {
		s.Close()
	}
}

func (h *Holder) Current() *Server {
	return h.cur.Load()
}
