// Package recorder accumulates named geometric values into frames and
// exports them as point attributes to a geometry host.
//
// A Logger owns an ordered frame buffer. Record appends to the current frame,
// AdvanceFrame starts a new one and Export flattens every frame into five
// parallel columns (P, name, kind, time, metadata) which are committed to the
// export target: a container file written through a transient host, or a
// node inside a live host session.
//
// At most one Logger can be constructed per process. It is passed to call
// sites explicitly or through a context.Context, and Close performs the final
// export.
package recorder
