// Package session holds the state of one interactive approximation: the
// typed input strings, display settings, the engine and every convergent
// computed so far.
//
// A [Session] is an explicit object; create one per independent input and
// hand it to the views that need it. Views subscribe through [Listener] and
// are called synchronously, in registration order, after each mutation.
// Input changes are announced before settings changes, and both before the
// data and finished events of the restart that follows them.
//
// Session state round-trips through a compact string (JSON, zlib, base64)
// suitable for links; see [EncodeState] and [DecodeState].
package session
