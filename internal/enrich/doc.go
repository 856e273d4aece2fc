// Package enrich turns a log call into a record annotated with run metadata,
// the call site, and the doc comment of the function that made the call.
//
// An Engine resolves the caller's frame, normalizes the frame path, looks the
// line up in the declaration map, optionally attaches a source snippet and
// stack, and hands the composed Record to a Sink. Nothing on that path
// returns an error to Log callers: a missing map, an unreadable file, or an
// unknown call site simply leaves the corresponding fields out. Emit is the
// variant for callers that want to see sink failures.
//
// Payload keys are merged last and replace fixed keys in place, so a payload
// "event" changes the value of the event field without moving it.
package enrich
