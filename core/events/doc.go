// Package events defines the prediction related events emitted on the
// event bus.
//
// Available event types:
//   - SampleEvent: a raw sample was accepted into the tracker
//   - RejectEvent: a raw sample was rejected with a reason
//   - TickEvent: a prediction tick completed and was published
//   - SkipEvent: a tick was skipped because the previous one overran
//   - StaleEvent: the session went stale after a sensor dropout
//   - ResetEvent: the session restarted and the belief was reset
package events
