// Package record holds the campaign record, its stored encoding, the shared
// id index and the status state machine.
//
// Records live under Key(id) in a flat key-value store and their ids are
// listed under IndexKey. Only the owner may move a pending record to
// verified or rejected. That rule is enforced here, on the client side,
// and nowhere else: the store accepts any write, so a client that bypasses
// this package can set any record's status directly.
package record
