/*
Package escrow contains the payment lifecycle state machine of the mediator.

A payment moves strictly forward through four states:

	request -> REQUESTING -> pay -> PAID -> confirm -> CONFIRMED -> claim -> CLAIMED

Every operation receives the caller identity and the attached value as an
explicit Call, validates all of its preconditions before touching any state,
and returns an Outcome describing the new payment record, the value transfers
to execute and the audit event to record. The engine never moves value
itself: transfers are effects the caller persists and executes after the
state change commits.

None of the operations are safe for concurrent use against the same
Mediator; callers serialize them.
*/
package escrow
