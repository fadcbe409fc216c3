// Package countdown runs the blocking, fixed-length countdown that precedes a
// restart.
//
// A Runner owns the timing and computes progress once per second; displays
// only render what they are given. A countdown cannot be cancelled: the
// context passed to Run is detached from its cancellation, and display
// failures are logged without shortening the wait.
package countdown
