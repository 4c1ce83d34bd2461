// Package checker holds the stateless security checks behind the password
// and scan commands.
//
//   - CheckPassword scores a password against a PasswordPolicy. Each enabled
//     criterion is worth one point and a password is strong only with a full score.
//   - PortScanner walks an inclusive port range one TCP connect at a time.
//     Name resolution happens once up front, and a host that turns out to be
//     unreachable ends the scan with a single error instead of one per port.
//     An optional golang.org/x/time/rate limiter paces the attempts.
package checker
