package domain

import "regexp"

// EmailRe matches the address shape the marketing forms accept. Deliberately
// loose; deliverability is the mailer's problem.
var EmailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
