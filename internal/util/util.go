package util

import "log"

// Log is the shared package logger.
var Log = log.New(log.Writer(), "segment: ", log.LstdFlags)

func Assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
